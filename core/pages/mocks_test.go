package pages

import (
	"context"
	"sync"
	"time"

	"pagesmith-api/core/domain"
	coreerrors "pagesmith-api/core/errors"
)

// mockStore is an in-memory implementation of the PageStore interface
type mockStore struct {
	mu        sync.Mutex
	pages     map[string][]byte
	storeFunc func(ctx context.Context, pageID string, data []byte) error
}

func newMockStore(pages map[string]string) *mockStore {
	m := &mockStore{pages: make(map[string][]byte)}
	for id, data := range pages {
		m.pages[id] = []byte(data)
	}
	return m
}

func (m *mockStore) Load(ctx context.Context, pageID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.pages[pageID]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	}
	return data, nil
}

func (m *mockStore) Store(ctx context.Context, pageID string, data []byte) error {
	if m.storeFunc != nil {
		if err := m.storeFunc(ctx, pageID, data); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[pageID] = data
	return nil
}

// mockCache is a mock implementation of the Cache interface
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, &coreerrors.NotFoundError{Resource: "cache", ID: key}
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

// mockBroadcaster records broadcast events
type mockBroadcaster struct {
	mu     sync.Mutex
	events map[string][]domain.Event
}

func (m *mockBroadcaster) Broadcast(pageID string, event domain.Event) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.events == nil {
		m.events = make(map[string][]domain.Event)
	}
	m.events[pageID] = append(m.events[pageID], event)
	return 1
}

// mockPrerenderer records enqueued page ids
type mockPrerenderer struct {
	mu    sync.Mutex
	pages []string
}

func (m *mockPrerenderer) Enqueue(ctx context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, pageID)
	return nil
}

// mockMetadata returns fixed metadata
type mockMetadata struct {
	meta      *domain.PageMetadata
	onExtract func()
}

func (m *mockMetadata) ExtractMetadata(ctx context.Context, pageID string) (*domain.PageMetadata, error) {
	if m.onExtract != nil {
		m.onExtract()
	}
	return m.meta, nil
}
