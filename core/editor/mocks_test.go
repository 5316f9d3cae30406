package editor

import (
	"context"
	"sync"
)

// mockStore is a mock implementation of the PageStore interface
type mockStore struct {
	mu        sync.Mutex
	storeFunc func(ctx context.Context, pageID string, data []byte) error
	saved     map[string][]byte
	calls     int
}

func (m *mockStore) Load(ctx context.Context, pageID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[pageID], nil
}

func (m *mockStore) Store(ctx context.Context, pageID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.storeFunc != nil {
		if err := m.storeFunc(ctx, pageID, data); err != nil {
			return err
		}
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[pageID] = data
	return nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}
