package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pagesmith-api/core/domain"
	coreerrors "pagesmith-api/core/errors"
	"pagesmith-api/core/interfaces"
)

type mockStore struct {
	pages map[string]string
	loads int
}

func (m *mockStore) Load(ctx context.Context, pageID string) ([]byte, error) {
	m.loads++
	data, ok := m.pages[pageID]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	}
	return []byte(data), nil
}

func (m *mockStore) Store(ctx context.Context, pageID string, data []byte) error {
	m.pages[pageID] = string(data)
	return nil
}

type mockCache struct {
	data map[string][]byte
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, &coreerrors.NotFoundError{Resource: "cache", ID: key}
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func TestMetadataService_ExtractMetadata(t *testing.T) {
	store := &mockStore{pages: map[string]string{
		"home": `{"html":"<section lang=\"en\"><h1>Launch day</h1><img src=\"/img/hero.jpg\"><p>We shipped it.</p></section>","css":""}`,
	}}
	cache := &mockCache{data: make(map[string][]byte)}
	svc := NewMetadataService(interfaces.Dependencies{Store: store, Cache: cache, Logger: &mockLogger{}}, "https://pages.example.com/")

	meta, err := svc.ExtractMetadata(context.Background(), "home")
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	if meta.Title != "Launch day" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Image != "/img/hero.jpg" {
		t.Errorf("Image = %q", meta.Image)
	}
	if meta.Language != "en" {
		t.Errorf("Language = %q", meta.Language)
	}

	var cached domain.PageMetadata
	if err := json.Unmarshal(cache.data[MetadataCacheKey("home")], &cached); err != nil {
		t.Fatalf("metadata not cached: %v", err)
	}

	// second call is served from cache
	if _, err := svc.ExtractMetadata(context.Background(), "home"); err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	if store.loads != 1 {
		t.Errorf("store loaded %d times, want 1", store.loads)
	}
}

func TestMetadataService_Errors(t *testing.T) {
	store := &mockStore{pages: map[string]string{"old": `{"data":{"root":{}}}`}}
	svc := NewMetadataService(interfaces.Dependencies{Store: store, Logger: &mockLogger{}}, "")

	if _, err := svc.ExtractMetadata(context.Background(), "missing"); !coreerrors.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	meta, err := svc.ExtractMetadata(context.Background(), "old")
	if err != nil {
		t.Fatalf("ExtractMetadata() error = %v", err)
	}
	if *meta != (domain.PageMetadata{}) {
		t.Errorf("legacy metadata = %+v, want empty", meta)
	}
}
