package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pagesmith-api/core/domain"
	"pagesmith-api/core/editor"
	coreerrors "pagesmith-api/core/errors"
	"pagesmith-api/core/livesync"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type countingStore struct {
	mu     sync.Mutex
	stores int
	err    error
	data   map[string][]byte
}

func (s *countingStore) Load(ctx context.Context, pageID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[pageID]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	}
	return d, nil
}

func (s *countingStore) Store(ctx context.Context, pageID string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores++
	return s.err
}

// idleTransport connects and joins but never delivers events
type idleTransport struct {
	events chan domain.Event
}

func (t *idleTransport) Connect(ctx context.Context) error       { return nil }
func (t *idleTransport) Join(ctx context.Context, p string) error  { return nil }
func (t *idleTransport) Leave(ctx context.Context, p string) error { return nil }
func (t *idleTransport) Disconnect() error                         { return nil }
func (t *idleTransport) Events() <-chan domain.Event               { return t.events }

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--page", "home", "--api", "https://pages.example.com/api/"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.pageID != "home" {
		t.Errorf("pageID = %q", opts.pageID)
	}
	if opts.hubURL != "wss://pages.example.com/api/hub" {
		t.Errorf("hubURL = %q", opts.hubURL)
	}

	opts, err = parseFlags([]string{"-p", "x", "--hub", "ws://other/hub", "--autosave", "5s", "--ping-interval", "10s"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.hubURL != "ws://other/hub" || opts.autosave.Seconds() != 5 || opts.pingInterval.Seconds() != 10 {
		t.Errorf("opts = %+v", opts)
	}

	if _, err := parseFlags([]string{"--api", "http://x"}); err == nil {
		t.Error("missing --page should fail")
	}
	if _, err := parseFlags([]string{"-p", "x", "--api", "ftp://x"}); err == nil {
		t.Error("unsupported scheme should fail")
	}
}

func TestLoadInitial(t *testing.T) {
	store := &countingStore{data: map[string][]byte{"home": []byte(`{"html":"<p>a</p>","css":""}`)}}

	c, err := loadInitial(context.Background(), store, "home")
	if err != nil || c.Kind != domain.KindDocument || c.Document.Markup != "<p>a</p>" {
		t.Errorf("loadInitial(home) = %+v, %v", c, err)
	}

	c, err = loadInitial(context.Background(), store, "new")
	if err != nil || c.Kind != domain.KindEmpty {
		t.Errorf("loadInitial(new) = %+v, %v", c, err)
	}
}

func TestAutosaver_DoesNotRetryFailedRevision(t *testing.T) {
	store := &countingStore{err: errors.New("offline")}
	ed := editor.New("home", domain.PageContent{}, store, nopLogger{})
	session := livesync.NewSession(livesync.Config{PageID: "home"}, &idleTransport{events: make(chan domain.Event)}, ed, nopLogger{})
	session.Start(context.Background())
	defer session.Close()

	saver := newAutosaver(ed, session, nopLogger{})
	ctx := context.Background()

	saver.tick(ctx)
	if store.stores != 0 {
		t.Fatalf("clean editor saved %d times", store.stores)
	}

	_ = session.Edit(ctx, func() { ed.SetMarkup("<p>one</p>") })
	saver.tick(ctx)
	saver.tick(ctx)
	if store.stores != 1 {
		t.Errorf("failed revision stored %d times, want 1", store.stores)
	}

	_ = session.Edit(ctx, func() { ed.SetMarkup("<p>two</p>") })
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	saver.tick(ctx)
	if store.stores != 2 || ed.Dirty() {
		t.Errorf("stores = %d dirty = %v after new revision", store.stores, ed.Dirty())
	}
}
