package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"pagesmith-api/core/errors"
	"pagesmith-api/infrastructure/http/standard"
)

type fakeAPI struct {
	mu    sync.Mutex
	pages map[string]string
	fail  bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := strings.TrimPrefix(r.URL.Path, "/pages/")
	switch r.Method {
	case http.MethodGet:
		page, ok := f.pages[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(page))
	case http.MethodPut:
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"Failed to save page"}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.pages[id] = string(body)
		w.WriteHeader(http.StatusOK)
	}
}

func newRemote(t *testing.T) (*Store, *fakeAPI) {
	api := &fakeAPI{pages: map[string]string{"home": `{"html":"<p>hi</p>","css":""}`}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewStore(standard.NewStandardHTTPClient(5*time.Second), srv.URL+"/"), api
}

func TestStore_Load(t *testing.T) {
	store, _ := newRemote(t)

	data, err := store.Load(context.Background(), "home")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != `{"html":"<p>hi</p>","css":""}` {
		t.Errorf("Load() = %s", data)
	}

	_, err = store.Load(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("Load(missing) error = %v, want NotFoundError", err)
	}
}

func TestStore_StoreRoundTrip(t *testing.T) {
	store, api := newRemote(t)
	ctx := context.Background()

	if err := store.Store(ctx, "new-page", []byte(`{"html":"<h1>x</h1>","css":""}`)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if api.pages["new-page"] != `{"html":"<h1>x</h1>","css":""}` {
		t.Errorf("server received %q", api.pages["new-page"])
	}

	data, err := store.Load(ctx, "new-page")
	if err != nil || string(data) != `{"html":"<h1>x</h1>","css":""}` {
		t.Errorf("Load() after Store = %s, %v", data, err)
	}
}

func TestStore_StoreFailure(t *testing.T) {
	store, api := newRemote(t)
	api.fail = true

	err := store.Store(context.Background(), "home", []byte(`{}`))
	if err == nil {
		t.Fatal("Store() should fail when the API rejects the write")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestStore_LoadRejectsOversizedPage(t *testing.T) {
	store, api := newRemote(t)
	api.pages["huge"] = `{"html":"` + strings.Repeat("a", maxPageSize) + `","css":".a{}"}`
	api.pages["limit"] = strings.Repeat("b", maxPageSize)

	data, err := store.Load(context.Background(), "huge")
	if err == nil {
		t.Fatalf("Load() returned %d bytes, want an error for oversized content", len(data))
	}
	if data != nil {
		t.Errorf("Load() should not return partial content, got %d bytes", len(data))
	}

	data, err = store.Load(context.Background(), "limit")
	if err != nil {
		t.Fatalf("Load() at the size limit error = %v", err)
	}
	if len(data) != maxPageSize {
		t.Errorf("Load() = %d bytes, want %d", len(data), maxPageSize)
	}
}
