package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pagesmith-api/api/middleware"
	"pagesmith-api/pkg/featureflags"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func TestNewAPI(t *testing.T) {
	api, router := NewAPI()

	if api == nil {
		t.Error("NewAPI returned nil API")
	}
	if router == nil {
		t.Error("NewAPI returned nil router")
	}
}

func TestNewAPI_HasCorrectTitleAndVersion(t *testing.T) {
	api, _ := NewAPI()

	info := api.OpenAPI().Info
	if info.Title != "Pagesmith API" {
		t.Errorf("API title = %s, want Pagesmith API", info.Title)
	}
	if info.Version != "1.0.0" {
		t.Errorf("API version = %s, want 1.0.0", info.Version)
	}
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	_, router := NewAPI()

	req := httptest.NewRequest("GET", "/openapi.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("OpenAPI endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/vnd.oai.openapi+json" {
		t.Errorf("OpenAPI content-type = %s, want application/vnd.oai.openapi+json", ct)
	}
}

func TestAPI_DocsEndpoint(t *testing.T) {
	_, router := NewAPI()

	req := httptest.NewRequest("GET", "/docs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Docs endpoint status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAPI_MountsHub(t *testing.T) {
	hubHit := false
	hub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hubHit = true
		w.WriteHeader(http.StatusTeapot)
	})

	_, router := NewAPIWithMiddleware(APIConfig{Logger: nopLogger{}, HubPath: "/live", Hub: hub})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/live", nil))

	if !hubHit || w.Code != http.StatusTeapot {
		t.Errorf("hub not mounted: hit=%v status=%d", hubHit, w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("logging middleware did not run for the hub route")
	}
}

func TestAPI_RateLimitFollowsFlag(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.01, 1)
	defer limiter.Stop()
	flags := featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.RateLimitEnabled: true,
	})

	_, router := NewAPIWithMiddleware(APIConfig{Flags: flags, RateLimiter: limiter})

	status := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/openapi.json", nil)
		req.RemoteAddr = "10.1.1.1:5000"
		router.ServeHTTP(w, req)
		return w.Code
	}

	if got := status(); got != http.StatusOK {
		t.Fatalf("first request status = %d", got)
	}
	if got := status(); got != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", got)
	}

	flags.SetEnabled(featureflags.RateLimitEnabled, false)
	if got := status(); got != http.StatusOK {
		t.Errorf("status with flag off = %d, want 200", got)
	}
}

func TestAPI_CORSPreflight(t *testing.T) {
	_, router := NewAPIWithMiddleware(APIConfig{AllowedOrigins: []string{"https://editor.example.com"}})

	req := httptest.NewRequest("OPTIONS", "/pages/home", nil)
	req.Header.Set("Origin", "https://editor.example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://editor.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
