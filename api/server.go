// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, middleware and the websocket hub mount

package api

import (
	"net/http"

	"pagesmith-api/api/middleware"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/pkg/featureflags"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const (
	apiTitle   = "Pagesmith API"
	apiVersion = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger         interfaces.Logger
	Flags          featureflags.Manager
	AllowedOrigins []string

	// RateLimiter is applied while the rate_limit_enabled flag is on
	RateLimiter *middleware.RateLimiter

	// HubPath and Hub mount the websocket hub next to the API
	HubPath string
	Hub     http.Handler
}

// NewAPI creates and configures a new Huma API instance
func NewAPI() (huma.API, chi.Router) {
	return NewAPIWithMiddleware(APIConfig{})
}

// NewAPIWithMiddleware creates a new API with middleware configured
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	// CORS first so preflights are answered before anything else runs
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if cfg.Flags != nil {
		router.Use(middleware.FeatureFlags(cfg.Flags))
	}

	if cfg.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimiter))
	}

	if cfg.Hub != nil {
		path := cfg.HubPath
		if path == "" {
			path = "/hub"
		}
		router.Handle(path, cfg.Hub)
	}

	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = "API for storing pages, rendering them for SSR and static output, and relaying live generation events"

	// The OpenAPI spec is served at /openapi.json and the docs UI at /docs
	api := humachi.New(router, config)

	return api, router
}
