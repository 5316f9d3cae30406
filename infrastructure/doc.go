// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as persistence, caching, HTTP communication, real-time transport and
// logging.
//
// The infrastructure package is organized by technical concern:
//
// - store/memory: In-process page store on go-cache
// - store/sqlite: SQLite page store (mattn/go-sqlite3)
// - store/redis: RedisJSON page store (go-redis + go-rejson)
// - store/remote: Page store backed by the page API over HTTP
// - cache/memory: In-memory cache on go-cache
// - cache/redis: Redis-based cache implementation
// - http/standard: Standard library HTTP client with retry logic
// - realtime: Websocket hub and client transport (gorilla/websocket)
// - logger/structured: logrus logger with optional rotated file output
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
//
// # Stores
//
//	store, err := sqlite.NewStore("/var/lib/pagesmith/pages.db")
//	err = store.Store(ctx, "home", []byte(`{"html":"<h1>Hi</h1>","css":""}`))
//	data, err := store.Load(ctx, "home")
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// # Real-time Hub
//
//	hub := realtime.NewHub(logger, realtime.HubConfig{})
//	router.Handle("/hub", hub)
//	hub.Broadcast("home", domain.Event{Type: domain.EventBuildingStarted})
//
// # Logger
//
//	logger := structured.New(structured.Config{Level: "debug"})
//	logger.Info("Page stored", map[string]interface{}{
//	    "page_id": "home",
//	})
package infrastructure
