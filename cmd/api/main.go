// ABOUTME: Main entry point for the Pagesmith API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagesmith-api/api"
	"pagesmith-api/api/handlers"
	"pagesmith-api/api/middleware"
	"pagesmith-api/core/interfaces"
	"pagesmith-api/core/pages"
	"pagesmith-api/core/services"
	"pagesmith-api/core/workers"
	"pagesmith-api/infrastructure/cache/memory"
	rediscache "pagesmith-api/infrastructure/cache/redis"
	"pagesmith-api/infrastructure/logger/structured"
	"pagesmith-api/infrastructure/realtime"
	memstore "pagesmith-api/infrastructure/store/memory"
	redisstore "pagesmith-api/infrastructure/store/redis"
	sqlitestore "pagesmith-api/infrastructure/store/sqlite"
	"pagesmith-api/pkg/config"
	"pagesmith-api/pkg/featureflags"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := structured.New(structured.Config{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	defer logger.Close()

	flags := featureflags.NewEnvManager("FEATURE_")
	logger.Info("Starting Pagesmith API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"store_type": cfg.Store.Type,
		"cache_type": cfg.Cache.Type,
		"flags":      flagFields(flags),
	})

	// one client serves both the page store and the cache when both use redis
	var redisClient *redis.Client
	connectRedis := func(rc config.RedisConfig) (*redis.Client, error) {
		if redisClient != nil {
			return redisClient, nil
		}
		client, err := rediscache.Connect(rc)
		if err != nil {
			return nil, err
		}
		redisClient = client
		return client, nil
	}

	store, closeStore := newStore(cfg, logger, connectRedis)
	defer closeStore()

	cache := newCache(cfg, logger, connectRedis)

	deps := interfaces.Dependencies{
		Store:  store,
		Cache:  cache,
		Logger: logger,
	}

	metadataService := services.NewMetadataService(deps, cfg.Server.PublicURL)
	pageService := pages.NewService(deps, pages.Config{
		Lang:      cfg.Render.Lang,
		StaticTTL: time.Duration(cfg.Render.StaticTTL) * time.Second,
	})
	pageService.SetMetadataService(metadataService)

	hub := realtime.NewHub(logger, realtime.HubConfig{
		PingInterval: time.Duration(cfg.Hub.PingInterval) * time.Second,
		CheckOrigin:  originChecker(cfg.Server.AllowedOrigins),
	})
	pageService.SetBroadcaster(hub)

	prerender := workers.NewPrerenderWorker(pageService, logger, workers.WorkerConfig{
		MaxWorkers: cfg.Prerender.Workers,
		QueueSize:  cfg.Prerender.QueueSize,
		JobTimeout: 30 * time.Second,
		Flags:      flags,
	})
	if err := prerender.Start(); err != nil {
		log.Fatalf("Failed to start prerender worker: %v", err)
	}
	pageService.SetPrerenderer(prerender)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer limiter.Stop()

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:         logger,
		Flags:          flags,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    limiter,
		HubPath:        cfg.Hub.Path,
		Hub:            hub,
	})

	handlers.NewPageHandler(pageService, metadataService, cfg.Render.TextLength).RegisterRoutes(humaAPI)
	handlers.NewEventHandler(pageService).RegisterRoutes(humaAPI)

	// no write timeout: hub connections are long lived
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address":  srv.Addr,
			"hub_path": cfg.Hub.Path,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// hijacked hub connections are not tracked by Shutdown
	hub.Close()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := prerender.Stop(); err != nil {
		logger.Warn("Prerender worker did not stop cleanly", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}

func newStore(cfg *config.Config, logger interfaces.Logger, connect func(config.RedisConfig) (*redis.Client, error)) (interfaces.PageStore, func()) {
	switch cfg.Store.Type {
	case "sqlite":
		store, err := sqlitestore.NewStore(cfg.Store.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open SQLite page store: %v", err)
		}
		logger.Info("Using SQLite page store", map[string]interface{}{
			"path": cfg.Store.SQLite.Path,
		})
		return store, func() { _ = store.Close() }
	case "redis":
		client, err := connect(cfg.Store.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis page store: %v", err)
		}
		logger.Info("Using Redis page store", map[string]interface{}{
			"address": cfg.Store.Redis.Address,
		})
		store := redisstore.NewStore(client, cfg.Store.Redis.KeyPrefix)
		return store, func() { _ = store.Close() }
	default:
		logger.Warn("Using in-memory page store; pages are lost on restart", nil)
		return memstore.NewStore(), func() {}
	}
}

func newCache(cfg *config.Config, logger interfaces.Logger, connect func(config.RedisConfig) (*redis.Client, error)) interfaces.Cache {
	if cfg.Cache.Type == "redis" {
		client, err := connect(cfg.Cache.Redis)
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
			return rediscache.NewRedisCacheFromClient(client, cfg.Cache.Redis.KeyPrefix)
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCacheWithCleanup(time.Duration(cfg.Cache.Memory.CleanupInterval) * time.Second)
}

// originChecker allows hub upgrades from the configured CORS origins
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func flagFields(m featureflags.Manager) map[string]bool {
	out := make(map[string]bool)
	for flag, on := range m.GetAllFlags() {
		out[string(flag)] = on
	}
	return out
}

func init() {
	fmt.Println(`
    ____                                        _ __  __
   / __ \____ _____ ____  _________ ___  (_) /_/ /_
  / /_/ / __ '/ __ '/ _ \/ ___/ __ '__ \/ / __/ __ \
 / ____/ /_/ / /_/ /  __(__  ) / / / / / / /_/ / / /
/_/    \__,_/\__, /\___/____/_/ /_/ /_/_/\__/_/ /_/
            /____/
	`)
}
