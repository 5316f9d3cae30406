// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, store, cache, rendering and the hub

package config

import (
	"errors"
	"os"
	"strings"

	"pagesmith-api/pkg/utils/parse"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Store selects where page content is persisted
	Store StoreConfig

	// Cache contains cache configuration for derived renderings
	Cache CacheConfig

	// Render holds rendering defaults
	Render RenderConfig

	// Hub configures the real-time event hub
	Hub HubConfig

	// RateLimit configures per-client request limiting
	RateLimit RateLimitConfig

	// Log configures the structured logger
	Log LogConfig

	// Prerender configures the background prerender pool
	Prerender PrerenderConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// PublicURL is the address pages are published under
	PublicURL string

	// AllowedOrigins for CORS; "*" when empty
	AllowedOrigins []string
}

// StoreConfig holds page store configuration
type StoreConfig struct {
	// Type specifies the store backend (memory/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key written by this service
	KeyPrefix string
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int

	// CleanupInterval is how often expired entries are purged, in seconds
	CleanupInterval int
}

// RenderConfig holds rendering defaults
type RenderConfig struct {
	// Lang is the language of static documents
	Lang string

	// StaticTTL is how long static documents are cached, in seconds
	StaticTTL int

	// TextLength is the default length of text extracts
	TextLength int
}

// HubConfig configures the event hub
type HubConfig struct {
	// Path is where the websocket endpoint is mounted
	Path string

	// PingInterval keeps idle connections alive, in seconds
	PingInterval int
}

// RateLimitConfig configures per-client request limiting
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the rate
	Burst int
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug/info/warn/error
	Level string

	// File enables a rotated log file
	File string
}

// PrerenderConfig configures the prerender pool
type PrerenderConfig struct {
	Workers   int
	QueueSize int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	redis := RedisConfig{
		Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
		DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
		KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "pagesmith"),
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8000"),
			PublicURL:      getEnvOrDefault("PUBLIC_URL", ""),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		},
		Store: StoreConfig{
			Type:  getEnvOrDefault("STORE_TYPE", "memory"),
			Redis: redis,
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "pages.db"),
			},
		},
		Cache: CacheConfig{
			Type:  getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: redis,
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
				CleanupInterval:   getEnvAsIntOrDefault("MEMORY_CACHE_CLEANUP", 600),
			},
		},
		Render: RenderConfig{
			Lang:       getEnvOrDefault("RENDER_LANG", "en"),
			StaticTTL:  getEnvAsIntOrDefault("RENDER_STATIC_TTL", 3600),
			TextLength: getEnvAsIntOrDefault("RENDER_TEXT_LENGTH", 160),
		},
		Hub: HubConfig{
			Path:         getEnvOrDefault("HUB_PATH", "/hub"),
			PingInterval: getEnvAsIntOrDefault("HUB_PING_INTERVAL", 30),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: parse.FloatOrDefault(os.Getenv("RATE_LIMIT_RPS"), 10),
			Burst:             getEnvAsIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
			File:  getEnvOrDefault("LOG_FILE", ""),
		},
		Prerender: PrerenderConfig{
			Workers:   getEnvAsIntOrDefault("PRERENDER_WORKERS", 4),
			QueueSize: getEnvAsIntOrDefault("PRERENDER_QUEUE_SIZE", 100),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	return parse.IntOrDefault(os.Getenv(key), defaultValue)
}

// getEnvAsList splits a comma separated environment variable
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Store.Type {
	case "memory":
	case "redis":
		if c.Store.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis store")
		}
	case "sqlite":
		if c.Store.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite store")
		}
	default:
		return errors.New("store type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
		return errors.New("cache type must be 'redis' or 'memory'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if !strings.HasPrefix(c.Hub.Path, "/") {
		return errors.New("hub path must start with '/'")
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1 {
		return errors.New("rate limit must allow at least one request")
	}

	return nil
}
