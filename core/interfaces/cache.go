// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for cache operations.
// Implementations can be Redis, in-memory, or any other caching solution.
// Only derived data (renderings, metadata) lives here; page content goes
// through PageStore.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//	
//	// Store a rendering
//	err := cache.Set(ctx, "static:home", doc, 1*time.Hour)
//
//	// Retrieve it
//	data, err := cache.Get(ctx, "static:home")
//	if err != nil {
//		// handle error or cache miss
//	}
//
//	// Invalidate after the page changes
//	err = cache.Delete(ctx, "static:home")
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}