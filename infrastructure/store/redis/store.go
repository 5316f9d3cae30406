// ABOUTME: Redis page store using RedisJSON through go-rejson
// ABOUTME: Pages are kept as JSON documents so they can be inspected and patched in place

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	coreerrors "pagesmith-api/core/errors"

	"github.com/nitishm/go-rejson/v4"
	"github.com/redis/go-redis/v9"
)

// Store implements the PageStore interface on RedisJSON
type Store struct {
	client  *redis.Client
	handler *rejson.Handler
	prefix  string
}

// NewStore wraps a connected client. prefix namespaces page keys.
func NewStore(client *redis.Client, prefix string) *Store {
	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClient(client)

	return &Store{client: client, handler: handler, prefix: prefix}
}

func (s *Store) key(pageID string) string {
	if s.prefix == "" {
		return "page:" + pageID
	}
	return s.prefix + ":page:" + pageID
}

// Load returns the stored content of a page
func (s *Store) Load(ctx context.Context, pageID string) ([]byte, error) {
	val, err := s.handler.JSONGet(s.key(pageID), ".")
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
		}
		return nil, fmt.Errorf("failed to load page: %w", err)
	}

	switch v := val.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	default:
		return nil, fmt.Errorf("unexpected RedisJSON reply %T", val)
	}
}

// Store replaces the content of a page. Content that is not JSON (literal
// markup) is stored as a JSON string so it round-trips unchanged.
func (s *Store) Store(ctx context.Context, pageID string, content []byte) error {
	var doc interface{} = json.RawMessage(content)
	if !json.Valid(content) {
		doc = string(content)
	}

	if _, err := s.handler.JSONSet(s.key(pageID), ".", doc); err != nil {
		return fmt.Errorf("failed to store page: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
