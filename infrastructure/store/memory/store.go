// ABOUTME: In-memory page store backed by patrickmn/go-cache
// ABOUTME: Used for development and tests; content is lost on restart

package memory

import (
	"context"

	coreerrors "pagesmith-api/core/errors"

	gocache "github.com/patrickmn/go-cache"
)

// Store implements the PageStore interface in memory
type Store struct {
	pages *gocache.Cache
}

// NewStore creates an empty store; pages never expire
func NewStore() *Store {
	return &Store{pages: gocache.New(gocache.NoExpiration, 0)}
}

// Load returns a copy of the stored content
func (s *Store) Load(ctx context.Context, pageID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, ok := s.pages.Get(pageID)
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "page", ID: pageID}
	}
	stored := v.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

// Store saves a copy of content under pageID
func (s *Store) Store(ctx context.Context, pageID string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(content))
	copy(data, content)
	s.pages.Set(pageID, data, gocache.NoExpiration)
	return nil
}

// Count returns the number of stored pages
func (s *Store) Count() int {
	return s.pages.ItemCount()
}
