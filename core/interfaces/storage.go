// ABOUTME: Storage interfaces for persisting page content
// ABOUTME: The store only loads and stores opaque content by page identifier

package interfaces

import (
	"context"
)

// PageStore persists page content by page identifier.
// Content is the serialized PageContent; the store never interprets it.
type PageStore interface {
	// Load returns the stored content for pageID or a *errors.NotFoundError
	Load(ctx context.Context, pageID string) ([]byte, error)

	// Store replaces the content for pageID
	Store(ctx context.Context, pageID string, content []byte) error
}
