// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for services used throughout the application

package interfaces

import (
	"context"

	"pagesmith-api/core/domain"
	"pagesmith-api/core/render"
)

// PageService exposes page content and its renderings
type PageService interface {
	Load(ctx context.Context, pageID string) (domain.PageContent, error)
	Store(ctx context.Context, pageID string, content domain.PageContent) error
	Render(ctx context.Context, pageID string, opts render.Options) (render.Output, error)
	Static(ctx context.Context, pageID string) (string, error)
	Text(ctx context.Context, pageID string, maxLength int) (string, error)
	Markdown(ctx context.Context, pageID string) (string, error)
	Publish(ctx context.Context, pageID string, event domain.Event) error
}

// MetadataService extracts SEO metadata from stored pages
type MetadataService interface {
	ExtractMetadata(ctx context.Context, pageID string) (*domain.PageMetadata, error)
}

// Broadcaster fans generation events out to everyone editing a page
type Broadcaster interface {
	Broadcast(pageID string, event domain.Event) int
}

// Prerenderer warms the static rendering of a page in the background
type Prerenderer interface {
	Enqueue(ctx context.Context, pageID string) error
}
