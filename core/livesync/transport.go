package livesync

import (
	"context"
	"encoding/json"

	"pagesmith-api/core/domain"
)

// Transport is a connection to the real-time hub
type Transport interface {
	// Connect opens the connection
	Connect(ctx context.Context) error

	// Join adds the connection to a page's group
	Join(ctx context.Context, pageID string) error

	// Leave removes the connection from a page's group
	Leave(ctx context.Context, pageID string) error

	// Disconnect closes the connection. Safe to call more than once.
	Disconnect() error

	// Events delivers inbound events in transport order for the current
	// connection. The channel is closed when the connection drops.
	Events() <-chan domain.Event
}

// Editor is the live editing state a Session drives. Methods are only ever
// called from the session's dispatch goroutine.
type Editor interface {
	// ReplaceDocument swaps the live document
	ReplaceDocument(doc domain.Document)

	// LoadLegacy loads a legacy component tree through the structured path
	LoadLegacy(tree json.RawMessage)

	// ApplyScopedStyles updates the render surface with scoped CSS
	ApplyScopedStyles(css string)

	// SetStatus surfaces the generation status
	SetStatus(status domain.GenerationSession)
}
