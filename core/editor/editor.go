// ABOUTME: Live editing state for one page: document, scoped surface styles and generation status
// ABOUTME: Implements the livesync editor contract and persists through the page store

package editor

import (
	"context"
	"encoding/json"
	"sync"

	"pagesmith-api/core/content"
	"pagesmith-api/core/domain"
	"pagesmith-api/core/errors"
	"pagesmith-api/core/interfaces"
)

// Editor holds the live content of a page being edited
type Editor struct {
	pageID string
	store  interfaces.PageStore
	logger interfaces.Logger

	mu      sync.RWMutex
	content domain.PageContent
	scoped  string
	status  domain.GenerationSession
	dirty   bool

	// revision counts content mutations
	revision uint64
}

// New creates an editor for pageID seeded with initial content
func New(pageID string, initial domain.PageContent, store interfaces.PageStore, logger interfaces.Logger) *Editor {
	return &Editor{
		pageID:  pageID,
		store:   store,
		logger:  logger,
		content: initial,
	}
}

// ReplaceDocument swaps the live document for doc
func (e *Editor) ReplaceDocument(doc domain.Document) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.content = domain.NewDocumentContent(doc)
	e.dirty = true
	e.revision++
}

// LoadLegacy replaces the live content with a structured component tree
func (e *Editor) LoadLegacy(tree json.RawMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.content = domain.NewLegacyContent(tree)
	e.dirty = true
	e.revision++
}

// ApplyScopedStyles sets the CSS applied to the render surface
func (e *Editor) ApplyScopedStyles(css string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.scoped = css
}

// SetStatus updates the generation status shown to the user
func (e *Editor) SetStatus(status domain.GenerationSession) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status = status
}

// SetMarkup is a local edit of the document markup
func (e *Editor) SetMarkup(markup string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.content.Document
	doc.Markup = markup
	e.content = domain.NewDocumentContent(doc)
	e.dirty = true
	e.revision++
}

// SetStylesheet is a local edit of the author stylesheet
func (e *Editor) SetStylesheet(css string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.content.Document
	doc.Stylesheet = css
	e.content = domain.NewDocumentContent(doc)
	e.dirty = true
	e.revision++
}

// Content returns the live page content
func (e *Editor) Content() domain.PageContent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.content
}

// ScopedStyles returns the CSS currently applied to the render surface
func (e *Editor) ScopedStyles() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scoped
}

// Status returns the generation status shown to the user
func (e *Editor) Status() domain.GenerationSession {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Revision changes every time the content is mutated
func (e *Editor) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// Dirty reports whether there are unsaved changes
func (e *Editor) Dirty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dirty
}

// Save writes the live content to the store. A failure is returned as a
// *errors.SaveError and leaves the editor dirty; it is never retried here.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.RLock()
	snapshot := e.content
	revision := e.revision
	e.mu.RUnlock()

	data, err := content.Serialize(snapshot)
	if err != nil {
		return &errors.SaveError{PageID: e.pageID, Err: err}
	}

	if err := e.store.Store(ctx, e.pageID, data); err != nil {
		if e.logger != nil {
			e.logger.Error("Failed to save page", map[string]interface{}{
				"page_id": e.pageID,
				"error":   err.Error(),
			})
		}
		return &errors.SaveError{PageID: e.pageID, Err: err}
	}

	e.mu.Lock()
	// edits made while the store call was in flight stay unsaved
	if e.revision == revision {
		e.dirty = false
	}
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("Page saved", map[string]interface{}{
			"page_id": e.pageID,
			"bytes":   len(data),
		})
	}
	return nil
}
