// ABOUTME: Response DTOs for page-related API endpoints
// ABOUTME: Defines the structure of render, text and metadata responses

package responses

import (
	"pagesmith-api/core/domain"
	"pagesmith-api/core/render"
)

// RenderResponse is a page rendered for server-side embedding
type RenderResponse struct {
	PageID     string `json:"page_id"`
	ScopeID    string `json:"scope_id"`
	Markup     string `json:"markup" doc:"Markup wrapped in the scope element"`
	StyleBlock string `json:"style_block" doc:"Scoped <style> element"`
	HTML       string `json:"html" doc:"Style block followed by markup"`
	Legacy     bool   `json:"legacy" doc:"Content is a legacy component tree and was not rendered"`
	Empty      bool   `json:"empty"`
}

// NewRenderResponse maps a renderer output
func NewRenderResponse(pageID string, out render.Output) RenderResponse {
	return RenderResponse{
		PageID:     pageID,
		ScopeID:    out.ScopeID,
		Markup:     out.Markup,
		StyleBlock: out.StyleBlock,
		HTML:       out.HTML(),
		Legacy:     out.Legacy,
		Empty:      out.Empty,
	}
}

// TextResponse is the plain text of a page
type TextResponse struct {
	PageID string `json:"page_id"`
	Text   string `json:"text"`
}

// MetadataResponse is the SEO metadata of a page
type MetadataResponse struct {
	PageID      string `json:"page_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Language    string `json:"language,omitempty"`
}

// NewMetadataResponse maps extracted metadata
func NewMetadataResponse(pageID string, meta *domain.PageMetadata) MetadataResponse {
	resp := MetadataResponse{PageID: pageID}
	if meta != nil {
		resp.Title = meta.Title
		resp.Description = meta.Description
		resp.Image = meta.Image
		resp.Language = meta.Language
	}
	return resp
}

// StoreResponse acknowledges a stored page
type StoreResponse struct {
	PageID string `json:"page_id"`
	Kind   string `json:"kind" doc:"Resolved content form: empty, document or legacy"`
}

// EventAcceptedResponse acknowledges a published generation event
type EventAcceptedResponse struct {
	PageID string `json:"page_id"`
	Type   string `json:"type"`
}
