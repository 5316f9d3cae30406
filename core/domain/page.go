// ABOUTME: Page content domain model covering the legacy tree form and the document form
// ABOUTME: Defines the scope identifier and style rule types shared by the pipeline

package domain

import (
	"encoding/json"
	"strings"
)

// ContentKind tags which form a PageContent value is in
type ContentKind int

const (
	// KindEmpty is content with nothing renderable
	KindEmpty ContentKind = iota

	// KindDocument is the markup + stylesheet form
	KindDocument

	// KindLegacy is the structured component tree owned by the legacy renderer
	KindLegacy
)

// String returns a readable name for the kind
func (k ContentKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindLegacy:
		return "legacy"
	default:
		return "empty"
	}
}

// DefaultScopeID is used when no page identifier is available
const DefaultScopeID = "scope-default"

// PageContent is the persisted unit of a page. The form is decided once when
// the raw value is resolved and carried explicitly from then on.
type PageContent struct {
	// Kind is the resolved form
	Kind ContentKind

	// Document is set when Kind is KindDocument
	Document Document

	// Legacy holds the opaque component tree when Kind is KindLegacy
	Legacy json.RawMessage
}

// Document is the markup + stylesheet page representation
type Document struct {
	// Markup is the page HTML
	Markup string

	// Stylesheet is the unscoped author CSS
	Stylesheet string

	// Aux carries auxiliary editor state verbatim (components, styles, assets...)
	Aux map[string]json.RawMessage
}

// NewDocumentContent wraps a document into page content
func NewDocumentContent(doc Document) PageContent {
	return PageContent{Kind: KindDocument, Document: doc}
}

// NewLegacyContent wraps a legacy component tree into page content
func NewLegacyContent(tree json.RawMessage) PageContent {
	return PageContent{Kind: KindLegacy, Legacy: tree}
}

// IsLegacy reports whether the content must be handed to the legacy renderer
func (c PageContent) IsLegacy() bool {
	return c.Kind == KindLegacy
}

// IsEmpty reports whether there is nothing to render
func (c PageContent) IsEmpty() bool {
	switch c.Kind {
	case KindDocument:
		return strings.TrimSpace(c.Document.Markup) == "" && strings.TrimSpace(c.Document.Stylesheet) == ""
	case KindLegacy:
		return len(c.Legacy) == 0
	default:
		return true
	}
}

// ScopeID derives the scope identifier for a page
func ScopeID(pageID string) string {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return DefaultScopeID
	}
	return "scope-" + pageID
}

// StyleRule is a single selector + declaration block pair
type StyleRule struct {
	Selector     string
	Declarations string
}

// String renders the rule as stylesheet text
func (r StyleRule) String() string {
	return r.Selector + " { " + strings.TrimSpace(r.Declarations) + " }"
}

// JoinRules concatenates rules in insertion order, one per line
func JoinRules(rules []StyleRule) string {
	if len(rules) == 0 {
		return ""
	}
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, "\n")
}
