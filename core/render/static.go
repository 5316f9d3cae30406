package render

import (
	"html"
	"strings"

	"pagesmith-api/core/domain"
)

// StaticOptions controls ToStaticDocument
type StaticOptions struct {
	// Scoped wraps the body in the scope element and scopes the stylesheet
	Scoped bool

	// ScopeID is used when Scoped is set; defaults to domain.DefaultScopeID
	ScopeID string

	// Lang is the document language, "en" when empty
	Lang string

	// Metadata fills <title> and the description meta tag. Zero values are
	// derived from the content.
	Metadata domain.PageMetadata

	// NestedAtRules is passed through to the scope transformer
	NestedAtRules bool
}

// ToStaticDocument produces a complete, self-contained HTML document.
// Legacy content produces no output.
func ToStaticDocument(c domain.PageContent, opts StaticOptions) string {
	if c.IsLegacy() {
		return ""
	}

	var markup, stylesheet string
	if c.Kind == domain.KindDocument {
		markup = c.Document.Markup
		stylesheet = c.Document.Stylesheet
	}

	meta := opts.Metadata
	if meta.Title == "" || meta.Description == "" {
		derived := ExtractMetadata(c, "")
		if meta.Title == "" {
			meta.Title = derived.Title
		}
		if meta.Description == "" {
			meta.Description = derived.Description
		}
	}

	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="` + html.EscapeString(lang) + `">` + "\n")
	b.WriteString("<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	b.WriteString("<title>" + html.EscapeString(meta.Title) + "</title>\n")
	if meta.Description != "" {
		b.WriteString(`<meta name="description" content="` + html.EscapeString(meta.Description) + `">` + "\n")
	}
	if meta.Image != "" {
		b.WriteString(`<meta property="og:image" content="` + html.EscapeString(meta.Image) + `">` + "\n")
	}

	if opts.Scoped {
		scopeID := opts.ScopeID
		if scopeID == "" {
			scopeID = domain.DefaultScopeID
		}
		css := ScopedStylesheet(stylesheet, scopeID, Options{IncludeDefaults: true, NestedAtRules: opts.NestedAtRules})
		b.WriteString(styleElement(css) + "\n")
		b.WriteString("</head>\n<body>\n")
		b.WriteString(`<div id="` + html.EscapeString(scopeID) + `">` + markup + "</div>\n")
	} else {
		b.WriteString(styleElement(BaselineCSS) + "\n")
		if strings.TrimSpace(stylesheet) != "" {
			b.WriteString(styleElement(stylesheet) + "\n")
		}
		b.WriteString("</head>\n<body>\n")
		b.WriteString(markup + "\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}
