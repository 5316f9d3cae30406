// ABOUTME: Renderer producing SSR fragments and static documents from resolved page content
// ABOUTME: Applies the CSS scope transformer so page styles never leak into the host page

package render

import (
	"html"
	"strings"

	"pagesmith-api/core/content"
	"pagesmith-api/core/cssscope"
	"pagesmith-api/core/domain"
)

// BaselineCSS is the small set of typographic defaults prepended on request.
// It is written against body so the scope transformer maps it onto the
// scope container.
const BaselineCSS = `body { margin: 0; font-family: system-ui, -apple-system, "Segoe UI", Roboto, sans-serif; line-height: 1.5; color: #1f2328; }
img, video { max-width: 100%; height: auto; }
h1, h2, h3, h4, h5, h6 { line-height: 1.2; margin: 0 0 0.5em; }
p { margin: 0 0 1em; }
a { color: inherit; }`

// Options controls a single render call
type Options struct {
	// IncludeDefaults prepends BaselineCSS to the page stylesheet
	IncludeDefaults bool

	// NestedAtRules scopes rules inside @media and similar blocks too
	NestedAtRules bool
}

// Output is an SSR-embeddable rendering of a page
type Output struct {
	// ScopeID is the id carried by the wrapping element
	ScopeID string `json:"scope_id"`

	// Markup is the page markup wrapped in the scope element
	Markup string `json:"markup"`

	// StyleBlock is a <style> element with the scoped stylesheet, or ""
	StyleBlock string `json:"style_block"`

	// Legacy is set when the content belongs to the legacy renderer
	Legacy bool `json:"legacy"`

	// Empty is set when there is nothing to output
	Empty bool `json:"empty"`
}

// HTML returns the style block followed by the wrapped markup
func (o Output) HTML() string {
	return o.StyleBlock + o.Markup
}

// Render renders resolved content under scopeID. Legacy content yields an
// Output with Legacy set and nothing else; the caller dispatches it.
func Render(c domain.PageContent, scopeID string, opts Options) Output {
	out := Output{ScopeID: scopeID}

	switch {
	case c.IsLegacy():
		out.Legacy = true
		out.Empty = true
		return out
	case c.Kind != domain.KindDocument || c.IsEmpty():
		out.Empty = true
		return out
	}

	css := ScopedStylesheet(c.Document.Stylesheet, scopeID, opts)
	if css != "" {
		out.StyleBlock = styleElement(css)
	}
	out.Markup = `<div id="` + html.EscapeString(scopeID) + `">` + c.Document.Markup + `</div>`
	return out
}

// RenderRaw resolves raw persisted content and renders it
func RenderRaw(raw []byte, scopeID string, opts Options) Output {
	return Render(content.Resolve(raw), scopeID, opts)
}

// ScopedStylesheet returns the page stylesheet, with defaults when asked,
// scoped under scopeID.
func ScopedStylesheet(stylesheet, scopeID string, opts Options) string {
	css := stylesheet
	if opts.IncludeDefaults {
		css = joinCSS(BaselineCSS, css)
	}
	if strings.TrimSpace(css) == "" {
		return ""
	}
	return cssscope.ScopeWithOptions(css, scopeID, cssscope.Options{NestedAtRules: opts.NestedAtRules})
}

func joinCSS(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, "\n")
}

func styleElement(css string) string {
	return "<style>" + escapeStyleText(css) + "</style>"
}

// escapeStyleText keeps stylesheet text from closing the surrounding
// <style> element early.
func escapeStyleText(css string) string {
	const closer = "</style"
	if !strings.Contains(strings.ToLower(css), closer) {
		return css
	}

	var b strings.Builder
	b.Grow(len(css) + 8)
	for i := 0; i < len(css); i++ {
		if css[i] == '<' && i+len(closer) <= len(css) && strings.EqualFold(css[i:i+len(closer)], closer) {
			b.WriteString(`<\/`)
			i++
			continue
		}
		b.WriteByte(css[i])
	}
	return b.String()
}
