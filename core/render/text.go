package render

import (
	"pagesmith-api/core/domain"
	htmlutil "pagesmith-api/pkg/utils/html"
)

// ExtractTextContent returns the visible text of a page, whitespace collapsed
// and cut to maxLength characters with an ellipsis. Legacy and empty content
// have no text.
func ExtractTextContent(c domain.PageContent, maxLength int) string {
	if c.Kind != domain.KindDocument {
		return ""
	}
	return htmlutil.Truncate(htmlutil.StripHTML(c.Document.Markup), maxLength)
}
