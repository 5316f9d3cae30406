package render

import (
	"strings"

	"pagesmith-api/core/domain"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// ToMarkdown converts the page markup to Markdown for export. Content that
// cannot be converted yields "".
func ToMarkdown(c domain.PageContent) string {
	if c.Kind != domain.KindDocument || strings.TrimSpace(c.Document.Markup) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.Document.Markup))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, template").Remove()

	converter := md.NewConverter("", true, nil)
	markdown := converter.Convert(doc.Find("body"))
	return strings.TrimSpace(markdown)
}
