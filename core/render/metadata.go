package render

import (
	"net/url"
	"strings"

	"pagesmith-api/core/domain"
	htmlutil "pagesmith-api/pkg/utils/html"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// DescriptionLength is the default summary length used for metadata
const DescriptionLength = 160

// fallbackBaseURL resolves relative image URLs when no page URL is known
const fallbackBaseURL = "http://localhost/"

// ExtractMetadata derives SEO metadata from the page markup. Explicit tags in
// the markup win; readability fills whatever is still missing.
func ExtractMetadata(c domain.PageContent, pageURL string) domain.PageMetadata {
	var meta domain.PageMetadata
	if c.Kind != domain.KindDocument || strings.TrimSpace(c.Document.Markup) == "" {
		return meta
	}

	markup := c.Document.Markup
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return meta
	}

	meta.Title = firstText(doc, "title", "h1", "h2")
	meta.Description = strings.TrimSpace(attrOf(doc, `meta[name="description"]`, "content"))
	if meta.Description == "" {
		meta.Description = ExtractTextContent(c, DescriptionLength)
	}
	meta.Image = strings.TrimSpace(attrOf(doc, `meta[property="og:image"]`, "content"))
	if meta.Image == "" {
		meta.Image = strings.TrimSpace(attrOf(doc, "img[src]", "src"))
	}
	meta.Language = strings.TrimSpace(attrOf(doc, "[lang]", "lang"))

	if meta.Title == "" || meta.Image == "" {
		fillFromReadability(&meta, markup, pageURL)
	}
	return meta
}

func fillFromReadability(meta *domain.PageMetadata, markup, pageURL string) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		base, _ = url.Parse(fallbackBaseURL)
	}

	article, err := readability.FromReader(strings.NewReader(markup), base)
	if err != nil {
		return
	}

	if meta.Title == "" {
		meta.Title = htmlutil.CollapseWhitespace(article.Title)
	}
	if meta.Image == "" {
		meta.Image = article.Image
	}
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := htmlutil.CollapseWhitespace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func attrOf(doc *goquery.Document, selector, name string) string {
	val, _ := doc.Find(selector).First().Attr(name)
	return val
}
