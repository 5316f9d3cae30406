// ABOUTME: HTML utilities for stripping markup down to readable text
// ABOUTME: Provides common text helpers used for summaries and metadata

package html

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Ellipsis marks text that was cut short
const Ellipsis = "..."

// nonTextSelector matches elements whose content is never visible text
const nonTextSelector = "script, style, noscript, template"

// blockSelector matches elements that break the text flow
const blockSelector = "address, article, aside, blockquote, dd, div, dl, dt, figcaption, figure, " +
	"footer, form, h1, h2, h3, h4, h5, h6, header, li, main, nav, ol, p, pre, section, table, td, th, tr, ul"

// StripHTML removes tags and embedded script/style blocks and collapses
// whitespace. Text that cannot be parsed is returned whitespace-collapsed.
func StripHTML(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return CollapseWhitespace(markup)
	}

	doc.Find(nonTextSelector).Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find(blockSelector).PrependHtml(" ").AppendHtml(" ")
	return CollapseWhitespace(doc.Find("body").Text())
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts text to at most maxLength characters and appends the
// ellipsis when anything was removed. maxLength <= 0 disables truncation.
func Truncate(text string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	runes := []rune(text)
	cut := strings.TrimRight(string(runes[:maxLength]), " ")
	return cut + Ellipsis
}
