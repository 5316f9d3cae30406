// ABOUTME: Format resolver for persisted page content
// ABOUTME: Decides once between the legacy tree form and the markup + stylesheet form

package content

import (
	"bytes"
	"encoding/json"
	"strings"

	"pagesmith-api/core/domain"
)

// Canonical wire keys for the document form
const (
	KeyMarkup     = "html"
	KeyStylesheet = "css"
	KeyLegacy     = "data"
)

// Accepted aliases on input, checked after the canonical keys
var (
	markupKeys     = []string{KeyMarkup, "markup"}
	stylesheetKeys = []string{KeyStylesheet, "stylesheet"}
)

// maxUnwrap bounds how many levels of string-encoded JSON are peeled off
const maxUnwrap = 2

// Resolve decodes raw persisted content. It never fails: undecodable text is
// treated as literal markup and anything else unrecognised resolves to empty.
func Resolve(raw []byte) domain.PageContent {
	return resolveText(string(raw), maxUnwrap)
}

// ResolveValue resolves a value that is either a string or an already decoded
// JSON object (map[string]interface{} or map[string]json.RawMessage).
func ResolveValue(v interface{}) domain.PageContent {
	switch val := v.(type) {
	case nil:
		return domain.PageContent{}
	case string:
		return Resolve([]byte(val))
	case []byte:
		return Resolve(val)
	case json.RawMessage:
		return Resolve(val)
	case map[string]json.RawMessage:
		return resolveObject(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return domain.PageContent{}
		}
		return resolveJSON(data, maxUnwrap)
	}
}

func resolveText(text string, depth int) domain.PageContent {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.PageContent{}
	}

	if !json.Valid([]byte(trimmed)) {
		return literal(text)
	}

	return resolveJSON([]byte(trimmed), depth)
}

func resolveJSON(data []byte, depth int) domain.PageContent {
	switch data[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return domain.PageContent{}
		}
		return resolveObject(obj)
	case '"':
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return domain.PageContent{}
		}
		if depth <= 0 {
			return literal(inner)
		}
		return resolveText(inner, depth-1)
	default:
		// numbers, arrays, booleans and null carry no page content
		return domain.PageContent{}
	}
}

func resolveObject(obj map[string]json.RawMessage) domain.PageContent {
	if obj == nil {
		return domain.PageContent{}
	}

	if markupKey, ok := firstKey(obj, markupKeys); ok {
		doc := domain.Document{
			Markup: decodeString(obj[markupKey]),
		}
		consumed := map[string]bool{markupKey: true}
		if cssKey, ok := firstKey(obj, stylesheetKeys); ok {
			doc.Stylesheet = decodeString(obj[cssKey])
			consumed[cssKey] = true
		}
		for k, v := range obj {
			if consumed[k] {
				continue
			}
			if doc.Aux == nil {
				doc.Aux = make(map[string]json.RawMessage)
			}
			doc.Aux[k] = v
		}
		return domain.NewDocumentContent(doc)
	}

	if tree, ok := obj[KeyLegacy]; ok {
		return domain.NewLegacyContent(tree)
	}

	return domain.PageContent{}
}

func literal(text string) domain.PageContent {
	return domain.NewDocumentContent(domain.Document{Markup: text})
}

func firstKey(obj map[string]json.RawMessage, keys []string) (string, bool) {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return k, true
		}
	}
	return "", false
}

// decodeString reads a string field; null or non-string values become "".
func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Serialize writes content in its canonical persisted form. Empty content is
// written as an empty document so it can be resolved again.
func Serialize(c domain.PageContent) ([]byte, error) {
	switch c.Kind {
	case domain.KindLegacy:
		tree := c.Legacy
		if len(bytes.TrimSpace(tree)) == 0 {
			tree = json.RawMessage("null")
		}
		return json.Marshal(map[string]json.RawMessage{KeyLegacy: tree})
	default:
		out := make(map[string]interface{}, len(c.Document.Aux)+2)
		for k, v := range c.Document.Aux {
			out[k] = v
		}
		out[KeyMarkup] = c.Document.Markup
		out[KeyStylesheet] = c.Document.Stylesheet
		return json.Marshal(out)
	}
}
