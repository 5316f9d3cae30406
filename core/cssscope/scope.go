// ABOUTME: CSS scope transformer rewriting rule selectors under a page scope anchor
// ABOUTME: Text-level rewriting only; at-rules and :root pass through untouched

package cssscope

import (
	"strings"
)

// Options tunes the transformer for one call
type Options struct {
	// NestedAtRules scopes the rules inside conditional group at-rules
	// (@media, @supports, @container, @layer) instead of copying them verbatim.
	NestedAtRules bool
}

// documentTags are leading selector tokens replaced by the scope container
var documentTags = []string{"html", "body"}

// groupingAtRules hold ordinary rules in their body
var groupingAtRules = map[string]bool{
	"media":         true,
	"supports":      true,
	"container":     true,
	"layer":         true,
	"document":      true,
	"-moz-document": true,
}

// Scope rewrites every rule selector in css to descend from #scopeID.
func Scope(css, scopeID string) string {
	return ScopeWithOptions(css, scopeID, Options{})
}

// ScopeWithOptions is Scope with explicit options.
// It never fails; text it cannot make sense of is copied through unchanged.
func ScopeWithOptions(css, scopeID string, opts Options) string {
	scopeID = strings.TrimSpace(scopeID)
	if css == "" || scopeID == "" {
		return css
	}

	s := &scoper{prefix: "#" + scopeID, opts: opts}

	var b strings.Builder
	b.Grow(len(css) + len(css)/4)
	s.rules(&b, css)
	return b.String()
}

type scoper struct {
	prefix string
	opts   Options
}

// rules walks a list of rules and at-rules, writing the rewritten text to b.
func (s *scoper) rules(b *strings.Builder, text string) {
	i := 0
	for i < len(text) {
		end, delim := scanPrelude(text, i)
		if delim == 0 {
			b.WriteString(text[i:])
			return
		}

		if delim != '{' {
			// statement at-rule, stray close brace or malformed declaration
			b.WriteString(text[i : end+1])
			i = end + 1
			continue
		}

		prelude := text[i:end]
		closeIdx := matchBlock(text, end)
		blockEnd := len(text)
		if closeIdx >= 0 {
			blockEnd = closeIdx + 1
		}

		lead, core, trail := splitTrivia(prelude)
		switch {
		case core == "":
			b.WriteString(text[i:blockEnd])
		case core[0] == '@':
			if s.opts.NestedAtRules && closeIdx >= 0 && groupingAtRules[atRuleName(core)] {
				b.WriteString(prelude)
				b.WriteByte('{')
				s.rules(b, text[end+1:closeIdx])
				b.WriteByte('}')
			} else {
				b.WriteString(text[i:blockEnd])
			}
		case core == ":root":
			b.WriteString(text[i:blockEnd])
		default:
			b.WriteString(lead)
			b.WriteString(s.selectorList(core))
			b.WriteString(trail)
			b.WriteString(text[end:blockEnd])
		}

		i = blockEnd
	}
}

// selectorList scopes each top-level comma separated selector.
func (s *scoper) selectorList(list string) string {
	parts := splitTopLevel(list)
	for i, part := range parts {
		parts[i] = s.selector(strings.TrimSpace(part))
	}
	return strings.Join(parts, ", ")
}

func (s *scoper) selector(sel string) string {
	if sel == "" || sel == ":root" || s.anchored(sel) {
		return sel
	}

	rest, attached := stripDocumentTags(sel)
	if attached {
		// body.dark, html:hover... qualify the container itself
		return s.prefix + rest
	}
	return s.prefix + " " + rest
}

// anchored reports whether sel already starts at the scope anchor.
func (s *scoper) anchored(sel string) bool {
	if !strings.HasPrefix(sel, s.prefix) {
		return false
	}
	return len(sel) == len(s.prefix) || !isIdentChar(sel[len(s.prefix)])
}

// stripDocumentTags removes leading html/body type selectors. attached is
// true when the remainder is a compound continuing the stripped tag.
func stripDocumentTags(sel string) (rest string, attached bool) {
	for {
		tag := leadingDocumentTag(sel)
		if tag == "" {
			return sel, false
		}
		sel = sel[len(tag):]
		if sel != "" && isCompoundStart(sel[0]) {
			return sel, true
		}
		sel = strings.TrimLeft(sel, " \t\r\n\f")
	}
}

func leadingDocumentTag(sel string) string {
	for _, tag := range documentTags {
		if len(sel) < len(tag) || !strings.EqualFold(sel[:len(tag)], tag) {
			continue
		}
		if len(sel) > len(tag) && isIdentChar(sel[len(tag)]) {
			continue
		}
		return sel[:len(tag)]
	}
	return ""
}

// scanPrelude finds the first top-level '{', ';' or '}' at or after i.
// It returns len(text), 0 when there is none.
func scanPrelude(text string, i int) (int, byte) {
	depth := 0
	for j := i; j < len(text); j++ {
		switch c := text[j]; c {
		case '/':
			if j+1 < len(text) && text[j+1] == '*' {
				j = skipComment(text, j) - 1
			}
		case '"', '\'':
			j = skipString(text, j) - 1
		case '\\':
			j++
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '{', ';', '}':
			if depth == 0 {
				return j, c
			}
		}
	}
	return len(text), 0
}

// matchBlock returns the index of the '}' closing the '{' at open, or -1.
func matchBlock(text string, open int) int {
	depth := 0
	for j := open; j < len(text); j++ {
		switch text[j] {
		case '/':
			if j+1 < len(text) && text[j+1] == '*' {
				j = skipComment(text, j) - 1
			}
		case '"', '\'':
			j = skipString(text, j) - 1
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitTopLevel splits a selector list on commas outside (), [] and strings.
func splitTopLevel(list string) []string {
	var parts []string
	depth, start := 0, 0
	for j := 0; j < len(list); j++ {
		switch list[j] {
		case '/':
			if j+1 < len(list) && list[j+1] == '*' {
				j = skipComment(list, j) - 1
			}
		case '"', '\'':
			j = skipString(list, j) - 1
		case '\\':
			j++
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:j])
				start = j + 1
			}
		}
	}
	return append(parts, list[start:])
}

// splitTrivia separates leading whitespace/comments and trailing whitespace
// from the selector text of a prelude.
func splitTrivia(prelude string) (lead, core, trail string) {
	j := 0
	for j < len(prelude) {
		if isSpace(prelude[j]) {
			j++
			continue
		}
		if !strings.HasPrefix(prelude[j:], "/*") {
			break
		}
		j = skipComment(prelude, j)
	}

	rest := prelude[j:]
	core = strings.TrimRight(rest, " \t\r\n\f")
	return prelude[:j], core, rest[len(core):]
}

// skipComment returns the index just past the comment starting at j.
func skipComment(text string, j int) int {
	end := strings.Index(text[j+2:], "*/")
	if end < 0 {
		return len(text)
	}
	return j + 2 + end + 2
}

// skipString returns the index just past the quoted string starting at j.
func skipString(text string, j int) int {
	quote := text[j]
	for k := j + 1; k < len(text); k++ {
		switch text[k] {
		case '\\':
			k++
		case quote, '\n':
			return k + 1
		}
	}
	return len(text)
}

func atRuleName(core string) string {
	end := 1
	for end < len(core) && isIdentChar(core[end]) {
		end++
	}
	return strings.ToLower(core[1:end])
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isCompoundStart(c byte) bool {
	return c == '.' || c == '#' || c == '[' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
