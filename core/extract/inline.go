// ABOUTME: Inline-style extraction pass lifting style attributes into id-addressed rules
// ABOUTME: Walks the parsed markup tree pre-order and rewrites elements in place

package extract

import (
	"fmt"
	"strings"

	"pagesmith-api/core/domain"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GeneratedIDPrefix prefixes identifiers assigned to elements without one
const GeneratedIDPrefix = "gen-el-"

// Result is the outcome of one extraction pass
type Result struct {
	// Markup is the rewritten markup without inline style attributes
	Markup string

	// Stylesheet is the generated rules joined in discovery order
	Stylesheet string

	// Rules are the generated rules in discovery order
	Rules []domain.StyleRule
}

// Extract lifts every inline style attribute in markup into a "#id { ... }"
// rule. Markup without inline styles, or markup that cannot be parsed, is
// returned as is with an empty stylesheet.
func Extract(markup string) Result {
	unchanged := Result{Markup: markup}
	if !strings.Contains(strings.ToLower(markup), "style") {
		return unchanged
	}

	nodes, err := parse(markup)
	if err != nil {
		return unchanged
	}

	ids := newIDAllocator(nodes)
	var rules []domain.StyleRule
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			style, idx := attr(el, "style")
			if idx < 0 {
				return
			}
			// the attribute goes even when blank so no empty style survives
			removeAttr(el, idx)
			if strings.TrimSpace(style) == "" {
				return
			}

			id, _ := attr(el, "id")
			if strings.TrimSpace(id) == "" {
				id = ids.next()
				setAttr(el, "id", id)
			}
			rules = append(rules, domain.StyleRule{
				Selector:     "#" + cssEscape(id),
				Declarations: strings.TrimSpace(style),
			})
		})
	}

	if len(rules) == 0 && !ids.touched {
		return unchanged
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return unchanged
		}
	}

	return Result{
		Markup:     b.String(),
		Stylesheet: domain.JoinRules(rules),
		Rules:      rules,
	}
}

// Merge appends extracted rules after the author stylesheet so that the
// element-targeted rules win ties against generic author rules.
func Merge(authorCSS, extracted string) string {
	switch {
	case strings.TrimSpace(extracted) == "":
		return authorCSS
	case strings.TrimSpace(authorCSS) == "":
		return extracted
	default:
		return strings.TrimRight(authorCSS, " \t\r\n") + "\n" + extracted
	}
}

// parse reads whole documents with html.Parse so the shell survives, and
// everything else as a fragment in a template context, whose insertion mode
// keeps table parts such as tr, td and col.
func parse(markup string) ([]*html.Node, error) {
	if isDocument(markup) {
		doc, err := html.Parse(strings.NewReader(markup))
		if err != nil {
			return nil, err
		}
		return []*html.Node{doc}, nil
	}
	return html.ParseFragment(strings.NewReader(markup), templateContext())
}

func templateContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}
}

var documentPrefixes = []string{"<!doctype", "<html", "<head", "<body"}

// isDocument reports whether markup opens with a doctype or a document-level tag
func isDocument(markup string) bool {
	s := strings.ToLower(strings.TrimLeft(markup, " \t\r\n\f\ufeff"))
	for _, prefix := range documentPrefixes {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		rest := s[len(prefix):]
		if rest == "" {
			return true
		}
		switch rest[0] {
		case ' ', '\t', '\r', '\n', '\f', '>', '/':
			return true
		}
	}
	return false
}

// walk visits element nodes depth-first, parents before children, children
// before later siblings.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) (string, int) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, i
		}
	}
	return "", -1
}

func removeAttr(n *html.Node, idx int) {
	n.Attr = append(n.Attr[:idx], n.Attr[idx+1:]...)
}

func setAttr(n *html.Node, key, val string) {
	if _, idx := attr(n, key); idx >= 0 {
		n.Attr[idx].Val = val
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// idAllocator hands out gen-el-N identifiers that do not collide with ids
// already present in the document.
type idAllocator struct {
	taken   map[string]bool
	counter int
	touched bool
}

func newIDAllocator(nodes []*html.Node) *idAllocator {
	a := &idAllocator{taken: make(map[string]bool)}
	for _, n := range nodes {
		walk(n, func(el *html.Node) {
			if id, idx := attr(el, "id"); idx >= 0 {
				a.taken[id] = true
			}
			if _, idx := attr(el, "style"); idx >= 0 {
				a.touched = true
			}
		})
	}
	return a
}

func (a *idAllocator) next() string {
	for {
		id := fmt.Sprintf("%s%d", GeneratedIDPrefix, a.counter)
		a.counter++
		if !a.taken[id] {
			a.taken[id] = true
			return id
		}
	}
}

// cssEscape escapes an identifier for use in an id selector.
func cssEscape(id string) string {
	var b strings.Builder
	for i, r := range id {
		switch {
		case r >= '0' && r <= '9':
			if i == 0 || (i == 1 && id[0] == '-') {
				fmt.Fprintf(&b, "\\%x ", r)
			} else {
				b.WriteRune(r)
			}
		case r == '-' || r == '_' || r >= 0x80 ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
