package cssscope

import (
	"strings"
	"testing"
)

func TestScope(t *testing.T) {
	tests := []struct {
		name string
		css  string
		want string
	}{
		{
			name: "body stripped and media untouched",
			css:  "body { color: red; } .card { padding: 4px; } @media (max-width:600px){ .card{padding:2px} }",
			want: "#scope-1  { color: red; } #scope-1 .card { padding: 4px; } @media (max-width:600px){ .card{padding:2px} }",
		},
		{
			name: "simple class",
			css:  ".a{color:red}",
			want: "#scope-1 .a{color:red}",
		},
		{
			name: "selector list",
			css:  "h1,h2 , .title{margin:0}",
			want: "#scope-1 h1, #scope-1 h2, #scope-1 .title{margin:0}",
		},
		{
			name: "functional notation commas do not split",
			css:  ":is(a, b) > span{color:blue}",
			want: "#scope-1 :is(a, b) > span{color:blue}",
		},
		{
			name: "attribute selector with comma",
			css:  `a[title="x,y"], p{}`,
			want: `#scope-1 a[title="x,y"], #scope-1 p{}`,
		},
		{
			name: "root left alone",
			css:  ":root { --brand: #f00; } p { color: var(--brand); }",
			want: ":root { --brand: #f00; } #scope-1 p { color: var(--brand); }",
		},
		{
			name: "html body descendant",
			css:  "html body .x{}",
			want: "#scope-1 .x{}",
		},
		{
			name: "body child combinator",
			css:  "body > main{}",
			want: "#scope-1 > main{}",
		},
		{
			name: "body compound qualifies container",
			css:  "body.dark .x{}",
			want: "#scope-1.dark .x{}",
		},
		{
			name: "tag prefix that is not body",
			css:  ".body, bodyguard{}",
			want: "#scope-1 .body, #scope-1 bodyguard{}",
		},
		{
			name: "already scoped",
			css:  "#scope-1 .a{} #scope-10 .b{}",
			want: "#scope-1 .a{} #scope-1 #scope-10 .b{}",
		},
		{
			name: "font face and keyframes",
			css:  "@font-face{font-family:X;src:url(x.woff)} @keyframes spin{from{transform:rotate(0)}to{transform:rotate(360deg)}}",
			want: "@font-face{font-family:X;src:url(x.woff)} @keyframes spin{from{transform:rotate(0)}to{transform:rotate(360deg)}}",
		},
		{
			name: "statement at-rule",
			css:  "@import url(\"a.css\");\n.a{}",
			want: "@import url(\"a.css\");\n#scope-1 .a{}",
		},
		{
			name: "braces inside strings and comments",
			css:  "/* .x { } */ .a::after{content:\"}\"} .b{}",
			want: "/* .x { } */ #scope-1 .a::after{content:\"}\"} #scope-1 .b{}",
		},
		{
			name: "unterminated block",
			css:  ".a{color:red",
			want: "#scope-1 .a{color:red",
		},
		{
			name: "trailing text without block",
			css:  ".a{} .b",
			want: "#scope-1 .a{} .b",
		},
		{
			name: "stray closing brace",
			css:  "} .a{}",
			want: "} #scope-1 .a{}",
		},
		{
			name: "empty",
			css:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scope(tt.css, "scope-1")
			if got != tt.want {
				t.Errorf("Scope()\n got  %q\n want %q", got, tt.want)
			}
		})
	}
}

func TestScope_EmptyScopeID(t *testing.T) {
	css := ".a{color:red}"
	if got := Scope(css, ""); got != css {
		t.Errorf("Scope with empty id = %q, want input unchanged", got)
	}
}

func TestScopeWithOptions_NestedAtRules(t *testing.T) {
	css := "@media (max-width:600px){ .card{padding:2px} body{margin:0} } @keyframes k{from{opacity:0}}"
	want := "@media (max-width:600px){ #scope-1 .card{padding:2px} #scope-1 {margin:0} } @keyframes k{from{opacity:0}}"

	got := ScopeWithOptions(css, "scope-1", Options{NestedAtRules: true})
	if got != want {
		t.Errorf("ScopeWithOptions()\n got  %q\n want %q", got, want)
	}
}

func TestScope_AtRuleAndRootBlocksByteIdentical(t *testing.T) {
	blocks := []string{
		"@media print { .a { display:none } }",
		"@supports (display:grid) { .g { display:grid } }",
		":root { --x: 1px; }",
		"@font-face { font-family: \"A\"; }",
	}

	for _, block := range blocks {
		css := ".before{} " + block + " .after{}"
		got := Scope(css, "p")
		if !strings.Contains(got, block) {
			t.Errorf("block %q was modified: %q", block, got)
		}
		if !strings.HasPrefix(got, "#p .before{}") || !strings.HasSuffix(got, "#p .after{}") {
			t.Errorf("surrounding rules not scoped: %q", got)
		}
	}
}

func TestScope_MalformedInputDoesNotPanic(t *testing.T) {
	inputs := []string{
		"{{{{",
		"}}}}",
		"/* unterminated",
		"\"unterminated",
		"a{b{c{",
		"@media {",
		"\\",
		",,,{}",
	}

	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Scope(%q) panicked: %v", in, r)
				}
			}()
			_ = Scope(in, "s")
		}()
	}
}
