package grammar_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
	"github.com/ZabraveniGeroi/blogc/pkg/rule"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

// build parses src the way the compiler does, with a line break on each side.
func build(t *testing.T, g *grammar.Grammar, src string) (string, *grammar.Context) {
	t.Helper()

	ctx := g.NewContext()
	body := ctx.Build(g.Tokenize("\n" + src + "\n"))
	require.NotNil(t, body)
	require.Equal(t, "body", body.Name)

	return doctree.Serialize(doctree.NewConcat(body.Children...)), ctx
}

type fixedDetector string

func (d fixedDetector) Detect(string) string { return string(d) }

type aliasDetector map[string]string

func (aliasDetector) Detect(string) string { return "" }

func (d aliasDetector) Resolve(hint string) string { return d[hint] }

func TestInlineRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "italic", src: "*hi*", want: "<i>hi</i>"},
		{name: "bold", src: "**hi**", want: "<strong>hi</strong>"},
		{name: "italic inside bold", src: "***a*b**", want: "<strong><i>a</i>b</strong>"},
		{name: "bold inside italic", src: "***a**b*", want: "<i><strong>a</strong>b</i>"},
		{name: "opaque triple", src: "***a***", want: "<strong><i>a</i></strong>"},
		{name: "nested wraps", src: "**a *b* c**", want: "<strong>a <i>b</i> c</strong>"},
		{name: "unterminated marker is literal", src: "*hi", want: "*hi"},
		{name: "escape", src: `\*`, want: "*"},
		{name: "escape inside span", src: `*a\*b*`, want: "<i>a*b</i>"},
		{name: "strike", src: "~~x~~", want: "<s>x</s>"},
		{name: "sup", src: "^x^", want: "<sup>x</sup>"},
		{name: "sub", src: "~x~", want: "<sub>x</sub>"},
		{name: "underline", src: "__x__", want: "<u>x</u>"},
		{name: "inline code trimmed and literal", src: "``  *a*  ``", want: "<code>*a*</code>"},
		{
			name: "abbreviation",
			src:  "//HTML//HyperText//",
			want: `<abbr title="HyperText" tabindex="-1">HTML</abbr>`,
		},
		{
			name: "details",
			src:  "///Sum///Body *x*///",
			want: "<details><summary>Sum</summary>Body <i>x</i></details>",
		},
		{
			name: "link with text",
			src:  "url[https://e.com, the *site*]",
			want: `<a href="https://e.com">the <i>site</i></a>`,
		},
		{
			name: "link text keeps commas",
			src:  "url[/a, b, c]",
			want: `<a href="/a">b, c</a>`,
		},
		{
			name: "link without text shows href",
			src:  "url[https://e.com]",
			want: `<a href="https://e.com">https://e.com</a>`,
		},
		{
			name: "bare image",
			src:  "img(a.png)",
			want: `<img src="a.png" loading="lazy"/>`,
		},
		{
			name: "captioned image",
			src:  `img(a.png, A cat\, sitting)`,
			want: `<div class="figcontainer"><figure id="figure-1">` +
				`<img src="a.png" loading="lazy" alt="A cat, sitting" title="A cat, sitting"/>` +
				`<figcaption><i>A cat, sitting</i></figcaption></figure></div>`,
		},
		{name: "hard break", src: "a\n\nb", want: "a<br/>b"},
		{name: "lone line break is suppressed", src: "a\nb", want: "ab"},
		{name: "horizontal rule", src: "a\n---\nb", want: "a<hr/>b"},
	}

	g := grammar.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _ := build(t, g, tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodeBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		detector grammar.LanguageDetector
		src      string
		want     string
	}{
		{
			name: "interior is literal and newlines trimmed",
			src:  "```\n**not bold**\n```",
			want: "<pre><code>**not bold**</code></pre>",
		},
		{
			name: "info string names the language",
			src:  "```Go\nx := 1\n```",
			want: `<pre><code class="language-go">x := 1</code></pre>`,
		},
		{
			name:     "detector fills in a missing language",
			detector: fixedDetector("python"),
			src:      "```\nprint(1)\n```",
			want:     `<pre><code class="language-python">print(1)</code></pre>`,
		},
		{
			name:     "hint resolved through the detector",
			detector: aliasDetector{"py": "python"},
			src:      "```py\nprint(1)\n```",
			want:     `<pre><code class="language-python">print(1)</code></pre>`,
		},
		{
			name:     "detector without an answer",
			detector: fixedDetector(""),
			src:      "```\nprint(1)\n```",
			want:     "<pre><code>print(1)</code></pre>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []grammar.Option
			if tt.detector != nil {
				opts = append(opts, grammar.WithLanguageDetector(tt.detector))
			}
			got, _ := build(t, grammar.Default(opts...), tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeadings(t *testing.T) {
	t.Parallel()

	got, ctx := build(t, grammar.Default(), "# Title\n## Sub {sub}\n# Other")

	assert.Equal(t,
		`<h1>Title</h1>`+
			`<h2 id="sub" class="show">Sub<a class="hide" href="#sub">¶</a></h2>`+
			`<h1>Other</h1>`,
		got)

	assert.Equal(t, []grammar.Heading{
		{Level: 1, Text: "Title"},
		{Level: 2, Text: "Sub", ID: "sub"},
		{Level: 1, Text: "Other"},
	}, ctx.Headings)
}

func TestHeadingLevels(t *testing.T) {
	t.Parallel()

	got, ctx := build(t, grammar.Default(), "#### d\n### c\n## b\n# a")
	assert.Equal(t, "<h4>d</h4><h3>c</h3><h2>b</h2><h1>a</h1>", got)

	levels := make([]int, 0, len(ctx.Headings))
	for _, h := range ctx.Headings {
		levels = append(levels, h.Level)
	}
	assert.Equal(t, []int{4, 3, 2, 1}, levels)
}

func TestHeadingNeedsLineStart(t *testing.T) {
	t.Parallel()

	got, ctx := build(t, grammar.Default(), "a # b")
	assert.Equal(t, "a # b", got)
	assert.Empty(t, ctx.Headings)
}

func TestList(t *testing.T) {
	t.Parallel()

	got, _ := build(t, grammar.Default(), "- a\n-- b\n- c")
	assert.Equal(t, "<ul><li>a</li><ul><li>b</li></ul><li>c</li></ul>", got)
}

func TestListDeepJumpAndReturn(t *testing.T) {
	t.Parallel()

	got, _ := build(t, grammar.Default(), "- a\n--- b\n- *c*\ntext")
	assert.Equal(t, "<ul><li>a</li><ul><ul><li>b</li></ul></ul><li><i>c</i></li></ul>text", got)
}

func TestListFollowedByHeading(t *testing.T) {
	t.Parallel()

	got, ctx := build(t, grammar.Default(), "- a\n# H")
	assert.Equal(t, "<ul><li>a</li></ul><h1>H</h1>", got)
	assert.Len(t, ctx.Headings, 1)
}

func TestQuote(t *testing.T) {
	t.Parallel()

	got, _ := build(t, grammar.Default(), "&gt; one\n&gt; **two**\nafter")
	assert.Equal(t, "<blockquote> one <strong>two</strong></blockquote>after", got)
}

func TestScissors(t *testing.T) {
	t.Parallel()

	left, _ := build(t, grammar.Default(), "&lt;-|\ninside\n&lt;-|")
	assert.Equal(t, `<div style="width:44%;float:left;margin: 3%;">inside</div>`, left)

	right, _ := build(t, grammar.Default(), "|-&gt;\n*x*\n|-&gt;")
	assert.Equal(t, `<div style="width:44%;float:right;margin: 3%;"><i>x</i></div>`, right)
}

func TestColumns(t *testing.T) {
	t.Parallel()

	got, _ := build(t, grammar.Default(), "a | b\nc | d")

	col := `<div style='max-width:min(100%, max(min(50em, 50%), 10em))'>`
	assert.Equal(t,
		`<div style="justify-content:space-between;flex-wrap:wrap;display:flex">`+
			col+`a c <br/></div>`+
			col+` b d<br/></div>`+
			`</div>`,
		got)
}

func TestColumnsWidth(t *testing.T) {
	t.Parallel()

	got, _ := build(t, grammar.Default(), "a|b|c")
	assert.Contains(t, got, "min(50em, 33.333%)")
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	got, ctx := build(t, grammar.Default(), "-attr: toc = 1\n-attr: title = First\n-attr: title = *Second*\nhello")

	assert.Equal(t, "<!--toc: 1--><!--title: First--><!--title: <i>Second</i>-->hello", got)
	assert.Equal(t, map[string]string{"toc": "1", "title": "<i>Second</i>"}, ctx.Meta)
	assert.Empty(t, ctx.Diagnostics)
}

func TestMalformedMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "no separator", src: "-attr: nonsense"},
		{name: "two separators", src: "-attr: a = b = c"},
		{name: "empty key", src: "-attr: = value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ctx := build(t, grammar.Default(), tt.src+"\nafter")

			assert.Contains(t, got, "<!--")
			assert.Contains(t, got, "after")
			assert.Empty(t, ctx.Meta)
			require.Len(t, ctx.Diagnostics, 1)

			var metaErr *grammar.MetadataError
			require.ErrorAs(t, ctx.Diagnostics[0], &metaErr)
			assert.ErrorIs(t, ctx.Diagnostics[0], grammar.ErrMalformedMetadata)
		})
	}
}

func TestMaxDepthDegradesToText(t *testing.T) {
	t.Parallel()

	g := grammar.Default(grammar.WithMaxDepth(2))
	got, _ := build(t, g, "**a *b ~c~* d**")
	assert.Equal(t, "<strong>a <i>b ~c~</i> d</strong>", got)
	assert.Equal(t, 2, g.MaxDepth())

	assert.Equal(t, grammar.DefaultMaxDepth, grammar.Default(grammar.WithMaxDepth(0)).MaxDepth())
}

func TestRewindKeepsProgress(t *testing.T) {
	t.Parallel()

	g := grammar.New([]grammar.Rule{{
		Name:    "stubborn",
		Pattern: rule.Rewinding(rule.Literal(token.Char), 5),
		Build: func(_ *grammar.Context, c rule.Capture) doctree.Node {
			return doctree.Text("[" + c.Token.Text + "]")
		},
	}})

	body := g.NewContext().Build(g.Tokenize("abc"))
	assert.Equal(t, "<body>[a][b][c]</body>", doctree.Serialize(body))
}

func TestNilNodeAppendsNothing(t *testing.T) {
	t.Parallel()

	g := grammar.New([]grammar.Rule{{
		Name:    "drop",
		Pattern: rule.Literal(token.Space),
		Build:   func(*grammar.Context, rule.Capture) doctree.Node { return nil },
	}})

	body := g.NewContext().Build(g.Tokenize("a b"))
	assert.Len(t, body.Children, 2)
}

func TestRuleOrder(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, r := range grammar.Default().Rules() {
		names = append(names, r.Name)
	}

	assert.Equal(t, []string{
		"bold-italic", "bold", "italic", "rule", "list",
		"strike", "sup", "sub", "underline", "code-block",
		"literal", "code", "heading4", "heading3", "heading2", "heading1",
		"image", "scissors", "link", "details", "abbr",
		"hard-break", "escape", "columns", "metadata", "quote", "newline",
	}, names)
}

func TestNextID(t *testing.T) {
	t.Parallel()

	ctx := grammar.Default().NewContext()
	assert.Equal(t, "figure-1", ctx.NextID("figure"))
	assert.Equal(t, "figure-2", ctx.NextID("figure"))
	assert.Equal(t, "note-3", ctx.NextID("note"))
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	g := grammar.Default()
	body := g.NewContext().Build(nil)
	assert.Equal(t, "<body/>", doctree.Serialize(body))
}

func TestMetadataErrorMessage(t *testing.T) {
	t.Parallel()

	err := &grammar.MetadataError{Line: "x", Reason: "expected exactly one '='"}
	assert.Contains(t, err.Error(), `"x"`)
	assert.True(t, errors.Is(err, grammar.ErrMalformedMetadata))
}
