package grammar

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/rule"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

// Attribute values are written verbatim by the serializer, so they are
// quoted here.
func quoted(s string) string {
	return `"` + s + `"`
}

// DefaultRules returns the dialect's rule table. Order matters: a rule whose
// pattern shares a prefix with a later one must come first.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "bold-italic", Pattern: boldItalicPattern(), Build: buildBoldItalic},
		wrapRule("bold", token.Bold, "strong"),
		wrapRule("italic", token.Italic, "i"),
		{
			Name: "rule",
			Pattern: rule.Rewinding(rule.Sequence(
				rule.Literal(token.Newline),
				rule.Literal(token.Dash), rule.Literal(token.Dash), rule.Literal(token.Dash),
				rule.Literal(token.Newline),
			), 1),
			Build: func(*Context, rule.Capture) doctree.Node { return doctree.NewElement("hr") },
		},
		{
			Name: "list",
			Pattern: rule.Rewinding(rule.Sequence(
				rule.Literal(token.Newline),
				rule.Repeat(rule.Sequence(rule.Literal(token.Dash), rule.Until(token.Newline))),
			), 1),
			Build: buildList,
		},
		wrapRule("strike", token.Strike, "s"),
		wrapRule("sup", token.Sup, "sup"),
		wrapRule("sub", token.Sub, "sub"),
		wrapRule("underline", token.Underline, "u"),
		{
			Name:    "code-block",
			Pattern: rule.Sequence(rule.Literal(token.CodeFence), rule.Until(token.CodeFence)),
			Build:   buildCodeBlock,
		},
		{
			Name:    "literal",
			Pattern: rule.Literal(token.Char),
			Build: func(_ *Context, c rule.Capture) doctree.Node {
				return doctree.Text(c.Token.Text)
			},
		},
		{
			Name:    "code",
			Pattern: rule.Literal(token.CodeSpan),
			Build:   buildCodeSpan,
		},
		headingRule(4, token.Heading4),
		headingRule(3, token.Heading3),
		headingRule(2, token.Heading2),
		headingRule(1, token.Heading1),
		{
			Name:    "image",
			Pattern: rule.Sequence(rule.Literal(token.Image), rule.Until(token.ParenClose)),
			Build:   buildImage,
		},
		{
			Name: "scissors",
			Pattern: rule.Rewinding(rule.Sequence(
				rule.Literal(token.Newline),
				rule.Shortest(
					rule.Sequence(rule.Literal(token.FloatLeft), rule.Literal(token.Newline), rule.Until(token.FloatLeft)),
					rule.Sequence(rule.Literal(token.FloatRight), rule.Literal(token.Newline), rule.Until(token.FloatRight)),
				),
				rule.Literal(token.Newline),
			), 1),
			Build: buildScissors,
		},
		{
			Name:    "link",
			Pattern: rule.Sequence(rule.Literal(token.URL), rule.Until(token.BracketClose)),
			Build:   buildLink,
		},
		{
			Name:    "details",
			Pattern: rule.Sequence(rule.Literal(token.Details), rule.Until(token.Details), rule.Until(token.Details)),
			Build:   buildDetails,
		},
		{
			Name:    "abbr",
			Pattern: rule.Sequence(rule.Literal(token.Abbr), rule.Until(token.Abbr), rule.Until(token.Abbr)),
			Build:   buildAbbr,
		},
		{
			Name:    "hard-break",
			Pattern: rule.Rewinding(rule.Sequence(rule.Literal(token.Newline), rule.Literal(token.Newline)), 1),
			Build:   func(*Context, rule.Capture) doctree.Node { return doctree.NewElement("br") },
		},
		{
			Name:    "escape",
			Pattern: rule.Literal(token.Escape),
			Build: func(_ *Context, c rule.Capture) doctree.Node {
				return doctree.Text(token.Escaped(c.Token))
			},
		},
		{
			Name: "columns",
			Pattern: rule.Rewinding(rule.Sequence(
				rule.Literal(token.Newline),
				rule.Repeat(rule.Sequence(
					rule.Repeat(rule.Until(token.Pipe, rule.Deny(token.Newline))),
					rule.Until(token.Newline),
				)),
			), 1),
			Build: buildColumns,
		},
		{
			Name: "metadata",
			Pattern: rule.Rewinding(rule.Sequence(
				rule.Literal(token.Newline),
				rule.Literal(token.Attr),
				rule.Until(token.Newline),
			), 1),
			Build: buildMetadata,
		},
		{
			Name: "quote",
			Pattern: rule.Rewinding(rule.Sequence(
				rule.Literal(token.Newline),
				rule.Repeat(rule.Sequence(rule.Literal(token.Quote), rule.Until(token.Newline))),
			), 1),
			Build: buildQuote,
		},
		{
			// A lone line break renders as nothing so it does not become
			// visible whitespace.
			Name:    "newline",
			Pattern: rule.Literal(token.Newline),
			Build:   func(*Context, rule.Capture) doctree.Node { return doctree.Text("") },
		},
	}
}

// wrapRule wraps everything between two markers of kind in an element.
func wrapRule(name string, kind token.Kind, tag string) Rule {
	return Rule{
		Name:    name,
		Pattern: rule.Sequence(rule.Literal(kind), rule.Until(kind)),
		Build: func(ctx *Context, c rule.Capture) doctree.Node {
			return doctree.NewElement(tag, ctx.Children(c.At(1).Run)...)
		},
	}
}

func boldItalicPattern() rule.Rule {
	return rule.Sequence(
		rule.Literal(token.BoldItalic),
		rule.Shortest(
			rule.Sequence(rule.Until(token.Italic), rule.Until(token.Bold)),
			rule.Sequence(rule.Until(token.Bold), rule.Until(token.Italic)),
			rule.Sequence(rule.Until(token.BoldItalic)),
		),
	)
}

// buildBoldItalic nests according to which terminator closed first:
// ***a*b** is strong(i(a), b) and ***a**b* is i(strong(a), b).
func buildBoldItalic(ctx *Context, c rule.Capture) doctree.Node {
	alt, parts := c.At(1).Chosen()
	inner := ctx.Children(parts.At(0).Run)

	switch alt {
	case 0:
		return doctree.NewElement("strong",
			append([]doctree.Node{doctree.NewElement("i", inner...)}, ctx.Children(parts.At(1).Run)...)...)
	case 1:
		return doctree.NewElement("i",
			append([]doctree.Node{doctree.NewElement("strong", inner...)}, ctx.Children(parts.At(1).Run)...)...)
	default:
		return doctree.NewElement("strong", doctree.NewElement("i", inner...))
	}
}

// buildList nests each "-" line by its count of leading markers.
func buildList(ctx *Context, c rule.Capture) doctree.Node {
	lists := newListStack()

	for _, line := range c.At(1).Items {
		run := line.At(1).Run

		depth := 0
		for depth < len(run) && run[depth].Is(token.Dash) {
			depth++
		}

		body := trimSpaces(run[depth:])
		lists.add(depth, doctree.NewElement("li", ctx.Children(body)...))
	}

	return lists.root()
}

//nolint:gochecknoglobals // Read-only pattern.
var infoString = regexp.MustCompile(`^[A-Za-z0-9_+#.-]+$`)

// buildCodeBlock keeps the interior literal. A first line holding a single
// word is taken as the language; otherwise the detector, if any, is asked.
func buildCodeBlock(ctx *Context, c rule.Capture) doctree.Node {
	text := token.Join(c.At(1).Run)

	lang := ""
	if first, rest, ok := strings.Cut(text, "\n"); ok && infoString.MatchString(first) {
		lang, text = strings.ToLower(first), rest
		if resolver, ok := ctx.grammar.detector.(HintResolver); ok {
			lang = resolver.Resolve(first)
		}
	}
	text = strings.Trim(text, "\n")

	if lang == "" && ctx.grammar.detector != nil {
		lang = ctx.grammar.detector.Detect(html.UnescapeString(text))
	}

	code := doctree.NewElement("code", doctree.Text(text))
	if lang != "" {
		code.WithAttr("class", quoted("language-"+lang))
	}
	return doctree.NewElement("pre", code)
}

func buildCodeSpan(_ *Context, c rule.Capture) doctree.Node {
	text := c.Token.Text
	text = strings.TrimPrefix(text, "``")
	text = strings.TrimSuffix(text, "``")
	return doctree.NewElement("code", doctree.Text(strings.Trim(text, " ")))
}

// lineBody matches the rest of a line, optionally ending in an {id}.
// Alternative 0 carries the id, alternative 1 does not.
func lineBody() rule.Rule {
	return rule.First(
		rule.Sequence(
			rule.Until(token.IDOpen, rule.Deny(token.Newline)),
			rule.Until(token.IDClose, rule.Deny(token.Newline)),
			rule.Literal(token.Newline),
		),
		rule.Until(token.Newline),
	)
}

func headingRule(level int, marker token.Kind) Rule {
	tag := "h" + strconv.Itoa(level)

	return Rule{
		Name: "heading" + strconv.Itoa(level),
		Pattern: rule.Rewinding(rule.Sequence(
			rule.Literal(token.Newline),
			rule.Literal(marker),
			lineBody(),
		), 1),
		Build: func(ctx *Context, c rule.Capture) doctree.Node {
			alt, body := c.At(2).Chosen()

			var run []token.Token
			id := ""
			if alt == 0 {
				run = body.At(0).Run
				id = strings.TrimSpace(token.Join(body.At(1).Run))
			} else {
				run = body.Run
			}
			run = trimSpaces(run)

			ctx.Headings = append(ctx.Headings, Heading{
				Level: level,
				Text:  token.Join(run),
				ID:    id,
			})

			heading := doctree.NewElement(tag, ctx.Children(run)...)
			if id != "" {
				heading.WithAttr("id", quoted(id)).WithAttr("class", quoted("show"))
				doctree.Append(heading, doctree.NewElement("a", doctree.Text("¶")).
					WithAttr("class", quoted("hide")).
					WithAttr("href", quoted("#"+id)))
			}
			return heading
		},
	}
}

// buildImage splits "src, caption" on the first comma. A caption turns the
// image into a figure.
func buildImage(ctx *Context, c rule.Capture) doctree.Node {
	src, caption, _ := strings.Cut(token.Join(c.At(1).Run), ",")
	src = strings.TrimSpace(src)
	caption = strings.TrimSpace(strings.ReplaceAll(caption, `\`, ""))

	img := doctree.NewElement("img").
		WithAttr("src", quoted(src)).
		WithAttr("loading", quoted("lazy"))
	if caption == "" {
		return img
	}

	img.WithAttr("alt", quoted(caption)).WithAttr("title", quoted(caption))

	figure := doctree.NewElement("figure",
		img,
		doctree.NewElement("figcaption", doctree.NewElement("i", doctree.Text(caption))),
	).WithAttr("id", quoted(ctx.NextID("figure")))

	return doctree.NewElement("div", figure).WithAttr("class", quoted("figcontainer"))
}

func buildScissors(ctx *Context, c rule.Capture) doctree.Node {
	alt, parts := c.At(1).Chosen()

	side := "left"
	if alt == 1 {
		side = "right"
	}

	return doctree.NewElement("div", ctx.Children(parts.At(2).Run)...).
		WithAttr("style", quoted("width:44%;float:"+side+";margin: 3%;"))
}

// buildLink reads "href, text". The text is tokenized afresh so commas in it
// survive; without text the href is shown.
func buildLink(ctx *Context, c rule.Capture) doctree.Node {
	href, text, _ := strings.Cut(token.Join(c.At(1).Run), ",")
	href = strings.TrimSpace(href)

	var content []doctree.Node
	if strings.TrimSpace(text) == "" {
		content = []doctree.Node{doctree.Text(href)}
	} else {
		content = ctx.Children(ctx.grammar.Tokenize(strings.TrimSpace(text)))
	}

	return doctree.NewElement("a", content...).WithAttr("href", quoted(href))
}

func buildDetails(ctx *Context, c rule.Capture) doctree.Node {
	summary := doctree.NewElement("summary", ctx.Children(c.At(1).Run)...)
	return doctree.NewElement("details", append([]doctree.Node{summary}, ctx.Children(c.At(2).Run)...)...)
}

func buildAbbr(ctx *Context, c rule.Capture) doctree.Node {
	return doctree.NewElement("abbr", ctx.Children(c.At(1).Run)...).
		WithAttr("title", quoted(token.Join(c.At(2).Run))).
		WithAttr("tabindex", quoted("-1"))
}

// buildColumns collects the n-th cell of every line into the n-th column.
func buildColumns(ctx *Context, c rule.Capture) doctree.Node {
	newline := token.New(token.Newline, "\n")

	var columns [][]token.Token
	for _, line := range c.At(1).Items {
		cells := make([][]token.Token, 0, line.At(0).Len()+1)
		for _, cell := range line.At(0).Items {
			cells = append(cells, cell.Run)
		}
		cells = append(cells, line.At(1).Run)

		for i, cell := range cells {
			if i == len(columns) {
				columns = append(columns, nil)
			}
			columns[i] = append(columns[i], cell...)
			columns[i] = append(columns[i], newline)
		}
	}

	width := strconv.FormatFloat(math.Round(100/float64(len(columns))*1000)/1000, 'f', -1, 64)
	style := "'max-width:min(100%, max(min(50em, " + width + "%), 10em))'"

	row := doctree.NewElement("div").
		WithAttr("style", quoted("justify-content:space-between;flex-wrap:wrap;display:flex"))
	for _, col := range columns {
		kids := append(ctx.Children(col), doctree.NewElement("br"))
		doctree.Append(row, doctree.NewElement("div", kids...).WithAttr("style", style))
	}
	return row
}

// buildMetadata records "key = value" and renders it as a comment. The value
// is the rendered markup of the line, so inline formatting survives.
func buildMetadata(ctx *Context, c rule.Capture) doctree.Node {
	raw := strings.TrimSpace(token.Join(c.At(2).Run))
	rendered := doctree.Serialize(doctree.NewConcat(ctx.Children(c.At(2).Run)...))

	key, value, err := SplitMetadata(rendered)
	if err != nil {
		ctx.Diagnostics = append(ctx.Diagnostics, &MetadataError{Line: raw, Reason: err.Error()})
		return doctree.Comment(raw)
	}

	ctx.Meta[key] = value
	return doctree.Comment(key + ": " + value)
}

// buildQuote strips the ">" prefixes and builds the lines as one block.
func buildQuote(ctx *Context, c rule.Capture) doctree.Node {
	var lines []token.Token
	for _, line := range c.At(1).Items {
		lines = append(lines, line.At(1).Run...)
		lines = append(lines, line.At(1).Stop)
	}
	return doctree.NewElement("blockquote", ctx.Children(lines)...)
}

// trimSpaces drops leading and trailing space tokens.
func trimSpaces(run []token.Token) []token.Token {
	for len(run) > 0 && run[0].Is(token.Space) {
		run = run[1:]
	}
	for len(run) > 0 && run[len(run)-1].Is(token.Space) {
		run = run[:len(run)-1]
	}
	return run
}
