// Package commonmark renders standard Markdown with goldmark as an
// alternative to the blogc dialect. It produces the same document shape:
// a body element, recorded headings and metadata lines, so the site
// assembler treats both engines alike.
package commonmark

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
)

// Flavors accepted by New.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// maxHeadingLevel is the deepest heading recorded for the table of contents.
const maxHeadingLevel = 4

// Engine converts Markdown with a configured goldmark instance.
// It is safe for concurrent use.
type Engine struct {
	flavor string
	md     goldmark.Markdown
}

// Result is the output of one conversion.
type Result struct {
	Body        *doctree.Element
	Headings    []grammar.Heading
	Meta        map[string]string
	Diagnostics []error
}

// New creates an engine for the given flavor. Unknown flavors fall back to
// CommonMark.
func New(flavor string) *Engine {
	f := flavorOrDefault(flavor)
	return &Engine{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (e *Engine) Flavor() string {
	return e.flavor
}

// Render converts source. Metadata lines are removed before parsing and
// collected into Meta; headings up to level four are recorded with their
// generated ids.
func (e *Engine) Render(ctx context.Context, source []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	res := &Result{Meta: make(map[string]string)}
	content := stripMetadata(source, res)

	pctx := parser.NewContext()
	doc := e.md.Parser().Parse(text.NewReader(content), parser.WithContext(pctx))
	res.Headings = collectHeadings(doc, content)

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, content, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	res.Body = doctree.NewElement("body", doctree.Text(buf.String()))
	return res, nil
}

// stripMetadata drops metadata lines from source, recording them in res.
func stripMetadata(source []byte, res *Result) []byte {
	var out bytes.Buffer
	out.Grow(len(source))

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), len(source)+1)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok, err := grammar.ParseMetadataLine(strings.TrimRight(line, "\r"))
		switch {
		case !ok:
			out.WriteString(line)
			out.WriteByte('\n')
		case err != nil:
			res.Diagnostics = append(res.Diagnostics, err)
		default:
			res.Meta[key] = html.EscapeString(value)
		}
	}

	return out.Bytes()
}

// collectHeadings records headings in document order. Text is HTML-escaped
// to match what the dialect records.
func collectHeadings(doc ast.Node, source []byte) []grammar.Heading {
	var headings []grammar.Heading

	//nolint:errcheck // The walker never returns an error.
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > maxHeadingLevel {
			return ast.WalkContinue, nil
		}

		var title bytes.Buffer
		lines := h.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			title.Write(seg.Value(source))
		}

		heading := grammar.Heading{
			Level: h.Level,
			Text:  html.EscapeString(strings.TrimSpace(title.String())),
		}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				heading.ID = string(b)
			}
		}
		headings = append(headings, heading)

		return ast.WalkSkipChildren, nil
	})

	return headings
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}

	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}

	return goldmark.New(opts...)
}
