// Package compiler is the entry point for turning blogc source text into a
// document. Compilation is total: every input yields a Document, with
// problems reported as diagnostics rather than errors.
package compiler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ZabraveniGeroi/blogc/pkg/commonmark"
	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
	"github.com/ZabraveniGeroi/blogc/pkg/langdetect"
)

// Engine selects the source language.
type Engine string

// Supported engines.
const (
	EngineDialect    Engine = "dialect"
	EngineCommonMark Engine = "commonmark"
)

// Options configures a Compiler.
type Options struct {
	Engine          Engine
	MaxDepth        int
	DetectLanguages bool
	// Flavor is passed to the commonmark engine ("commonmark" or "gfm").
	Flavor string
}

// Option mutates Options.
type Option func(*Options)

// WithEngine selects the engine. Unknown engines fall back to the dialect.
func WithEngine(e Engine) Option {
	return func(o *Options) { o.Engine = e }
}

// WithMaxDepth sets the dialect's recursion ceiling.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithLanguageDetection toggles language classes on code blocks.
func WithLanguageDetection(enabled bool) Option {
	return func(o *Options) { o.DetectLanguages = enabled }
}

// WithFlavor sets the commonmark flavor.
func WithFlavor(flavor string) Option {
	return func(o *Options) { o.Flavor = flavor }
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Engine:          EngineDialect,
		MaxDepth:        grammar.DefaultMaxDepth,
		DetectLanguages: true,
		Flavor:          commonmark.FlavorCommonMark,
	}
}

// Compiler holds the immutable tables for one configuration. It is safe for
// concurrent use; each Compile call owns its own state.
type Compiler struct {
	opts     Options
	grammar  *grammar.Grammar
	markdown *commonmark.Engine
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Engine != EngineCommonMark {
		o.Engine = EngineDialect
	}

	gopts := []grammar.Option{grammar.WithMaxDepth(o.MaxDepth)}
	if o.DetectLanguages {
		gopts = append(gopts, grammar.WithLanguageDetector(langdetect.New()))
	}

	c := &Compiler{
		opts:    o,
		grammar: grammar.Default(gopts...),
	}
	if o.Engine == EngineCommonMark {
		c.markdown = commonmark.New(o.Flavor)
	}
	return c
}

// Options returns the effective options.
func (c *Compiler) Options() Options {
	return c.opts
}

// Grammar returns the dialect grammar, also used to build tables of contents.
func (c *Compiler) Grammar() *grammar.Grammar {
	return c.grammar
}

// Compile compiles raw with the configured engine.
func (c *Compiler) Compile(raw string) *Document {
	if c.markdown != nil {
		return c.compileMarkdown(raw)
	}
	return c.compileDialect(raw)
}

// compileDialect escapes raw once, surrounds it with line breaks so that
// line rules also match on the first and last line, and builds it.
func (c *Compiler) compileDialect(raw string) *Document {
	ctx := c.grammar.NewContext()
	tokens := c.grammar.Tokenize("\n" + html.EscapeString(raw) + "\n")
	root := ctx.Build(tokens)

	return &Document{
		Root:        root,
		Headings:    ctx.Headings,
		Meta:        ctx.Meta,
		Diagnostics: ctx.Diagnostics,
		grammar:     c.grammar,
	}
}

func (c *Compiler) compileMarkdown(raw string) *Document {
	res, err := c.markdown.Render(context.Background(), []byte(raw))
	if err != nil {
		return &Document{
			Root:        doctree.NewElement("body", doctree.Text(html.EscapeString(raw))),
			Meta:        map[string]string{},
			Diagnostics: []error{fmt.Errorf("commonmark: %w", err)},
			grammar:     c.grammar,
		}
	}

	return &Document{
		Root:        res.Body,
		Headings:    res.Headings,
		Meta:        res.Meta,
		Diagnostics: res.Diagnostics,
		grammar:     c.grammar,
	}
}

// Compile compiles raw with a Compiler built from opts.
func Compile(raw string, opts ...Option) *Document {
	return New(opts...).Compile(raw)
}

// Document is a compiled page.
type Document struct {
	// Root is the "body" element holding the page content.
	Root *doctree.Element
	// Headings in document order.
	Headings []grammar.Heading
	// Meta holds the page's metadata lines.
	Meta map[string]string
	// Diagnostics are non-fatal problems found while compiling.
	Diagnostics []error

	grammar *grammar.Grammar
}

// Get returns the metadata value for key.
func (d *Document) Get(key string) (string, bool) {
	v, ok := d.Meta[key]
	return v, ok
}

// Bool interprets a metadata value as a flag. Integers are true when
// non-zero; otherwise the usual boolean spellings apply. Missing or
// unparsable values are false.
func (d *Document) Bool(key string) bool {
	v, ok := d.Meta[key]
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)

	if n, err := strconv.Atoi(v); err == nil {
		return n != 0
	}
	switch strings.ToLower(v) {
	case "true", "yes", "on":
		return true
	default:
		return false
	}
}

// TOC builds the table of contents for the document's headings.
func (d *Document) TOC() *doctree.Element {
	if d.grammar == nil {
		return grammar.TOC(d.Headings)
	}
	return d.grammar.TOC(d.Headings)
}

// HTML serializes the document body.
func (d *Document) HTML() string {
	return doctree.Serialize(d.Root)
}
