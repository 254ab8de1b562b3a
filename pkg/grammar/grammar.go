// Package grammar holds the blogc dialect: an ordered table of combinator
// patterns paired with builders, the dispatch loop that applies them to a
// token stream, and the table-of-contents assembler.
package grammar

import (
	"fmt"

	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/rule"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

// DefaultMaxDepth bounds how deeply builders may re-enter the dispatch loop.
// Deeper input is emitted as literal text.
const DefaultMaxDepth = 64

// BuildFunc turns a capture into a document node. A nil node appends nothing.
type BuildFunc func(ctx *Context, c rule.Capture) doctree.Node

// Rule pairs a combinator pattern with its builder.
type Rule struct {
	Name    string
	Pattern rule.Rule
	Build   BuildFunc
}

// LanguageDetector guesses the language of a fenced code block.
// It returns "" when it has no confident answer.
type LanguageDetector interface {
	Detect(code string) string
}

// HintResolver is implemented by detectors that can canonicalize an
// explicit language hint such as "py" or "golang".
type HintResolver interface {
	Resolve(hint string) string
}

// Grammar is an immutable, ordered rule table plus the tokenizer it reads.
// It is safe for concurrent use; per-document state lives in Context.
type Grammar struct {
	rules    []Rule
	table    *token.Table
	maxDepth int
	detector LanguageDetector
}

// Option configures a Grammar.
type Option func(*Grammar)

// WithMaxDepth sets the recursion ceiling. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(g *Grammar) {
		if n >= 1 {
			g.maxDepth = n
		}
	}
}

// WithLanguageDetector enables language classes on fenced code blocks.
func WithLanguageDetector(d LanguageDetector) Option {
	return func(g *Grammar) {
		g.detector = d
	}
}

// WithTable replaces the tokenizer table used for re-tokenizing link text
// and table-of-contents entries.
func WithTable(t *token.Table) Option {
	return func(g *Grammar) {
		if t != nil {
			g.table = t
		}
	}
}

// New creates a grammar from rules in priority order.
func New(rules []Rule, opts ...Option) *Grammar {
	g := &Grammar{
		rules:    append([]Rule(nil), rules...),
		table:    token.DefaultTable(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Default creates the grammar of the blogc dialect.
func Default(opts ...Option) *Grammar {
	return New(DefaultRules(), opts...)
}

// Rules returns a copy of the rule table in priority order.
func (g *Grammar) Rules() []Rule {
	return append([]Rule(nil), g.rules...)
}

// MaxDepth returns the recursion ceiling.
func (g *Grammar) MaxDepth() int {
	return g.maxDepth
}

// Tokenize runs the grammar's tokenizer table over text.
func (g *Grammar) Tokenize(text string) []token.Token {
	return g.table.Tokenize(text)
}

// NewContext returns fresh per-document state bound to g.
func (g *Grammar) NewContext() *Context {
	return &Context{
		Meta:    make(map[string]string),
		grammar: g,
	}
}

// Heading is a recorded section title. Level runs from 1 (outermost) to 4.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Context is the mutable state of one compilation. It must not be shared
// between documents or goroutines.
type Context struct {
	// Headings in document order.
	Headings []Heading
	// Meta holds metadata lines; the last value for a key wins.
	Meta map[string]string
	// Diagnostics collects non-fatal problems such as malformed metadata.
	Diagnostics []error

	grammar *Grammar
	anon    int
	depth   int
}

// Grammar returns the grammar the context builds with.
func (ctx *Context) Grammar() *Grammar {
	return ctx.grammar
}

// NextID returns a document-unique identifier with the given prefix.
func (ctx *Context) NextID(prefix string) string {
	ctx.anon++
	return fmt.Sprintf("%s-%d", prefix, ctx.anon)
}
