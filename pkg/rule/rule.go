// Package rule implements backtracking parser combinators over a token
// cursor. Every combinator is all-or-nothing: on failure the cursor is left
// exactly where it was on entry.
package rule

import (
	"github.com/ZabraveniGeroi/blogc/pkg/cursor"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

// Cursor is the token cursor rules match against.
type Cursor = cursor.Cursor[token.Token]

// Rule is a combinator. The set of implementations is closed to this package.
type Rule interface {
	// Match attempts the rule at the cursor. On success the cursor is past
	// the matched tokens; on failure it is unchanged.
	Match(c *Cursor) (Capture, bool)
	// Rewind is the number of tokens the dispatch loop steps back after a
	// successful top-level match, so a trailing delimiter can start the next
	// construct.
	Rewind() int

	common() *base
}

type base struct {
	back int
}

func (b *base) Rewind() int   { return b.back }
func (b *base) common() *base { return b }

// Rewinding sets the rewind count of r and returns it.
func Rewinding(r Rule, n int) Rule {
	r.common().back = n
	return r
}

// guarded runs match and restores the cursor when it fails.
func guarded(c *Cursor, match func() (Capture, bool)) (Capture, bool) {
	start := c.Pos()
	capture, ok := match()
	if !ok {
		c.Seek(start)
		return Capture{}, false
	}
	return capture, true
}

// LiteralRule matches a single token of one kind.
type LiteralRule struct {
	base
	Kind token.Kind
}

// Literal matches exactly one token of the given kind.
func Literal(kind token.Kind) *LiteralRule {
	return &LiteralRule{Kind: kind}
}

// Match implements Rule.
func (r *LiteralRule) Match(c *Cursor) (Capture, bool) {
	return guarded(c, func() (Capture, bool) {
		tok, ok := c.Next()
		if !ok || !tok.Is(r.Kind) {
			return Capture{}, false
		}
		return tokenCapture(tok), true
	})
}

// SequenceRule matches its sub-rules back to back.
type SequenceRule struct {
	base
	Rules []Rule
}

// Sequence matches every rule consecutively. It fails if the cursor is
// exhausted before any sub-rule is attempted.
func Sequence(rules ...Rule) *SequenceRule {
	return &SequenceRule{Rules: rules}
}

// Match implements Rule.
func (r *SequenceRule) Match(c *Cursor) (Capture, bool) {
	return guarded(c, func() (Capture, bool) {
		items := make([]Capture, 0, len(r.Rules))
		for _, sub := range r.Rules {
			if c.Ended() {
				return Capture{}, false
			}
			capture, ok := sub.Match(c)
			if !ok {
				return Capture{}, false
			}
			items = append(items, capture)
		}
		return listCapture(items), true
	})
}

// UntilRule consumes tokens up to and including a stop kind.
type UntilRule struct {
	base
	Stop  token.Kind
	Deny  []token.Kind
	Allow []token.Kind
}

// UntilOption configures an Until rule.
type UntilOption func(*UntilRule)

// Deny makes Until fail when it reads any of kinds before the stop token.
func Deny(kinds ...token.Kind) UntilOption {
	return func(r *UntilRule) {
		r.Deny = append(r.Deny, kinds...)
	}
}

// Allow restricts the tokens Until may consume before the stop token.
func Allow(kinds ...token.Kind) UntilOption {
	return func(r *UntilRule) {
		r.Allow = append(r.Allow, kinds...)
	}
}

// Until consumes tokens one at a time until one of kind stop is read. It
// fails on exhaustion, on a denied token, or on a token outside a non-empty
// allow list. The capture holds the run and the stop token.
func Until(stop token.Kind, opts ...UntilOption) *UntilRule {
	r := &UntilRule{Stop: stop}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Match implements Rule.
func (r *UntilRule) Match(c *Cursor) (Capture, bool) {
	return guarded(c, func() (Capture, bool) {
		var run []token.Token
		for {
			tok, ok := c.Next()
			if !ok {
				return Capture{}, false
			}
			if tok.Is(r.Stop) {
				return runCapture(run, tok), true
			}
			if tok.In(r.Deny) || (len(r.Allow) > 0 && !tok.In(r.Allow)) {
				return Capture{}, false
			}
			run = append(run, tok)
		}
	})
}

// RepeatRule applies a rule one or more times.
type RepeatRule struct {
	base
	Rule Rule
}

// Repeat applies rule as many times as it matches. At least one match is
// required; zero matches is a failure.
func Repeat(rule Rule) *RepeatRule {
	return &RepeatRule{Rule: rule}
}

// Match implements Rule.
func (r *RepeatRule) Match(c *Cursor) (Capture, bool) {
	var items []Capture
	for {
		start := c.Pos()
		capture, ok := r.Rule.Match(c)
		if !ok {
			break
		}
		items = append(items, capture)
		if c.Pos() == start {
			// An empty match would repeat forever.
			break
		}
	}
	if len(items) == 0 {
		return Capture{}, false
	}
	return listCapture(items), true
}

// ShortestRule picks the least-consuming matching alternative.
type ShortestRule struct {
	base
	Rules []Rule
}

// Shortest tries every alternative from the same position and keeps the one
// that ends earliest. Ties go to the alternative listed first.
func Shortest(rules ...Rule) *ShortestRule {
	return &ShortestRule{Rules: rules}
}

// Match implements Rule.
func (r *ShortestRule) Match(c *Cursor) (Capture, bool) {
	start := c.Pos()
	best, bestEnd, bestAlt := Capture{}, -1, -1

	for i, alt := range r.Rules {
		capture, ok := alt.Match(c)
		if ok && (bestAlt < 0 || c.Pos() < bestEnd) {
			best, bestEnd, bestAlt = capture, c.Pos(), i
		}
		c.Seek(start)
	}

	if bestAlt < 0 {
		return Capture{}, false
	}
	c.Seek(bestEnd)
	return choiceCapture(bestAlt, best), true
}

// FirstRule is ordered choice.
type FirstRule struct {
	base
	Rules []Rule
}

// First returns the capture of the first alternative that matches.
func First(rules ...Rule) *FirstRule {
	return &FirstRule{Rules: rules}
}

// Match implements Rule.
func (r *FirstRule) Match(c *Cursor) (Capture, bool) {
	for i, alt := range r.Rules {
		if capture, ok := alt.Match(c); ok {
			return choiceCapture(i, capture), true
		}
	}
	return Capture{}, false
}

// PassRule always matches without consuming.
type PassRule struct {
	base
}

// Pass matches the empty sequence.
func Pass() *PassRule {
	return &PassRule{}
}

// Match implements Rule.
func (*PassRule) Match(*Cursor) (Capture, bool) {
	return Capture{Kind: CaptureNone}, true
}

// Optional matches rule or nothing. The capture is a choice whose Alt is 0
// when rule matched and 1 otherwise.
func Optional(rule Rule) *FirstRule {
	return First(rule, Pass())
}
