package token

import (
	"strings"

	"github.com/ZabraveniGeroi/blogc/pkg/cursor"
)

// MatchMode selects how a Matcher recognizes its token.
type MatchMode uint8

const (
	// MatchLiteral succeeds iff the next runes equal Pattern.
	MatchLiteral MatchMode = iota
	// MatchDelimited succeeds iff the next runes equal Pattern and the same
	// delimiter appears again before the end of input.
	MatchDelimited
	// MatchEscape consumes a backslash and exactly one following rune.
	MatchEscape
	// MatchAny consumes exactly one rune and always succeeds.
	MatchAny
)

// Matcher recognizes one token kind at the current position.
type Matcher struct {
	Kind    Kind
	Mode    MatchMode
	Pattern []rune
}

// Literal returns a matcher for a fixed string.
func Literal(kind Kind, s string) Matcher {
	return Matcher{Kind: kind, Mode: MatchLiteral, Pattern: []rune(s)}
}

// Delimited returns a matcher for a span opened and closed by delim.
func Delimited(kind Kind, delim string) Matcher {
	return Matcher{Kind: kind, Mode: MatchDelimited, Pattern: []rune(delim)}
}

// EscapeMatcher returns a matcher for backslash escapes.
func EscapeMatcher(kind Kind) Matcher {
	return Matcher{Kind: kind, Mode: MatchEscape, Pattern: []rune{'\\'}}
}

// AnyMatcher returns the catch-all matcher.
func AnyMatcher(kind Kind) Matcher {
	return Matcher{Kind: kind, Mode: MatchAny}
}

// match advances cur past the token on success. On failure the cursor
// position is unspecified; the caller restores it.
func (m Matcher) match(cur *cursor.Cursor[rune]) bool {
	switch m.Mode {
	case MatchLiteral:
		return equalRunes(cur.Read(len(m.Pattern)), m.Pattern)

	case MatchDelimited:
		if !equalRunes(cur.Read(len(m.Pattern)), m.Pattern) {
			return false
		}
		start := cur.Pos()
		for {
			body := cur.Slice(start, cur.Pos())
			if len(body) >= len(m.Pattern) && equalRunes(body[len(body)-len(m.Pattern):], m.Pattern) {
				return true
			}
			if _, ok := cur.Next(); !ok {
				return false
			}
		}

	case MatchEscape:
		if !equalRunes(cur.Read(1), m.Pattern) {
			return false
		}
		_, ok := cur.Next()
		return ok

	case MatchAny:
		_, ok := cur.Next()
		return ok
	}

	return false
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Table is an immutable, priority-ordered list of matchers.
// Longer literals must precede literals that are their prefixes.
type Table struct {
	matchers []Matcher
}

// NewTable creates a table from matchers in priority order.
func NewTable(matchers ...Matcher) *Table {
	ms := make([]Matcher, len(matchers))
	copy(ms, matchers)
	return &Table{matchers: ms}
}

// Matchers returns a copy of the table's matchers in priority order.
func (t *Table) Matchers() []Matcher {
	ms := make([]Matcher, len(t.matchers))
	copy(ms, t.matchers)
	return ms
}

// Tokenize converts text into tokens. Invalid UTF-8 sequences are replaced by
// U+FFFD before matching. It is total: when no matcher claims the
// current rune (a table without a catch-all), a Char token is emitted for it.
func (t *Table) Tokenize(text string) []Token {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	const initialCapacityDivisor = 2
	tokens := make([]Token, 0, len(runes)/initialCapacityDivisor+1)
	cur := cursor.New(runes)

	for !cur.Ended() {
		start := cur.Pos()
		matched := false

		for _, m := range t.matchers {
			if m.match(cur) {
				tokens = append(tokens, New(m.Kind, string(runes[start:cur.Pos()])))
				matched = true
				break
			}
			cur.Seek(start)
		}

		if !matched {
			cur.Seek(start + 1)
			tokens = append(tokens, New(Char, string(runes[start])))
		}
	}

	return tokens
}

// DefaultTable returns the dialect's matcher table.
func DefaultTable() *Table {
	return defaultTable
}

// Tokenize converts text into tokens using DefaultTable.
func Tokenize(text string) []Token {
	return defaultTable.Tokenize(text)
}

//nolint:gochecknoglobals // Immutable after package initialization.
var defaultTable = NewTable(
	Literal(BoldItalic, "***"),
	Literal(Bold, "**"),
	Literal(Italic, "*"),
	Literal(Strike, "~~"),
	Literal(Sub, "~"),
	Literal(Underline, "__"),
	Literal(Sup, "^"),
	Literal(Details, "///"),
	Literal(Abbr, "//"),
	Literal(Newline, "\n"),
	Literal(CodeFence, "```"),
	Delimited(CodeSpan, "``"),
	Literal(BracketOpen, "["),
	Literal(BracketClose, "]"),
	Literal(Heading4, "####"),
	Literal(Heading3, "###"),
	Literal(Heading2, "##"),
	Literal(Heading1, "#"),
	Literal(FloatLeft, "&lt;-|"),
	Literal(FloatRight, "|-&gt;"),
	Literal(Attr, "-attr:"),
	Literal(Dash, "-"),
	Literal(URL, "url["),
	Literal(Image, "img("),
	Literal(ParenClose, ")"),
	Literal(IDOpen, "{"),
	Literal(IDClose, "}"),
	Literal(Quote, "&gt;"),
	Literal(Pipe, "|"),
	Literal(Space, " "),
	EscapeMatcher(Escape),
	AnyMatcher(Char),
)

// Escaped returns the rune an Escape token stands for, or the token text
// unchanged for any other kind.
func Escaped(t Token) string {
	if t.Kind != Escape {
		return t.Text
	}
	_, rest, ok := strings.Cut(t.Text, `\`)
	if !ok || rest == "" {
		return t.Text
	}
	return rest
}
