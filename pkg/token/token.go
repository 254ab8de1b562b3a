// Package token defines the lexical units of the blogc markup dialect and the
// priority-ordered tokenizer that produces them.
package token

import (
	"strconv"
	"strings"
)

// Kind classifies a token. The set is closed; Char is the catch-all that
// guarantees every rune of the input belongs to some token.
type Kind uint8

// Token kinds, with the text each one matches in the (HTML-escaped) source.
const (
	Char Kind = iota // any single rune not claimed by another matcher

	BoldItalic // "***"
	Bold       // "**"
	Italic     // "*"
	Strike     // "~~"
	Sub        // "~"
	Underline  // "__"
	Sup        // "^"
	Details    // "///"
	Abbr       // "//"
	Newline    // "\n"

	CodeFence // "```"
	CodeSpan  // "``" ... "``"

	BracketOpen  // "["
	BracketClose // "]"

	Heading4 // "####"
	Heading3 // "###"
	Heading2 // "##"
	Heading1 // "#"

	FloatLeft  // "&lt;-|"  ("<-|" before escaping)
	FloatRight // "|-&gt;"  ("|->" before escaping)

	Attr // "-attr:"
	Dash // "-"

	URL        // "url["
	Image      // "img("
	ParenClose // ")"

	IDOpen  // "{"
	IDClose // "}"

	Quote // "&gt;" (">" before escaping)
	Pipe  // "|"
	Space // " "

	Escape // "\" followed by one rune

	kindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [kindCount]string{
	Char:         "Char",
	BoldItalic:   "BoldItalic",
	Bold:         "Bold",
	Italic:       "Italic",
	Strike:       "Strike",
	Sub:          "Sub",
	Underline:    "Underline",
	Sup:          "Sup",
	Details:      "Details",
	Abbr:         "Abbr",
	Newline:      "Newline",
	CodeFence:    "CodeFence",
	CodeSpan:     "CodeSpan",
	BracketOpen:  "BracketOpen",
	BracketClose: "BracketClose",
	Heading4:     "Heading4",
	Heading3:     "Heading3",
	Heading2:     "Heading2",
	Heading1:     "Heading1",
	FloatLeft:    "FloatLeft",
	FloatRight:   "FloatRight",
	Attr:         "Attr",
	Dash:         "Dash",
	URL:          "URL",
	Image:        "Image",
	ParenClose:   "ParenClose",
	IDOpen:       "IDOpen",
	IDClose:      "IDClose",
	Quote:        "Quote",
	Pipe:         "Pipe",
	Space:        "Space",
	Escape:       "Escape",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := range kindCount {
		out = append(out, k)
	}
	return out
}

// Token is a classified span of the source. Two tokens are considered equal
// when their kinds match; Text only carries the matched characters.
type Token struct {
	Kind Kind
	Text string
}

// New creates a token of the given kind carrying text.
func New(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}

// In reports whether the token's kind is one of kinds.
func (t Token) In(kinds []Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"
}

// Join concatenates the source text of tokens.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Covers reports whether tokens reproduce text exactly, i.e. no rune was
// dropped or duplicated and every token is non-empty.
func Covers(tokens []Token, text string) bool {
	if len(tokens) == 0 {
		return text == ""
	}

	offset := 0
	for _, t := range tokens {
		if t.Text == "" {
			return false
		}
		if !strings.HasPrefix(text[offset:], t.Text) {
			return false
		}
		offset += len(t.Text)
	}

	return offset == len(text)
}
