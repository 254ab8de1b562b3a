package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZabraveniGeroi/blogc/pkg/cursor"
	"github.com/ZabraveniGeroi/blogc/pkg/rule"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

func cur(src string) *rule.Cursor {
	return cursor.New(token.Tokenize(src))
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	c := cur("*a")
	capture, ok := rule.Literal(token.Italic).Match(c)
	require.True(t, ok)
	assert.Equal(t, rule.CaptureToken, capture.Kind)
	assert.Equal(t, "*", capture.Token.Text)
	assert.Equal(t, 1, c.Pos())

	_, ok = rule.Literal(token.Italic).Match(c)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Pos(), "failed match must not move the cursor")

	c = cur("")
	_, ok = rule.Literal(token.Char).Match(c)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())
}

func TestSequence(t *testing.T) {
	t.Parallel()

	seq := rule.Sequence(rule.Literal(token.Bold), rule.Until(token.Bold))

	c := cur("**hi** x")
	capture, ok := seq.Match(c)
	require.True(t, ok)
	require.Equal(t, 2, capture.Len())
	assert.Equal(t, "hi", token.Join(capture.At(1).Run))
	assert.Equal(t, 4, c.Pos())

	c = cur("**hi")
	_, ok = seq.Match(c)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())
}

func TestSequenceFailsOnExhaustion(t *testing.T) {
	t.Parallel()

	// Pass would succeed, but the cursor is exhausted before it runs.
	seq := rule.Sequence(rule.Literal(token.Italic), rule.Pass())
	c := cur("*")
	_, ok := seq.Match(c)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())
}

func TestUntil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		rule    rule.Rule
		ok      bool
		run     string
		stopped string
	}{
		{name: "stops at kind", src: "ab*c", rule: rule.Until(token.Italic), ok: true, run: "ab", stopped: "*"},
		{name: "immediate stop", src: "*", rule: rule.Until(token.Italic), ok: true, run: "", stopped: "*"},
		{name: "exhausted", src: "abc", rule: rule.Until(token.Italic), ok: false},
		{name: "denied", src: "a\nb*", rule: rule.Until(token.Italic, rule.Deny(token.Newline)), ok: false},
		{
			name:    "allow list admits",
			src:     "  |",
			rule:    rule.Until(token.Pipe, rule.Allow(token.Space)),
			ok:      true,
			run:     "  ",
			stopped: "|",
		},
		{name: "allow list rejects", src: " a|", rule: rule.Until(token.Pipe, rule.Allow(token.Space)), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cur(tt.src)
			capture, ok := tt.rule.Match(c)
			require.Equal(t, tt.ok, ok)
			if !ok {
				assert.Equal(t, 0, c.Pos())
				return
			}
			assert.Equal(t, rule.CaptureRun, capture.Kind)
			assert.Equal(t, tt.run, token.Join(capture.Run))
			assert.Equal(t, tt.stopped, capture.Stop.Text)
		})
	}
}

func TestRepeatNeedsOneMatch(t *testing.T) {
	t.Parallel()

	line := rule.Sequence(rule.Literal(token.Dash), rule.Until(token.Newline))
	rep := rule.Repeat(line)

	c := cur("-a\n-b\nc")
	capture, ok := rep.Match(c)
	require.True(t, ok)
	assert.Equal(t, 2, capture.Len())
	assert.Equal(t, 6, c.Pos(), "stops before the first non-matching attempt")

	c = cur("c\n")
	_, ok = rep.Match(c)
	assert.False(t, ok, "zero matches is a failure")
	assert.Equal(t, 0, c.Pos())
}

func TestRepeatEmptyMatchTerminates(t *testing.T) {
	t.Parallel()

	capture, ok := rule.Repeat(rule.Pass()).Match(cur("abc"))
	require.True(t, ok)
	assert.Equal(t, 1, capture.Len())
}

func TestShortest(t *testing.T) {
	t.Parallel()

	alts := rule.Shortest(
		rule.Sequence(rule.Until(token.Italic), rule.Until(token.Bold)),
		rule.Sequence(rule.Until(token.Bold), rule.Until(token.Italic)),
		rule.Until(token.BoldItalic),
	)

	tests := []struct {
		src string
		alt int
		end int
	}{
		{src: "a*b**", alt: 0, end: 4},
		{src: "a**b*", alt: 1, end: 4},
		{src: "a***", alt: 2, end: 2},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			c := cur(tt.src)
			capture, ok := alts.Match(c)
			require.True(t, ok)
			alt, _ := capture.Chosen()
			assert.Equal(t, tt.alt, alt)
			assert.Equal(t, tt.end, c.Pos())
		})
	}
}

func TestShortestTieGoesToFirst(t *testing.T) {
	t.Parallel()

	alts := rule.Shortest(rule.Until(token.Italic), rule.Sequence(rule.Literal(token.Char), rule.Literal(token.Italic)))
	c := cur("a*")
	capture, ok := alts.Match(c)
	require.True(t, ok)
	alt, inner := capture.Chosen()
	assert.Equal(t, 0, alt)
	assert.Equal(t, rule.CaptureRun, inner.Kind)
}

func TestShortestNoMatch(t *testing.T) {
	t.Parallel()

	c := cur("abc")
	_, ok := rule.Shortest(rule.Until(token.Italic), rule.Literal(token.Bold)).Match(c)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Pos())
}

func TestFirstAndOptional(t *testing.T) {
	t.Parallel()

	first := rule.First(rule.Literal(token.Bold), rule.Literal(token.Char))
	capture, ok := first.Match(cur("a"))
	require.True(t, ok)
	alt, inner := capture.Chosen()
	assert.Equal(t, 1, alt)
	assert.Equal(t, "a", inner.Token.Text)

	_, ok = first.Match(cur("*"))
	assert.False(t, ok)

	opt := rule.Optional(rule.Literal(token.Bold))
	c := cur("a")
	capture, ok = opt.Match(c)
	require.True(t, ok)
	alt, inner = capture.Chosen()
	assert.Equal(t, 1, alt)
	assert.Equal(t, rule.CaptureNone, inner.Kind)
	assert.Equal(t, 0, c.Pos())
}

func TestRewinding(t *testing.T) {
	t.Parallel()

	r := rule.Rewinding(rule.Sequence(rule.Literal(token.Newline), rule.Literal(token.Newline)), 1)
	assert.Equal(t, 1, r.Rewind())
	assert.Equal(t, 0, rule.Pass().Rewind())
}

func TestCaptureTokens(t *testing.T) {
	t.Parallel()

	seq := rule.Sequence(rule.Literal(token.Newline), rule.Literal(token.Heading1), rule.Until(token.Newline))
	capture, ok := seq.Match(cur("\n# Title\nrest"))
	require.True(t, ok)
	assert.Equal(t, "\n# Title\n", token.Join(capture.Tokens()))

	assert.Empty(t, rule.Capture{}.Tokens())
	assert.Equal(t, rule.Capture{}, capture.At(7))
}
