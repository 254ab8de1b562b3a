package token_test

import (
	"testing"
	"unicode/utf8"

	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

// FuzzTokenize checks that tokenization is total and lossless.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		"",
		"Hello, world!",
		"# Heading\n",
		"- a\n-- b\n",
		"***a*b**",
		"``code``",
		"```\nblock\n```",
		`\*`,
		"url[x, y]",
		"img(a, b)",
		"&lt;-|\n&gt;",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("tokenizer operates on runes; invalid UTF-8 is replaced")
		}
		tokens := token.Tokenize(input)
		if !token.Covers(tokens, input) {
			t.Errorf("tokens do not cover input %q", input)
		}
	})
}
