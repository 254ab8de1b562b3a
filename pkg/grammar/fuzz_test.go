package grammar_test

import (
	"testing"
	"unicode/utf8"

	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
)

func FuzzBuild(f *testing.F) {
	seeds := []string{
		"",
		"***a*b**",
		"- a\n-- b\n- c",
		"# T {id}\n",
		"-attr: toc = 1",
		"a | b\nc | d",
		"url[x, y]img(z, w)",
		"///a///b///",
		"\\",
		"```\ncode",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	g := grammar.Default()
	f.Fuzz(func(t *testing.T, src string) {
		if !utf8.ValidString(src) {
			t.Skip()
		}

		ctx := g.NewContext()
		body := ctx.Build(g.Tokenize("\n" + src + "\n"))
		if body == nil {
			t.Fatal("Build returned nil")
		}
		_ = doctree.Serialize(body)
		_ = g.TOC(ctx.Headings)
	})
}
