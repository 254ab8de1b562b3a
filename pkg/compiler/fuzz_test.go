package compiler_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ZabraveniGeroi/blogc/pkg/compiler"
)

func FuzzCompile(f *testing.F) {
	seeds := []string{
		"",
		"*hi*",
		"***a*b**",
		"***a**b*",
		"- a\n-- b\n- c",
		"-attr: toc = 1\n# A\n## B",
		"<-|\nx\n<-|",
		"|->\ny\n|->",
		"> q\n> r",
		"a | b\nc | d",
		"```\n<code>\n```",
		"``x``",
		"url[a, b]img(c, d)",
		"//a//b//",
		"///a///b///",
		"\\",
		strings.Repeat("**a *b ~c ^d __e", 40),
	}
	for _, s := range seeds {
		f.Add(s)
	}

	c := compiler.New(compiler.WithLanguageDetection(false))
	f.Fuzz(func(t *testing.T, src string) {
		if !utf8.ValidString(src) {
			t.Skip()
		}

		doc := c.Compile(src)
		if doc == nil || doc.Root == nil {
			t.Fatal("Compile must always return a document")
		}

		out := doc.HTML()
		if !strings.HasPrefix(out, "<body") {
			t.Fatalf("unexpected serialization %q", out)
		}
		_ = doc.TOC()
	})
}
