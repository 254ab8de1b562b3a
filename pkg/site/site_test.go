package site_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ZabraveniGeroi/blogc/pkg/compiler"
	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/site"
)

func page(t *testing.T, src string, tmpl site.Template) *html.Node {
	t.Helper()

	doc := compiler.Compile(src, compiler.WithLanguageDetection(false))

	var buf bytes.Buffer
	require.NoError(t, site.Render(&buf, doc, tmpl))

	node, err := html.Parse(&buf)
	require.NoError(t, err)
	return node
}

func query(root *html.Node, selector string) []*html.Node {
	return cascadia.MustCompile(selector).MatchAll(root)
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestAssembleHead(t *testing.T) {
	t.Parallel()

	root := page(t, "-attr: title = Hello & Bye\nbody", site.DefaultTemplate())

	links := query(root, `head > link[rel="stylesheet"]`)
	require.Len(t, links, 1)
	assert.Equal(t, []html.Attribute{{Key: "rel", Val: "stylesheet"}, {Key: "href", Val: "/style.css"}}, links[0].Attr)

	assert.Len(t, query(root, `head > meta[name="viewport"]`), 1)

	titles := query(root, "head > title")
	require.Len(t, titles, 1)
	assert.Equal(t, "Hello & Bye", text(titles[0]))
}

func TestAssembleTitleFallback(t *testing.T) {
	t.Parallel()

	root := page(t, "no metadata", site.Template{Title: "Blog", Stylesheet: "/s.css"})

	titles := query(root, "head > title")
	require.Len(t, titles, 1)
	assert.Equal(t, "Blog", text(titles[0]))
	assert.Len(t, query(root, `link[href="/s.css"]`), 1)

	assert.Empty(t, query(page(t, "x", site.Template{}), "title"))
}

func TestAssembleBodyWrapper(t *testing.T) {
	t.Parallel()

	root := page(t, "*hello*", site.DefaultTemplate())

	assert.Len(t, query(root, "body > div.bg#bg1"), 1)
	assert.Len(t, query(root, "body > div.bg#bg2"), 1)

	content := query(root, "body > div.content")
	require.Len(t, content, 1)
	assert.Equal(t, "hello", text(content[0]))
	assert.Len(t, query(root, "div.content > i"), 1)
}

func TestAssembleTOC(t *testing.T) {
	t.Parallel()

	src := "-attr: toc = 1\n# One {one}\n## Two\n# Three"
	root := page(t, src, site.DefaultTemplate())

	first := query(root, "div.content > :first-child")
	require.Len(t, first, 1)
	assert.Equal(t, "ul", first[0].Data)

	assert.Len(t, query(root, "div.content > ul > li"), 2)
	assert.Len(t, query(root, "div.content > ul > ul > li"), 1)
	assert.Len(t, query(root, `div.content > ul a[href="#one"]`), 1)
	assert.Len(t, query(root, "div.content > h1"), 2)
}

func TestAssembleWithoutTOC(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"# One", "-attr: toc = 0\n# One"} {
		root := page(t, src, site.DefaultTemplate())
		assert.Empty(t, query(root, "div.content > ul"), src)
	}
}

func TestAssembleFragment(t *testing.T) {
	t.Parallel()

	doc := compiler.Compile("**x**")
	out := doctree.Serialize(site.Assemble(doc, site.Template{Fragment: true}))
	assert.Equal(t, "<strong>x</strong>", out)
}

func TestAssembleDoctype(t *testing.T) {
	t.Parallel()

	doc := compiler.Compile("x")
	out := doctree.Serialize(site.Assemble(doc, site.DefaultTemplate()))
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html><html><head>"))
	assert.True(t, strings.HasSuffix(out, "</body></html>"))
}
