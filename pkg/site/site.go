// Package site wraps compiled documents into complete HTML pages.
package site

import (
	"io"

	"github.com/ZabraveniGeroi/blogc/pkg/compiler"
	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
)

// DefaultStylesheet is linked from every page unless the template overrides it.
const DefaultStylesheet = "/style.css"

// Metadata keys read by Assemble.
const (
	MetaTOC   = "toc"
	MetaTitle = "title"
)

// Template controls page assembly.
type Template struct {
	// Stylesheet is the href of the page stylesheet.
	Stylesheet string
	// Title is used when the document has no "title" metadata.
	Title string
	// Fragment skips the doctype, head and background wrapper and returns
	// only the content.
	Fragment bool
}

// DefaultTemplate returns the template used by the build.
func DefaultTemplate() Template {
	return Template{Stylesheet: DefaultStylesheet}
}

// Assemble builds a page from doc. When the "toc" metadata is truthy and the
// document has headings, the table of contents is placed before the content. The content sits inside
// a "content" div preceded by the two background divs the stylesheet
// expects.
func Assemble(doc *compiler.Document, tmpl Template) *doctree.Concat {
	content := make([]doctree.Node, 0, len(doc.Root.Children)+1)
	if doc.Bool(MetaTOC) && len(doc.Headings) > 0 {
		content = append(content, doc.TOC())
	}
	content = append(content, doc.Root.Children...)

	if tmpl.Fragment {
		return doctree.NewConcat(content...)
	}

	body := doctree.NewElement("body",
		background("bg1"),
		background("bg2"),
		doctree.NewElement("div", content...).WithAttr("class", quoted("content")),
	)

	return doctree.NewConcat(
		doctree.Text("<!DOCTYPE html>"),
		doctree.NewElement("html", head(doc, tmpl), body),
	)
}

// Render assembles doc and writes the page to w.
func Render(w io.Writer, doc *compiler.Document, tmpl Template) error {
	return doctree.Render(w, Assemble(doc, tmpl))
}

func head(doc *compiler.Document, tmpl Template) *doctree.Element {
	stylesheet := tmpl.Stylesheet
	if stylesheet == "" {
		stylesheet = DefaultStylesheet
	}

	h := doctree.NewElement("head",
		doctree.NewElement("meta").WithAttr("charset", quoted("utf-8")),
		doctree.NewElement("link").
			WithAttr("rel", quoted("stylesheet")).
			WithAttr("href", quoted(stylesheet)),
		doctree.NewElement("meta").
			WithAttr("name", quoted("viewport")).
			WithAttr("content", quoted("width=device-width, initial-scale=1.0")),
	)

	title, ok := doc.Get(MetaTitle)
	if !ok || title == "" {
		title = tmpl.Title
	}
	if title != "" {
		doctree.Append(h, doctree.NewElement("title", doctree.Text(title)))
	}

	return h
}

// background is a decorative div. Its single space keeps it from
// serializing as a self-closing tag, which HTML does not allow for div.
func background(id string) *doctree.Element {
	return doctree.NewElement("div", doctree.Text(" ")).
		WithAttr("class", quoted("bg")).
		WithAttr("id", quoted(id))
}

func quoted(s string) string {
	return `"` + s + `"`
}
