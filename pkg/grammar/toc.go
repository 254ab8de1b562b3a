package grammar

import "github.com/ZabraveniGeroi/blogc/pkg/doctree"

// TOC builds a nested list from headings using the same nesting as "-"
// lists, with depth Level-1. Heading text is tokenized and built again so
// inline markup renders; headings with an id link to it. The result depends
// only on headings.
func (g *Grammar) TOC(headings []Heading) *doctree.Element {
	ctx := g.NewContext()
	lists := newListStack()

	for _, h := range headings {
		content := ctx.Children(g.Tokenize(h.Text))
		if h.ID != "" {
			content = []doctree.Node{
				doctree.NewElement("a", content...).WithAttr("href", quoted("#"+h.ID)),
			}
		}
		lists.add(h.Level-1, doctree.NewElement("li", content...))
	}

	return lists.root()
}

// TOC builds a table of contents with the default grammar.
func TOC(headings []Heading) *doctree.Element {
	return Default().TOC(headings)
}
