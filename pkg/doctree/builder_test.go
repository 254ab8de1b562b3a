package doctree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
)

func TestAppendPrepend(t *testing.T) {
	t.Parallel()

	el := doctree.NewElement("ul")
	doctree.Append(el, doctree.Text("b"), nil)
	doctree.Prepend(el, doctree.Text("a"))
	doctree.Append(el, doctree.Text("c"))

	assert.Equal(t, "<ul>abc</ul>", doctree.Serialize(el))

	// nil parent is ignored.
	doctree.Append(nil, doctree.Text("x"))
	doctree.Prepend(nil, doctree.Text("x"))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	body := doctree.NewElement("body", doctree.Text("1"), doctree.Text("2"))
	doctree.Wrap(body, doctree.NewElement("div").WithAttr("class", "content"))

	assert.Equal(t, "<body><div class=content>12</div></body>", doctree.Serialize(body))
}

func TestAttrAccessors(t *testing.T) {
	t.Parallel()

	el := doctree.NewElement("h1").WithAttr("id", `"x"`)
	v, ok := el.Attr("id")
	require.True(t, ok)
	assert.Equal(t, `"x"`, v)

	_, ok = el.Attr("class")
	assert.False(t, ok)

	el.SetAttr("id", `"y"`)
	el.SetAttr("class", `"show"`)
	assert.Equal(t, []doctree.Attr{{Key: "id", Value: `"y"`}, {Key: "class", Value: `"show"`}}, el.Attrs)
}

func TestClone(t *testing.T) {
	t.Parallel()

	orig := doctree.NewElement("div",
		doctree.NewElement("p", doctree.Text("x")).WithAttr("k", "v"),
		doctree.NewConcat(doctree.Comment("c")),
	)
	cp, ok := doctree.Clone(orig).(*doctree.Element)
	require.True(t, ok)
	assert.Equal(t, doctree.Serialize(orig), doctree.Serialize(cp))

	inner, ok := cp.Children[0].(*doctree.Element)
	require.True(t, ok)
	inner.SetAttr("k", "changed")
	doctree.Append(inner, doctree.Text("y"))

	assert.Equal(t, `<div><p k=v>x</p><!--c--></div>`, doctree.Serialize(orig))
}
