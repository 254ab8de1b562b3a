package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/grammar"
)

func TestTOC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		headings []grammar.Heading
		want     string
	}{
		{
			name:     "empty",
			headings: nil,
			want:     "<ul/>",
		},
		{
			name: "nests second heading under first",
			headings: []grammar.Heading{
				{Level: 1, Text: "A"},
				{Level: 2, Text: "B"},
				{Level: 1, Text: "C"},
			},
			want: "<ul><li>A</li><ul><li>B</li></ul><li>C</li></ul>",
		},
		{
			name: "ids become links",
			headings: []grammar.Heading{
				{Level: 1, Text: "Intro", ID: "intro"},
			},
			want: `<ul><li><a href="#intro">Intro</a></li></ul>`,
		},
		{
			name: "markup in heading text renders",
			headings: []grammar.Heading{
				{Level: 2, Text: "*deep*"},
			},
			want: "<ul><ul><li><i>deep</i></li></ul></ul>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, doctree.Serialize(grammar.TOC(tt.headings)))
		})
	}
}

func TestTOCFromDocument(t *testing.T) {
	t.Parallel()

	g := grammar.Default()
	_, ctx := build(t, g, "# One\n## Two\n# Three")

	first := doctree.Serialize(g.TOC(ctx.Headings))
	second := doctree.Serialize(g.TOC(ctx.Headings))

	assert.Equal(t, "<ul><li>One</li><ul><li>Two</li></ul><li>Three</li></ul>", first)
	assert.Equal(t, first, second)
}
