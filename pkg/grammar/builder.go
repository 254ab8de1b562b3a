package grammar

import (
	"github.com/ZabraveniGeroi/blogc/pkg/cursor"
	"github.com/ZabraveniGeroi/blogc/pkg/doctree"
	"github.com/ZabraveniGeroi/blogc/pkg/token"
)

// Build runs the dispatch loop over tokens and returns a "body" element
// holding the produced nodes.
//
// At each position the rules are tried in order. The first match is handed
// to its builder and the cursor steps back by the rule's rewind count, but
// never so far that the loop stops advancing. Where nothing matches, the
// current token is emitted as text. Builders call Build again on captured
// runs; past the grammar's depth ceiling the run is emitted as literal text.
func (ctx *Context) Build(tokens []token.Token) *doctree.Element {
	body := doctree.NewElement("body")

	ctx.depth++
	defer func() { ctx.depth-- }()

	if ctx.depth > ctx.grammar.maxDepth {
		if len(tokens) > 0 {
			doctree.Append(body, doctree.Text(token.Join(tokens)))
		}
		return body
	}

	cur := cursor.New(tokens)
	for !cur.Ended() {
		start := cur.Pos()

		if node, back, ok := ctx.dispatch(cur); ok {
			doctree.Append(body, node)
			cur.Back(back)
			if cur.Pos() <= start {
				cur.Seek(start + 1)
			}
			continue
		}

		tok, _ := cur.Next()
		doctree.Append(body, doctree.Text(tok.Text))
	}

	return body
}

// Children builds tokens and returns the produced nodes without the wrapper.
func (ctx *Context) Children(tokens []token.Token) []doctree.Node {
	return ctx.Build(tokens).Children
}

func (ctx *Context) dispatch(cur *cursor.Cursor[token.Token]) (doctree.Node, int, bool) {
	for _, r := range ctx.grammar.rules {
		capture, ok := r.Pattern.Match(cur)
		if !ok {
			continue
		}
		return r.Build(ctx, capture), r.Pattern.Rewind(), true
	}
	return nil, 0, false
}

// listStack nests unordered lists by depth. Depth 0 items go into the root;
// a deeper item opens nested lists inside the current one and a shallower
// item closes them again.
type listStack struct {
	stack []*doctree.Element
}

func newListStack() *listStack {
	return &listStack{stack: []*doctree.Element{doctree.NewElement("ul")}}
}

func (s *listStack) add(depth int, item doctree.Node) {
	if depth < 0 {
		depth = 0
	}
	for len(s.stack) > depth+1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
	for len(s.stack) < depth+1 {
		nested := doctree.NewElement("ul")
		doctree.Append(s.top(), nested)
		s.stack = append(s.stack, nested)
	}
	doctree.Append(s.top(), item)
}

func (s *listStack) top() *doctree.Element {
	return s.stack[len(s.stack)-1]
}

func (s *listStack) root() *doctree.Element {
	return s.stack[0]
}
