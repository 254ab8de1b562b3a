// Package doctree provides the generic structured-document tree produced by
// the blogc compiler: tagged elements, text and comment leaves, and
// concatenations, together with their serialization.
package doctree

// Node is one of *Element, Text, Comment or *Concat. The set is closed.
type Node interface {
	node()
}

// Attr is a single element attribute. Values are written verbatim, so
// callers quote and escape them before construction.
type Attr struct {
	Key   string
	Value string
}

// Element is a tagged node with ordered attributes and owned children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// Text is a literal content leaf.
type Text string

// Comment is a leaf rendered as an HTML comment.
type Comment string

// Concat joins its children with no wrapper and no separator.
type Concat struct {
	Children []Node
}

func (*Element) node() {}
func (Text) node()     {}
func (Comment) node()  {}
func (*Concat) node()  {}

// NewElement creates an element with the given children.
func NewElement(name string, children ...Node) *Element {
	return &Element{Name: name, Children: compact(children)}
}

// NewConcat creates a concatenation of nodes.
func NewConcat(children ...Node) *Concat {
	return &Concat{Children: compact(children)}
}

// WithAttr appends an attribute and returns the element for chaining.
func (e *Element) WithAttr(key, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
	return e
}

// Attr returns the value of the first attribute named key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the value of key, appending it when absent.
func (e *Element) SetAttr(key, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: value})
}

// HasChildren returns true if the element has any children.
func (e *Element) HasChildren() bool {
	return len(e.Children) > 0
}

// compact drops nil entries so callers can pass optional nodes.
func compact(nodes []Node) []Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
