package doctree

// Append adds children to the end of parent, skipping nils.
func Append(parent *Element, children ...Node) {
	if parent == nil {
		return
	}
	parent.Children = append(parent.Children, compact(children)...)
}

// Prepend adds children to the start of parent, preserving their order.
func Prepend(parent *Element, children ...Node) {
	if parent == nil {
		return
	}
	kids := compact(children)
	parent.Children = append(kids, parent.Children...)
}

// Wrap moves all of parent's children into wrapper and makes wrapper the only child.
func Wrap(parent, wrapper *Element) {
	if parent == nil || wrapper == nil {
		return
	}
	wrapper.Children = append(wrapper.Children, parent.Children...)
	parent.Children = []Node{wrapper}
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Element:
		if v == nil {
			return (*Element)(nil)
		}
		cp := &Element{Name: v.Name}
		if v.Attrs != nil {
			cp.Attrs = make([]Attr, len(v.Attrs))
			copy(cp.Attrs, v.Attrs)
		}
		for _, c := range v.Children {
			cp.Children = append(cp.Children, Clone(c))
		}
		return cp
	case *Concat:
		if v == nil {
			return (*Concat)(nil)
		}
		cp := &Concat{}
		for _, c := range v.Children {
			cp.Children = append(cp.Children, Clone(c))
		}
		return cp
	default:
		return n
	}
}

// Children returns the direct children of elements and concatenations, nil for leaves.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Element:
		return v.Children
	case *Concat:
		return v.Children
	default:
		return nil
	}
}
