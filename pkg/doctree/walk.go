package doctree

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error, the walk stops and returns it.
func Walk(root Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for _, child := range Children(root) {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all elements matching the predicate, in document order.
func FindAll(root Node, predicate func(e *Element) bool) []*Element {
	var result []*Element

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n Node) error {
		if e, ok := n.(*Element); ok && predicate(e) {
			result = append(result, e)
		}
		return nil
	})

	return result
}

// FindFirst returns the first element matching the predicate, or nil.
func FindFirst(root Node, predicate func(e *Element) bool) *Element {
	var found *Element

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(n Node) error {
		if e, ok := n.(*Element); ok && predicate(e) {
			found = e
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByName returns all elements with the given tag name.
func FindByName(root Node, name string) []*Element {
	return FindAll(root, func(e *Element) bool {
		return e.Name == name
	})
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
