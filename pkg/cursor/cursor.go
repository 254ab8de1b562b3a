// Package cursor provides a rewindable read position over an immutable slice.
// The tokenizer walks runes with it and the rule engine walks tokens with it.
package cursor

// Cursor is a position into a backing slice that is never modified.
// The zero value is not usable; create one with New.
type Cursor[T any] struct {
	items []T
	pos   int
}

// New returns a cursor positioned at the start of items.
func New[T any](items []T) *Cursor[T] {
	return &Cursor[T]{items: items}
}

// Read returns the next n items and advances past them.
// Near the end of the slice fewer than n items may be returned; the position
// still advances by n so that a matching Back(n) restores it exactly.
func (c *Cursor[T]) Read(n int) []T {
	start := c.pos
	c.pos += n
	if start >= len(c.items) {
		return nil
	}
	end := c.pos
	if end > len(c.items) {
		end = len(c.items)
	}
	return c.items[start:end]
}

// Next reads a single item. ok is false when the cursor was already exhausted,
// in which case the position is left unchanged.
func (c *Cursor[T]) Next() (item T, ok bool) {
	if c.Ended() {
		return item, false
	}
	item = c.items[c.pos]
	c.pos++
	return item, true
}

// Back rewinds the cursor by n items. It never moves before the start.
func (c *Cursor[T]) Back(n int) {
	c.pos -= n
	if c.pos < 0 {
		c.pos = 0
	}
}

// Ended reports whether every item has been read.
func (c *Cursor[T]) Ended() bool {
	return c.pos >= len(c.items)
}

// Pos returns the current position.
func (c *Cursor[T]) Pos() int {
	return c.pos
}

// Seek moves the cursor to an absolute position previously returned by Pos.
func (c *Cursor[T]) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	c.pos = pos
}

// Len returns the length of the backing slice.
func (c *Cursor[T]) Len() int {
	return len(c.items)
}

// Slice returns the items in [from, to), clamped to the backing slice.
func (c *Cursor[T]) Slice(from, to int) []T {
	if from < 0 {
		from = 0
	}
	if to > len(c.items) {
		to = len(c.items)
	}
	if from >= to {
		return nil
	}
	return c.items[from:to]
}
