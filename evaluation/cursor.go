package evaluation

import "github.com/pkg/errors"

// Cursor walks an ordered sequence of images.
//
// Next and Prev wrap around. In auto mode Advance moves forward one image at
// a time and reports false once the last image has been visited.
type Cursor struct {
	index int
	n     int
	auto  bool
}

// NewCursor creates a cursor over n images starting at index 0.
func NewCursor(n int) *Cursor {
	return &Cursor{n: n}
}

// Index returns the current position.
func (c *Cursor) Index() int {
	return c.index
}

// Len returns the number of images.
func (c *Cursor) Len() int {
	return c.n
}

// Next moves forward, wrapping after the last image.
func (c *Cursor) Next() {
	if c.n > 0 {
		c.index = (c.index + 1) % c.n
	}
}

// Prev moves backward, wrapping before the first image.
func (c *Cursor) Prev() {
	if c.n > 0 {
		c.index = (c.index - 1 + c.n) % c.n
	}
}

// Jump moves to index i.
func (c *Cursor) Jump(i int) error {
	if i < 0 || i >= c.n {
		return errors.Errorf("index %d out of range [0, %d)", i, c.n)
	}
	c.index = i
	return nil
}

// Auto reports whether auto-advance is on.
func (c *Cursor) Auto() bool {
	return c.auto
}

// SetAuto turns auto-advance on or off.
func (c *Cursor) SetAuto(on bool) {
	c.auto = on
}

// ToggleAuto flips auto-advance.
func (c *Cursor) ToggleAuto() {
	c.auto = !c.auto
}

// AtEnd reports whether the cursor is on the last image.
func (c *Cursor) AtEnd() bool {
	return c.index+1 >= c.n
}

// Advance moves forward without wrapping. It returns false, leaving the
// cursor in place, when already on the last image.
func (c *Cursor) Advance() bool {
	if c.AtEnd() {
		return false
	}
	c.index++
	return true
}
