// ABOUTME: Line accumulates the state of a single read: committed units and completion flags.
// ABOUTME: Handlers mutate it; the Reader watches the flags to finish or abandon the read.

package lineread

// Line is the state of one line being read. A fresh Line is created
// for every ReadLine call, so none of its flags carry over.
type Line struct {
	// Units holds the committed text units in order.
	Units []rune
	// Done marks the line complete.
	Done bool
	// EndOfInput marks a completed read as end of input rather than a
	// text line.
	EndOfInput bool
	// Interrupted requests cancellation. The Reader notices it before
	// decoding further input and abandons the line.
	Interrupted bool
}

// String returns the committed units joined as a string.
func (l *Line) String() string { return string(l.Units) }
