// ABOUTME: Generic bounded stack of pre-mutation state snapshots
// ABOUTME: Oldest snapshots are evicted at the depth limit; Clear resets between lines

package undo

// Stack holds snapshots of type S taken before each mutation, newest
// last.
type Stack[S any] struct {
	states []S
	limit  int
}

// New returns a Stack that keeps at most limit snapshots.
func New[S any](limit int) *Stack[S] {
	return &Stack[S]{
		states: make([]S, 0, limit),
		limit:  limit,
	}
}

// Push records a snapshot, evicting the oldest once the limit is hit.
func (s *Stack[S]) Push(state S) {
	if len(s.states) >= s.limit {
		s.states = s.states[1:]
	}
	s.states = append(s.states, state)
}

// Undo pops the most recent snapshot. The second return is false when
// there is nothing to undo.
func (s *Stack[S]) Undo() (S, bool) {
	if len(s.states) == 0 {
		var zero S
		return zero, false
	}
	last := s.states[len(s.states)-1]
	s.states = s.states[:len(s.states)-1]
	return last, true
}

// CanUndo reports whether any snapshot remains.
func (s *Stack[S]) CanUndo() bool {
	return len(s.states) > 0
}

// Depth returns the number of undoable snapshots.
func (s *Stack[S]) Depth() int {
	return len(s.states)
}

// Clear drops all history. Editors call this when a new line begins.
func (s *Stack[S]) Clear() {
	s.states = s.states[:0]
}
