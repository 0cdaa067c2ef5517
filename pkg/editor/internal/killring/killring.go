// ABOUTME: Emacs-style kill ring holding text removed by kill commands
// ABOUTME: Consecutive kills merge into one entry; yank and yank-pop cycle the ring

package killring

const defaultCapacity = 32

// Ring is a fixed-capacity ring of killed text. The newest entry is
// the yank target; YankPop walks toward older entries.
type Ring struct {
	entries []string
	pos     int // next slot to overwrite once the ring is full
	cap     int
	yankIdx int
}

// New returns an empty Ring with the default capacity.
func New() *Ring {
	return &Ring{
		entries: make([]string, 0, defaultCapacity),
		cap:     defaultCapacity,
	}
}

// Push stores text as a fresh kill.
func (r *Ring) Push(text string) {
	if len(r.entries) < r.cap {
		r.entries = append(r.entries, text)
	} else {
		r.entries[r.pos] = text
	}
	r.pos = (r.pos + 1) % r.cap
	r.yankIdx = r.pos
}

// Append extends the newest kill at its end. A kill that continues a
// previous forward kill (Ctrl+K, Alt+D) accumulates this way instead
// of occupying a separate slot. On an empty ring it behaves as Push.
func (r *Ring) Append(text string) {
	if len(r.entries) == 0 {
		r.Push(text)
		return
	}
	r.entries[r.newest()] += text
}

// Prepend extends the newest kill at its start, for kills that eat
// backward (Ctrl+U, Ctrl+W).
func (r *Ring) Prepend(text string) {
	if len(r.entries) == 0 {
		r.Push(text)
		return
	}
	idx := r.newest()
	r.entries[idx] = text + r.entries[idx]
}

// Yank returns the newest kill, or "" when nothing was killed yet.
func (r *Ring) Yank() string {
	if len(r.entries) == 0 {
		return ""
	}
	r.yankIdx = r.newest()
	return r.entries[r.yankIdx]
}

// YankPop returns the next older kill, wrapping at the oldest. Call
// only after Yank.
func (r *Ring) YankPop() string {
	if len(r.entries) == 0 {
		return ""
	}
	r.yankIdx = (r.yankIdx - 1 + len(r.entries)) % len(r.entries)
	return r.entries[r.yankIdx]
}

// Len returns the number of kills held.
func (r *Ring) Len() int {
	return len(r.entries)
}

func (r *Ring) newest() int {
	return (r.pos - 1 + len(r.entries)) % len(r.entries)
}
