// ABOUTME: TTY implements Terminal on top of real file descriptors using golang.org/x/term.
// ABOUTME: Tracks raw-mode state for idempotent enter/restore and delegates resize handling.

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// TTY is a real terminal backed by a pair of files and x/term.
// Input is the descriptor switched to raw mode; output receives
// writes and answers size queries. Passing an opened pty slave for
// both sides makes TTY usable in integration tests.
type TTY struct {
	in  *os.File
	out *os.File

	mu       sync.Mutex
	saved    *term.State
	resizeFn func(width, height int)
}

// NewTTY returns a TTY reading from in and writing to out.
func NewTTY(in, out *os.File) *TTY {
	return &TTY{in: in, out: out}
}

// Stdio returns a TTY bound to the process's stdin and stdout.
func Stdio() *TTY {
	return NewTTY(os.Stdin, os.Stdout)
}

// EnterRaw switches the input descriptor to raw mode, saving the
// previous state. Calling it again while raw is a no-op.
func (t *TTY) EnterRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.saved = state
	return nil
}

// Restore returns the input descriptor to the state saved by
// EnterRaw. Calling it when not in raw mode is a no-op.
func (t *TTY) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.saved == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.saved); err != nil {
		return fmt.Errorf("restoring terminal mode: %w", err)
	}
	t.saved = nil
	return nil
}

// Size returns the current terminal dimensions.
func (t *TTY) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends bytes to the output descriptor.
func (t *TTY) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}

// OnResize registers a callback invoked when the terminal is resized.
// Platform-specific signal handling is set up by startResizeListener.
func (t *TTY) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	t.startResizeListener()
}
