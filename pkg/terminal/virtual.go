// ABOUTME: Virtual implements Terminal for testing without a real TTY.
// ABOUTME: Captures output in a buffer and tracks raw-mode enter/restore calls.

package terminal

import (
	"bytes"
	"fmt"
	"sync"
)

// Virtual is a fake Terminal for unit tests.
// It records written output, tracks raw-mode transitions, and can be
// told to fail mode changes to exercise error paths.
type Virtual struct {
	mu           sync.Mutex
	buf          bytes.Buffer
	width        int
	height       int
	raw          bool
	resizeFn     func(width, height int)
	enterCount   int
	restoreCount int
	enterErr     error
	restoreErr   error
}

// NewVirtual returns a Virtual terminal with the given dimensions.
func NewVirtual(width, height int) *Virtual {
	return &Virtual{
		width:  width,
		height: height,
	}
}

// EnterRaw records a raw-mode entry. Entering while already raw is a
// no-op and is not counted.
func (v *Virtual) EnterRaw() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.enterErr != nil {
		return v.enterErr
	}
	if v.raw {
		return nil
	}
	v.raw = true
	v.enterCount++
	return nil
}

// Restore records a raw-mode exit. Restoring while not raw is a no-op
// and is not counted.
func (v *Virtual) Restore() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.restoreErr != nil {
		return v.restoreErr
	}
	if !v.raw {
		return nil
	}
	v.raw = false
	v.restoreCount++
	return nil
}

// Size returns the configured terminal dimensions.
func (v *Virtual) Size() (width, height int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.width, v.height, nil
}

// Write appends data to the internal buffer.
func (v *Virtual) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	return n, nil
}

// OnResize stores the resize callback.
func (v *Virtual) OnResize(fn func(width, height int)) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resizeFn = fn
}

// --- Test helpers (not part of Terminal interface) ---

// Output returns everything written so far.
func (v *Virtual) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Reset clears the output buffer.
func (v *Virtual) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
}

// IsRaw reports whether raw mode is currently active.
func (v *Virtual) IsRaw() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.raw
}

// EnterCount returns how many effective raw-mode entries occurred.
func (v *Virtual) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.enterCount
}

// RestoreCount returns how many effective raw-mode exits occurred.
func (v *Virtual) RestoreCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.restoreCount
}

// FailEnter makes subsequent EnterRaw calls return err (nil to clear).
func (v *Virtual) FailEnter(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.enterErr = err
}

// FailRestore makes subsequent Restore calls return err (nil to clear).
func (v *Virtual) FailRestore(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.restoreErr = err
}

// SetSize updates the terminal dimensions and, if a resize callback
// is registered, invokes it with the new size.
func (v *Virtual) SetSize(width, height int) {
	v.mu.Lock()
	v.width = width
	v.height = height
	fn := v.resizeFn
	v.mu.Unlock()

	if fn != nil {
		fn(width, height)
	}
}
