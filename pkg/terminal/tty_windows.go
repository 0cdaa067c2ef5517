// ABOUTME: Windows stub for TTY resize handling.
// ABOUTME: Placeholder; Windows does not use SIGWINCH signals.

//go:build windows

package terminal

// startResizeListener is a no-op on Windows.
// Windows terminal resize detection requires SetConsoleMode and
// ReadConsoleInput, which is left for future implementation.
func (t *TTY) startResizeListener() {
	// No-op: Windows resize detection is not yet implemented.
}
