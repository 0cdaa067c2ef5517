// ABOUTME: Defines the Terminal interface for raw mode, size queries, and output.
// ABOUTME: Abstracts terminal operations so callers can target real or virtual terminals.

package terminal

// Terminal abstracts the operations a line reader needs from its
// terminal: raw mode control, size queries, output writing, and
// resize notifications.
//
// EnterRaw and Restore are idempotent: entering raw mode while
// already raw and restoring an already-restored terminal are both
// no-ops. This lets callers bracket every read with a deferred
// Restore without tracking mode state themselves.
type Terminal interface {
	EnterRaw() error
	Restore() error
	Size() (width, height int, err error)
	Write(p []byte) (n int, err error)
	OnResize(fn func(width, height int))
}
