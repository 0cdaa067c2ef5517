// ABOUTME: Reader drives the decode loop: pending buffer, escape timeouts, and event dispatch.
// ABOUTME: ReadLine brackets terminal raw mode and maps line outcomes onto Go error conventions.

package lineread

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mauromedda/lineread-go/pkg/terminal"
)

// ErrInterrupted reports that the user aborted the read with Ctrl+C.
var ErrInterrupted = errors.New("interrupted")

// Reader reads one line at a time from a Source, decoding ECMA-48
// control sequences incrementally and dispatching each event to its
// Handler. A Reader is reusable across calls but not safe for
// concurrent use.
type Reader struct {
	src        Source
	handler    Handler
	term       terminal.Terminal
	escTimeout time.Duration

	buf   []rune // pending units, oldest first
	atEnd bool   // no further input can extend buf this round
}

// NewReader returns a Reader over src with the baseline
// DefaultHandler and the default escape timeout. No terminal is
// attached, so no mode switching happens; attach one with
// SetTerminal for interactive use.
func NewReader(src Source) *Reader {
	return &Reader{
		src:        src,
		handler:    DefaultHandler{},
		escTimeout: DefaultEscapeTimeout,
	}
}

// SetHandler replaces the event handler for subsequent reads.
func (r *Reader) SetHandler(h Handler) { r.handler = h }

// SetTerminal attaches a terminal whose raw mode brackets each read.
func (r *Reader) SetTerminal(t terminal.Terminal) { r.term = t }

// SetEscapeTimeout adjusts how long an ambiguous escape sequence
// waits for its continuation. Non-positive waits indefinitely, which
// makes a lone ESC press indistinguishable from a sequence start.
func (r *Reader) SetEscapeTimeout(d time.Duration) { r.escTimeout = d }

// ReadLine reads and returns one line.
//
// It returns io.EOF at end of input (Ctrl+D on an empty line, or the
// source ending between lines), io.ErrUnexpectedEOF when the source
// ends with uncommitted input (mid-sequence or mid-line), and
// ErrInterrupted when the user aborts with Ctrl+C. An interrupt does
// not carry over: the next call starts clean.
//
// If a terminal is attached, raw mode is entered before the first
// read and restored on every return path; both transitions are
// idempotent and a failure of either fails the call.
func (r *Reader) ReadLine() (_ string, err error) {
	if r.term != nil {
		if terr := r.term.EnterRaw(); terr != nil {
			return "", terr
		}
		defer func() {
			if terr := r.term.Restore(); terr != nil && err == nil {
				err = terr
			}
		}()
	}

	ln := &Line{}
	r.buf = r.buf[:0]
	r.atEnd = false

	for !ln.Done {
		if ln.Interrupted {
			return "", ErrInterrupted
		}
		if err := r.processOnce(ln); err != nil {
			return "", err
		}
	}
	if ln.EndOfInput {
		return "", io.EOF
	}
	return ln.String(), nil
}

// processOnce advances the read by one decoded event: it tops up the
// pending buffer as the decoder requires, then consumes and
// dispatches exactly one resolution. Leftover units stay buffered for
// the next call.
func (r *Reader) processOnce(ln *Line) error {
	// An empty buffer starts fresh with a plain blocking read.
	if len(r.buf) == 0 {
		u, err := r.src.ReadUnit()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(ln.Units) == 0 {
					ln.Done = true
					ln.EndOfInput = true
					return nil
				}
				return io.ErrUnexpectedEOF
			}
			return fmt.Errorf("reading input: %w", err)
		}
		r.buf = append(r.buf, u)
		r.atEnd = false
	}

	// Ask the decoder until it resolves, feeding it one bounded read
	// per inconclusive answer. Expiry of the budget commits the
	// decoder to the units it has.
	for {
		ev, n := decode(r.buf, !r.atEnd)
		if n > 0 {
			r.buf = r.buf[n:]
			r.dispatch(ln, ev)
			return nil
		}
		if r.atEnd {
			panic("lineread: decoder made no progress on finished input")
		}
		u, err := readWithTimeout(r.src, r.escTimeout)
		switch {
		case errors.Is(err, ErrTimeout):
			r.atEnd = true
		case errors.Is(err, io.EOF):
			r.atEnd = true
			return io.ErrUnexpectedEOF
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		default:
			r.buf = append(r.buf, u)
		}
	}
}

// dispatch routes one decoded event to the handler.
func (r *Reader) dispatch(ln *Line, ev event) {
	switch ev.kind {
	case eventCSI:
		r.handler.HandleCSI(ln, ev.params, ev.final)
	case eventShift:
		r.handler.HandleShift(ln, ev.set, ev.r)
	case eventTwoByte:
		r.handler.HandleTwoByte(ln, ev.r)
	case eventControl:
		r.handler.HandleControl(ln, ev.r)
	case eventRune:
		r.handler.HandleRune(ln, ev.r)
	case eventNone:
		// Malformed unit skipped; nothing to deliver.
	}
}
