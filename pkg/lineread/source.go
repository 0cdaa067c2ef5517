// ABOUTME: Source abstractions delivering terminal input one unit at a time with bounded waits.
// ABOUTME: StreamSource adapts an io.Reader via a pump goroutine so readiness can be checked.

package lineread

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"time"
)

const (
	// DefaultEscapeTimeout bounds the wait for the continuation of an
	// ambiguous escape sequence before it resolves as a lone ESC press.
	DefaultEscapeTimeout = 70 * time.Millisecond

	// pollInterval is the readiness polling granularity for sources
	// without a native timed read.
	pollInterval = time.Millisecond

	streamBufSize = 256
)

// ErrTimeout reports that a bounded read found no input within its
// budget. TimedSource implementations return it from ReadUnitTimeout.
var ErrTimeout = errors.New("timed out waiting for input")

// Source delivers input units to a Reader.
type Source interface {
	// ReadUnit blocks until a unit is available. It returns io.EOF at
	// end of input.
	ReadUnit() (rune, error)
	// Ready reports whether ReadUnit would return without blocking.
	Ready() bool
}

// TimedSource is implemented by sources that can bound a read with a
// deadline natively instead of being polled through Ready.
type TimedSource interface {
	Source
	// ReadUnitTimeout behaves like ReadUnit but gives up after d and
	// returns ErrTimeout. A non-positive d waits indefinitely.
	ReadUnitTimeout(d time.Duration) (rune, error)
}

// readWithTimeout reads one unit from src, waiting at most d. It uses
// the source's own timed read when available and otherwise polls
// Ready at millisecond granularity. A non-positive d blocks.
func readWithTimeout(src Source, d time.Duration) (rune, error) {
	if ts, ok := src.(TimedSource); ok {
		return ts.ReadUnitTimeout(d)
	}
	if d <= 0 {
		return src.ReadUnit()
	}
	deadline := time.Now().Add(d)
	for {
		if src.Ready() {
			return src.ReadUnit()
		}
		if !time.Now().Before(deadline) {
			return 0, ErrTimeout
		}
		time.Sleep(pollInterval)
	}
}

// streamItem carries one decoded rune or a terminating error.
type streamItem struct {
	r   rune
	err error
}

// StreamSource adapts an io.Reader (a raw-mode stdin, a pty slave)
// into a TimedSource. A pump goroutine decodes UTF-8 runes into a
// buffered channel, so readiness checks and bounded reads need no
// platform-specific select support. Close stops the pump; the
// underlying reader is left open.
type StreamSource struct {
	ch   chan streamItem
	done chan struct{}

	mu      sync.Mutex
	pending *streamItem
	closed  bool
}

// NewStreamSource starts reading from r in the background and returns
// the source.
func NewStreamSource(r io.Reader) *StreamSource {
	s := &StreamSource{
		ch:   make(chan streamItem, streamBufSize),
		done: make(chan struct{}),
	}
	go s.pump(r)
	return s
}

// pump decodes runes from r until an error, forwarding each on the
// channel. It stops when done is closed, preventing goroutine leaks
// once the source is abandoned.
func (s *StreamSource) pump(r io.Reader) {
	defer close(s.ch)
	br := bufio.NewReader(r)
	for {
		ru, _, err := br.ReadRune()
		if err != nil {
			select {
			case s.ch <- streamItem{err: err}:
			case <-s.done:
			}
			return
		}
		select {
		case s.ch <- streamItem{r: ru}:
		case <-s.done:
			return
		}
	}
}

// take returns and clears the pending item, if any.
func (s *StreamSource) take() *streamItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.pending
	s.pending = nil
	return it
}

// ReadUnit blocks until the pump delivers a unit or the stream ends.
func (s *StreamSource) ReadUnit() (rune, error) {
	if it := s.take(); it != nil {
		return it.r, it.err
	}
	it, ok := <-s.ch
	if !ok {
		return 0, io.EOF
	}
	return it.r, it.err
}

// Ready reports whether a unit (or the stream's end) is already
// available. A positive answer is held as a pending item so the next
// read cannot miss it.
func (s *StreamSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return true
	}
	select {
	case it, ok := <-s.ch:
		if !ok {
			s.pending = &streamItem{err: io.EOF}
		} else {
			s.pending = &it
		}
		return true
	default:
		return false
	}
}

// ReadUnitTimeout reads one unit, giving up with ErrTimeout after d.
func (s *StreamSource) ReadUnitTimeout(d time.Duration) (rune, error) {
	if it := s.take(); it != nil {
		return it.r, it.err
	}
	if d <= 0 {
		return s.ReadUnit()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case it, ok := <-s.ch:
		if !ok {
			return 0, io.EOF
		}
		return it.r, it.err
	case <-t.C:
		return 0, ErrTimeout
	}
}

// Close stops the pump goroutine. The underlying reader is not
// closed. Safe to call more than once.
func (s *StreamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return nil
}
