// ABOUTME: ScriptSource replays a scripted mix of units, timeouts, and errors for tests.
// ABOUTME: Implements TimedSource so escape-timeout scenarios resolve without real waiting.

package lineread

import (
	"io"
	"sync"
	"time"
)

type stepKind int

const (
	stepUnit stepKind = iota
	stepTimeout
	stepErr
)

type scriptStep struct {
	kind stepKind
	r    rune
	err  error
}

// ScriptSource feeds a Reader an exact sequence of input units,
// interleaved with timeout expiries and errors, standing in for a
// terminal in tests. An exhausted script behaves like a terminal gone
// silent: bounded reads time out and blocking reads report io.EOF.
//
// The builder methods append steps and return the source, so scripts
// read in input order:
//
//	src := NewScriptSource().Text("ab").Timeout().Text("c\r")
type ScriptSource struct {
	mu    sync.Mutex
	steps []scriptStep
}

// NewScriptSource returns an empty script.
func NewScriptSource() *ScriptSource { return &ScriptSource{} }

// Text appends each rune of text as an input unit.
func (s *ScriptSource) Text(text string) *ScriptSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range text {
		s.steps = append(s.steps, scriptStep{kind: stepUnit, r: r})
	}
	return s
}

// Units appends raw units, including unpaired surrogate halves that
// no UTF-8 text can carry.
func (s *ScriptSource) Units(rs ...rune) *ScriptSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.steps = append(s.steps, scriptStep{kind: stepUnit, r: r})
	}
	return s
}

// Timeout makes the next bounded read expire before input arrives.
// Blocking reads wait through it to the following step.
func (s *ScriptSource) Timeout() *ScriptSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, scriptStep{kind: stepTimeout})
	return s
}

// Fail delivers err on the read that reaches it.
func (s *ScriptSource) Fail(err error) *ScriptSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, scriptStep{kind: stepErr, err: err})
	return s
}

// ReadUnit delivers the next unit or error, skipping timeout marks,
// and reports io.EOF once the script is exhausted.
func (s *ScriptSource) ReadUnit() (rune, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.steps) > 0 {
		st := s.steps[0]
		s.steps = s.steps[1:]
		switch st.kind {
		case stepTimeout:
			continue
		case stepErr:
			return 0, st.err
		default:
			return st.r, nil
		}
	}
	return 0, io.EOF
}

// Ready reports whether the next read would deliver without waiting.
func (s *ScriptSource) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps) > 0 && s.steps[0].kind != stepTimeout
}

// ReadUnitTimeout delivers the next unit or error. A leading timeout
// mark, or an exhausted script, consumes the budget instantly and
// returns ErrTimeout, keeping tests free of real delays. A
// non-positive budget reads like ReadUnit.
func (s *ScriptSource) ReadUnitTimeout(d time.Duration) (rune, error) {
	if d <= 0 {
		return s.ReadUnit()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.steps) == 0 {
		return 0, ErrTimeout
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	switch st.kind {
	case stepTimeout:
		return 0, ErrTimeout
	case stepErr:
		return 0, st.err
	default:
		return st.r, nil
	}
}
