// ABOUTME: Tests for Reader covering line completion, timeouts, interrupts, and EOF mapping.
// ABOUTME: Drives scripted sources through the full dispatch loop with a recording handler.

package lineread

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/mauromedda/lineread-go/pkg/terminal"
)

// compile-time checks: the sources must satisfy TimedSource.
var (
	_ TimedSource = (*ScriptSource)(nil)
	_ TimedSource = (*StreamSource)(nil)
)

// eventLog records every dispatched event while keeping the baseline
// line discipline via the embedded DefaultHandler.
type eventLog struct {
	DefaultHandler
	events []string
}

func (h *eventLog) HandleCSI(ln *Line, params, final string) {
	h.events = append(h.events, fmt.Sprintf("csi %q %q", params, final))
	h.DefaultHandler.HandleCSI(ln, params, final)
}

func (h *eventLog) HandleShift(ln *Line, set int, r rune) {
	h.events = append(h.events, fmt.Sprintf("shift %d %q", set, r))
	h.DefaultHandler.HandleShift(ln, set, r)
}

func (h *eventLog) HandleTwoByte(ln *Line, r rune) {
	h.events = append(h.events, fmt.Sprintf("twobyte %q", r))
	h.DefaultHandler.HandleTwoByte(ln, r)
}

func (h *eventLog) HandleControl(ln *Line, r rune) {
	h.events = append(h.events, fmt.Sprintf("control %#x", r))
	h.DefaultHandler.HandleControl(ln, r)
}

func (h *eventLog) HandleRune(ln *Line, r rune) {
	h.events = append(h.events, fmt.Sprintf("rune %q", r))
	h.DefaultHandler.HandleRune(ln, r)
}

// plainSource hides the script's timed read so the reader falls back
// to polling Ready.
type plainSource struct{ Source }

func TestReader_ReadsPlainLine(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("hello\r"))
	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadLine() = %q, want %q", got, "hello")
	}
}

func TestReader_EmptyLine(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("\r"))
	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("ReadLine() = %q, want empty line", got)
	}
}

func TestReader_SequentialLines(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("one\rtwo\r"))
	for _, want := range []string{"one", "two"} {
		got, err := rd.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine() unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine() = %q, want %q", got, want)
		}
	}
}

func TestReader_CtrlDOnEmptyLine(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("\x04"))
	got, err := rd.ReadLine()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("ReadLine() error = %v, want io.EOF", err)
	}
	if got != "" {
		t.Errorf("ReadLine() = %q, want empty", got)
	}
}

func TestReader_CtrlDOnPartialLineIgnored(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("ab\x04cd\r"))
	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "abcd" {
		t.Errorf("ReadLine() = %q, want %q", got, "abcd")
	}
}

func TestReader_BackspaceAndDelIgnoredByDefault(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("ab\x08\x7f\r"))
	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "ab" {
		t.Errorf("ReadLine() = %q, want %q", got, "ab")
	}
}

func TestReader_InterruptAbandonsLine(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("ab\x03ok\r"))
	if _, err := rd.ReadLine(); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("ReadLine() error = %v, want ErrInterrupted", err)
	}

	// The interrupt must not leak into the next call.
	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() after interrupt: %v", err)
	}
	if got != "ok" {
		t.Errorf("ReadLine() after interrupt = %q, want %q", got, "ok")
	}
}

func TestReader_CSIDispatched(t *testing.T) {
	t.Parallel()

	h := &eventLog{}
	rd := NewReader(NewScriptSource().Text("\x1b[1;2mx\r"))
	rd.SetHandler(h)

	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "x" {
		t.Errorf("ReadLine() = %q, want %q", got, "x")
	}
	want := []string{`csi "1;2" "m"`, `rune 'x'`, "control 0xd"}
	assertEvents(t, h.events, want)
}

func TestReader_ShiftDispatched(t *testing.T) {
	t.Parallel()

	h := &eventLog{}
	rd := NewReader(NewScriptSource().Text("\x1bOP\r"))
	rd.SetHandler(h)

	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("ReadLine() = %q, want empty (shift is not text)", got)
	}
	want := []string{`shift 3 'P'`, "control 0xd"}
	assertEvents(t, h.events, want)
}

func TestReader_LoneEscapeResolvesAfterTimeout(t *testing.T) {
	t.Parallel()

	h := &eventLog{}
	rd := NewReader(NewScriptSource().Text("\x1b").Timeout().Text("x\r"))
	rd.SetHandler(h)

	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "x" {
		t.Errorf("ReadLine() = %q, want %q", got, "x")
	}
	want := []string{"control 0x1b", `rune 'x'`, "control 0xd"}
	assertEvents(t, h.events, want)
}

func TestReader_ExpiredCSIDegrades(t *testing.T) {
	t.Parallel()

	h := &eventLog{}
	rd := NewReader(NewScriptSource().Text("\x1b[1;").Timeout().Text("\r"))
	rd.SetHandler(h)

	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	// The expired prefix degrades to a two-byte escape and the
	// leftover parameter units fall out as plain text.
	if got != "1;" {
		t.Errorf("ReadLine() = %q, want %q", got, "1;")
	}
	want := []string{`twobyte '['`, `rune '1'`, `rune ';'`, "control 0xd"}
	assertEvents(t, h.events, want)
}

func TestReader_SurrogatePairBecomesRune(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Units(0xD83D, 0xDC4B).Text("\r"))
	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "👋" {
		t.Errorf("ReadLine() = %q, want %q", got, "👋")
	}
}

func TestReader_DanglingHighSurrogateDropped(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Units(0xD83D))
	got, err := rd.ReadLine()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("ReadLine() error = %v, want io.EOF", err)
	}
	if got != "" {
		t.Errorf("ReadLine() = %q, want empty", got)
	}
}

func TestReader_EOFMidSequence(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("\x1b[").Fail(io.EOF))
	if _, err := rd.ReadLine(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadLine() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReader_EOFWithPartialLine(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("ab"))
	if _, err := rd.ReadLine(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("ReadLine() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReader_EOFBetweenLines(t *testing.T) {
	t.Parallel()

	rd := NewReader(NewScriptSource().Text("one\r"))
	got, err := rd.ReadLine()
	if err != nil || got != "one" {
		t.Fatalf("ReadLine() = %q, %v; want %q, nil", got, err, "one")
	}
	if _, err := rd.ReadLine(); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadLine() at end = %v, want io.EOF", err)
	}
}

func TestReader_SourceErrorWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("tty exploded")
	rd := NewReader(NewScriptSource().Fail(boom))
	_, err := rd.ReadLine()
	if !errors.Is(err, boom) {
		t.Fatalf("ReadLine() error = %v, want wrapped %v", err, boom)
	}
}

func TestReader_RawModeBracketsRead(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtual(80, 24)
	rd := NewReader(NewScriptSource().Text("x\r"))
	rd.SetTerminal(vt)

	if _, err := rd.ReadLine(); err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if vt.EnterCount() != 1 || vt.RestoreCount() != 1 {
		t.Errorf("raw transitions = enter %d, restore %d; want 1, 1",
			vt.EnterCount(), vt.RestoreCount())
	}
	if vt.IsRaw() {
		t.Error("terminal left in raw mode after ReadLine")
	}
}

func TestReader_RawModeRestoredOnInterrupt(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtual(80, 24)
	rd := NewReader(NewScriptSource().Text("\x03"))
	rd.SetTerminal(vt)

	if _, err := rd.ReadLine(); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("ReadLine() error = %v, want ErrInterrupted", err)
	}
	if vt.IsRaw() {
		t.Error("terminal left in raw mode after interrupted read")
	}
	if vt.RestoreCount() != 1 {
		t.Errorf("RestoreCount() = %d, want 1", vt.RestoreCount())
	}
}

func TestReader_EnterRawFailureFailsRead(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtual(80, 24)
	boom := errors.New("no tty")
	vt.FailEnter(boom)

	rd := NewReader(NewScriptSource().Text("x\r"))
	rd.SetTerminal(vt)

	if _, err := rd.ReadLine(); !errors.Is(err, boom) {
		t.Fatalf("ReadLine() error = %v, want %v", err, boom)
	}
	if vt.RestoreCount() != 0 {
		t.Errorf("RestoreCount() = %d, want 0 (raw was never entered)", vt.RestoreCount())
	}
}

func TestReader_RestoreFailureSurfaced(t *testing.T) {
	t.Parallel()

	vt := terminal.NewVirtual(80, 24)
	boom := errors.New("stuck raw")
	vt.FailRestore(boom)

	rd := NewReader(NewScriptSource().Text("x\r"))
	rd.SetTerminal(vt)

	got, err := rd.ReadLine()
	if !errors.Is(err, boom) {
		t.Fatalf("ReadLine() error = %v, want %v", err, boom)
	}
	if got != "x" {
		t.Errorf("ReadLine() = %q, want the completed line %q", got, "x")
	}
}

func TestReader_PollingFallbackWithoutTimedRead(t *testing.T) {
	t.Parallel()

	h := &eventLog{}
	src := plainSource{NewScriptSource().Text("\x1b").Timeout().Text("x\r")}
	rd := NewReader(src)
	rd.SetHandler(h)
	rd.SetEscapeTimeout(5 * time.Millisecond)

	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "x" {
		t.Errorf("ReadLine() = %q, want %q", got, "x")
	}
	want := []string{"control 0x1b", `rune 'x'`, "control 0xd"}
	assertEvents(t, h.events, want)
}

func TestReader_NonPositiveTimeoutBlocksThroughPauses(t *testing.T) {
	t.Parallel()

	h := &eventLog{}
	rd := NewReader(NewScriptSource().Text("\x1b").Timeout().Text("[A\r"))
	rd.SetHandler(h)
	rd.SetEscapeTimeout(0)

	got, err := rd.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine() unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("ReadLine() = %q, want empty", got)
	}
	// With no budget the pause is waited out, so the sequence
	// assembles instead of degrading.
	want := []string{`csi "" "A"`, "control 0xd"}
	assertEvents(t, h.events, want)
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dispatched %d events %v, want %d events %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
