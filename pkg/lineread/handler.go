// ABOUTME: Handler is the event surface a line discipline implements; one method per event class.
// ABOUTME: DefaultHandler supplies the baseline semantics; embed it and override selectively.

package lineread

// Handler receives decoded input events and mutates the Line.
// Implementations usually embed DefaultHandler and override only the
// events they care about, the way an editor overrides cursor keys.
type Handler interface {
	// HandleCSI receives a control sequence: the parameter bytes and
	// the intermediate bytes joined with the final byte.
	HandleCSI(ln *Line, params, final string)
	// HandleShift receives a character from shift set 2 (SS2) or 3 (SS3).
	HandleShift(ln *Line, set int, r rune)
	// HandleTwoByte receives the unit following a bare ESC: a C1
	// control, an independent function, or a Meta-modified key.
	HandleTwoByte(ln *Line, r rune)
	// HandleControl receives a C0 control unit or DEL.
	HandleControl(ln *Line, r rune)
	// HandleRune receives one complete text codepoint.
	HandleRune(ln *Line, r rune)
}

// DefaultHandler implements the baseline line discipline: Enter
// completes the line, Ctrl+D on an empty line signals end of input,
// Ctrl+C requests an interrupt, and codepoints accumulate in order.
// Every other event is ignored.
type DefaultHandler struct{}

var _ Handler = DefaultHandler{}

func (DefaultHandler) HandleCSI(*Line, string, string) {}

func (DefaultHandler) HandleShift(*Line, int, rune) {}

func (DefaultHandler) HandleTwoByte(*Line, rune) {}

func (DefaultHandler) HandleControl(ln *Line, r rune) {
	switch r {
	case '\r': // Enter
		ln.Done = true
	case 0x04: // Ctrl+D signals end of input, but only on an empty line
		if len(ln.Units) == 0 {
			ln.Done = true
			ln.EndOfInput = true
		}
	case 0x03: // Ctrl+C
		ln.Interrupted = true
	}
}

func (DefaultHandler) HandleRune(ln *Line, r rune) {
	ln.Units = append(ln.Units, r)
}
