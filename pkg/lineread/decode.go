// ABOUTME: Incremental ECMA-48 decoder: classifies one input sequence at the head of a buffer.
// ABOUTME: Pure function; returns consumed=0 when the sequence may still be completed by more input.

package lineread

import "unicode/utf16"

const (
	esc = 0x1B
	del = 0x7F
)

// eventKind discriminates decoded input events.
type eventKind int

const (
	eventNone eventKind = iota // consumed without dispatch (malformed unit)
	eventCSI
	eventShift
	eventTwoByte
	eventControl
	eventRune
)

// event is one decoded input sequence.
type event struct {
	kind   eventKind
	params string // CSI parameter bytes (0x30-0x3F)
	final  string // CSI intermediate bytes plus the final byte
	set    int    // shift character set: 2 for SS2, 3 for SS3
	r      rune   // control unit, two-byte unit, shifted unit, or codepoint
}

// decode classifies the sequence at the head of buf. It returns the
// event and how many units it spans. consumed == 0 means the buffer
// holds an incomplete sequence that more input could finish; it is
// returned only while more is true. With more == false every buffer
// resolves, malformed input degrading to shorter interpretations and,
// in the last resort, to a one-unit skip with no event.
func decode(buf []rune, more bool) (ev event, consumed int) {
	c := buf[0]

	// Escape sequences first. A lone ESC with input still possibly on
	// the way is the grammar's one ambiguity: wait before deciding.
	if c == esc && len(buf) >= 2 {
		switch buf[1] {
		case '[': // CSI
			i := 2
			for i < len(buf) && isCSIParam(buf[i]) {
				i++
			}
			p := i
			for i < len(buf) && isCSIIntermediate(buf[i]) {
				i++
			}
			if i >= len(buf) {
				if more {
					return event{}, 0
				}
				// Truncated for good: reinterpret as a two-byte escape.
			} else if isCSIFinal(buf[i]) {
				return event{
					kind:   eventCSI,
					params: string(buf[2:p]),
					final:  string(buf[p : i+1]),
				}, i + 1
			}
			// Byte outside the final range: not a CSI after all.
		case 'N', 'O': // SS2 / SS3
			if len(buf) >= 3 {
				set := 2
				if buf[1] == 'O' {
					set = 3
				}
				return event{kind: eventShift, set: set, r: buf[2]}, 3
			}
			if more {
				return event{}, 0
			}
		}
		// Remaining C1 controls, independent functions, and
		// Meta-modified keys all take exactly one unit after ESC.
		return event{kind: eventTwoByte, r: buf[1]}, 2
	}
	if c == esc && more {
		return event{}, 0
	}

	// C0 controls and DEL. A lone ESC that nothing followed lands
	// here and dispatches as a plain control unit.
	if c < 0x20 || c == del {
		return event{kind: eventControl, r: c}, 1
	}

	// Codepoints, pairing UTF-16 surrogate halves when a source
	// delivers them. Broken halves are skipped without an event.
	if isHighSurrogate(c) {
		if len(buf) < 2 {
			if more {
				return event{}, 0
			}
			return event{}, 1 // pair start with no continuation: drop
		}
		if isLowSurrogate(buf[1]) {
			return event{kind: eventRune, r: utf16.DecodeRune(c, buf[1])}, 2
		}
		return event{}, 1
	}
	if isLowSurrogate(c) {
		return event{}, 1
	}
	return event{kind: eventRune, r: c}, 1
}

func isCSIParam(r rune) bool        { return r >= 0x30 && r <= 0x3F }
func isCSIIntermediate(r rune) bool { return r >= 0x20 && r <= 0x2F }
func isCSIFinal(r rune) bool        { return r >= 0x40 && r <= 0x7E }

// The utf16 package pairs surrogates but does not export the
// half-classification predicates, so they live here.
func isHighSurrogate(r rune) bool { return r >= 0xD800 && r < 0xDC00 }
func isLowSurrogate(r rune) bool  { return r >= 0xDC00 && r < 0xE000 }
