// ABOUTME: Tests for the incremental ECMA-48 decoder across every sequence class.
// ABOUTME: Covers resolution boundaries, degradation on expiry, and surrogate handling.

package lineread

import "testing"

func TestDecode_Sequences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		buf          []rune
		more         bool
		wantEvent    event
		wantConsumed int
	}{
		{
			name:         "plain ascii rune",
			buf:          []rune("a"),
			more:         true,
			wantEvent:    event{kind: eventRune, r: 'a'},
			wantConsumed: 1,
		},
		{
			name:         "multibyte rune",
			buf:          []rune("é"),
			more:         false,
			wantEvent:    event{kind: eventRune, r: 'é'},
			wantConsumed: 1,
		},
		{
			name:         "cjk rune",
			buf:          []rune("你好"),
			more:         true,
			wantEvent:    event{kind: eventRune, r: '你'},
			wantConsumed: 1,
		},
		{
			name:         "control unit",
			buf:          []rune{0x01, 'x'},
			more:         true,
			wantEvent:    event{kind: eventControl, r: 0x01},
			wantConsumed: 1,
		},
		{
			name:         "carriage return",
			buf:          []rune("\r"),
			more:         true,
			wantEvent:    event{kind: eventControl, r: '\r'},
			wantConsumed: 1,
		},
		{
			name:         "del is a control",
			buf:          []rune{del},
			more:         true,
			wantEvent:    event{kind: eventControl, r: del},
			wantConsumed: 1,
		},
		{
			name:         "lone esc still ambiguous",
			buf:          []rune{esc},
			more:         true,
			wantConsumed: 0,
		},
		{
			name:         "lone esc after expiry is a control",
			buf:          []rune{esc},
			more:         false,
			wantEvent:    event{kind: eventControl, r: esc},
			wantConsumed: 1,
		},
		{
			name:         "csi without params",
			buf:          []rune("\x1b[A"),
			more:         true,
			wantEvent:    event{kind: eventCSI, final: "A"},
			wantConsumed: 3,
		},
		{
			name:         "csi with params",
			buf:          []rune("\x1b[1;2m"),
			more:         true,
			wantEvent:    event{kind: eventCSI, params: "1;2", final: "m"},
			wantConsumed: 6,
		},
		{
			name:         "csi with intermediate",
			buf:          []rune("\x1b[0 q"),
			more:         true,
			wantEvent:    event{kind: eventCSI, params: "0", final: " q"},
			wantConsumed: 5,
		},
		{
			name:         "csi lowest final byte",
			buf:          []rune("\x1b[@"),
			more:         true,
			wantEvent:    event{kind: eventCSI, final: "@"},
			wantConsumed: 3,
		},
		{
			name:         "csi highest final byte",
			buf:          []rune("\x1b[~"),
			more:         true,
			wantEvent:    event{kind: eventCSI, final: "~"},
			wantConsumed: 3,
		},
		{
			name:         "csi trailing input stays",
			buf:          []rune("\x1b[Bxyz"),
			more:         true,
			wantEvent:    event{kind: eventCSI, final: "B"},
			wantConsumed: 3,
		},
		{
			name:         "csi incomplete waits",
			buf:          []rune("\x1b[1;"),
			more:         true,
			wantConsumed: 0,
		},
		{
			name:         "csi incomplete after expiry degrades",
			buf:          []rune("\x1b[1;"),
			more:         false,
			wantEvent:    event{kind: eventTwoByte, r: '['},
			wantConsumed: 2,
		},
		{
			name: "csi invalid final resolves immediately",
			// 0x1F can never be a final byte, so waiting is pointless.
			buf:          []rune{esc, '[', 0x1F},
			more:         true,
			wantEvent:    event{kind: eventTwoByte, r: '['},
			wantConsumed: 2,
		},
		{
			name:         "ss2",
			buf:          []rune("\x1bNx"),
			more:         true,
			wantEvent:    event{kind: eventShift, set: 2, r: 'x'},
			wantConsumed: 3,
		},
		{
			name:         "ss3",
			buf:          []rune("\x1bOP"),
			more:         true,
			wantEvent:    event{kind: eventShift, set: 3, r: 'P'},
			wantConsumed: 3,
		},
		{
			name:         "ss2 incomplete waits",
			buf:          []rune("\x1bN"),
			more:         true,
			wantConsumed: 0,
		},
		{
			name:         "ss2 incomplete after expiry degrades",
			buf:          []rune("\x1bN"),
			more:         false,
			wantEvent:    event{kind: eventTwoByte, r: 'N'},
			wantConsumed: 2,
		},
		{
			name:         "meta modified key",
			buf:          []rune("\x1ba"),
			more:         true,
			wantEvent:    event{kind: eventTwoByte, r: 'a'},
			wantConsumed: 2,
		},
		{
			name:         "surrogate pair combines",
			buf:          []rune{0xD83D, 0xDC4B},
			more:         true,
			wantEvent:    event{kind: eventRune, r: 0x1F44B},
			wantConsumed: 2,
		},
		{
			name:         "high surrogate alone waits",
			buf:          []rune{0xD83D},
			more:         true,
			wantConsumed: 0,
		},
		{
			name:         "high surrogate at end of input is dropped",
			buf:          []rune{0xD83D},
			more:         false,
			wantEvent:    event{kind: eventNone},
			wantConsumed: 1,
		},
		{
			name:         "high surrogate without low is skipped",
			buf:          []rune{0xD83D, 'a'},
			more:         true,
			wantEvent:    event{kind: eventNone},
			wantConsumed: 1,
		},
		{
			name:         "stray low surrogate is skipped",
			buf:          []rune{0xDC4B, 'a'},
			more:         true,
			wantEvent:    event{kind: eventNone},
			wantConsumed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev, n := decode(tt.buf, tt.more)
			if n != tt.wantConsumed {
				t.Fatalf("decode() consumed %d, want %d", n, tt.wantConsumed)
			}
			if n > len(tt.buf) {
				t.Fatalf("decode() consumed %d units from a buffer of %d", n, len(tt.buf))
			}
			if n > 0 && ev != tt.wantEvent {
				t.Errorf("decode() = %+v, want %+v", ev, tt.wantEvent)
			}
		})
	}
}

// Growing a sequence one unit at a time must stay inconclusive at
// every proper prefix and then resolve exactly like the one-shot
// buffer, so chunking can never change what gets dispatched.
func TestDecode_PrefixGrowthMatchesOneShot(t *testing.T) {
	t.Parallel()

	sequences := [][]rune{
		[]rune("\x1b[A"),
		[]rune("\x1b[1;2m"),
		[]rune("\x1b[0 q"),
		[]rune("\x1bNx"),
		[]rune("\x1bOP"),
		{0xD83D, 0xDC4B},
	}

	for _, seq := range sequences {
		t.Run(string(seq), func(t *testing.T) {
			t.Parallel()
			for end := 1; end < len(seq); end++ {
				if _, n := decode(seq[:end], true); n != 0 {
					t.Fatalf("prefix %d/%d resolved early with consumed=%d", end, len(seq), n)
				}
			}
			wantEv, wantN := decode(seq, true)
			if wantN != len(seq) {
				t.Fatalf("full sequence consumed %d, want %d", wantN, len(seq))
			}
			gotEv, gotN := decode(seq, false)
			if gotN != wantN || gotEv != wantEv {
				t.Errorf("expiry flag changed a complete sequence: (%+v, %d) vs (%+v, %d)",
					gotEv, gotN, wantEv, wantN)
			}
		})
	}
}

// With no further input possible the decoder must always consume at
// least one unit, whatever the buffer holds. The dispatch loop relies
// on this to guarantee forward progress.
func TestDecode_AlwaysResolvesWhenExhausted(t *testing.T) {
	t.Parallel()

	buffers := [][]rune{
		{esc},
		[]rune("\x1b["),
		[]rune("\x1b[1;"),
		[]rune("\x1b[1;2"),
		[]rune("\x1bN"),
		[]rune("\x1bO"),
		{0xD83D},
		{0xDC00},
		{esc, '[', 0x1F},
		[]rune("a"),
		{0x00},
		{del},
	}

	for _, buf := range buffers {
		_, n := decode(buf, false)
		if n < 1 || n > len(buf) {
			t.Errorf("decode(%q, false) consumed %d, want 1..%d", string(buf), n, len(buf))
		}
	}
}
