// ABOUTME: Maps decoded key events to editor actions with readline-style defaults
// ABOUTME: Chord strings like "ctrl+k" or "alt+b" rebind actions at runtime

package editor

import (
	"fmt"
	"strings"
)

// Action identifies an editing command a key event can trigger.
type Action string

// Actions available for binding.
const (
	ActionAccept          Action = "accept"
	ActionInterrupt       Action = "interrupt"
	ActionEndOfFile       Action = "endOfFile"
	ActionDeleteBack      Action = "deleteBack"
	ActionDeleteForward   Action = "deleteForward"
	ActionCursorLeft      Action = "cursorLeft"
	ActionCursorRight     Action = "cursorRight"
	ActionHome            Action = "home"
	ActionEnd             Action = "end"
	ActionWordLeft        Action = "wordLeft"
	ActionWordRight       Action = "wordRight"
	ActionDeleteWordLeft  Action = "deleteWordLeft"
	ActionDeleteWordRight Action = "deleteWordRight"
	ActionKillToEnd       Action = "killToEnd"
	ActionKillToStart     Action = "killToStart"
	ActionYank            Action = "yank"
	ActionYankPop         Action = "yankPop"
	ActionUndo            Action = "undo"
	ActionHistoryPrev     Action = "historyPrev"
	ActionHistoryNext     Action = "historyNext"
	ActionSearchHistory   Action = "searchHistory"
	ActionComplete        Action = "complete"
	ActionClearScreen     Action = "clearScreen"
)

// KnownActions lists every bindable action, for config validation.
func KnownActions() []Action {
	return []Action{
		ActionAccept, ActionInterrupt, ActionEndOfFile,
		ActionDeleteBack, ActionDeleteForward,
		ActionCursorLeft, ActionCursorRight, ActionHome, ActionEnd,
		ActionWordLeft, ActionWordRight,
		ActionDeleteWordLeft, ActionDeleteWordRight,
		ActionKillToEnd, ActionKillToStart, ActionYank, ActionYankPop,
		ActionUndo, ActionHistoryPrev, ActionHistoryNext,
		ActionSearchHistory, ActionComplete, ActionClearScreen,
	}
}

// Keymap resolves decoded key events to actions in O(1). Control
// bytes, CSI sequences, SS3 finals, and Alt chords live in separate
// tables because the decoder reports them as distinct event kinds.
type Keymap struct {
	control map[rune]Action   // C0 bytes and DEL
	csi     map[string]Action // parameter string + final, e.g. "3~" or "1;5C"
	ss3     map[rune]Action   // single-shift-3 finals (application cursor keys)
	meta    map[rune]Action   // ESC-prefixed runes (Alt chords)
}

// DefaultKeymap returns a fresh Keymap with the readline-style
// defaults. Each call builds independent tables, so editors can rebind
// without affecting one another.
func DefaultKeymap() *Keymap {
	return &Keymap{
		control: map[rune]Action{
			'\r': ActionAccept,
			'\n': ActionAccept,
			'\t': ActionComplete,
			0x01: ActionHome,           // Ctrl+A
			0x02: ActionCursorLeft,     // Ctrl+B
			0x03: ActionInterrupt,      // Ctrl+C
			0x04: ActionEndOfFile,      // Ctrl+D
			0x05: ActionEnd,            // Ctrl+E
			0x06: ActionCursorRight,    // Ctrl+F
			0x08: ActionDeleteBack,     // Ctrl+H
			0x0B: ActionKillToEnd,      // Ctrl+K
			0x0C: ActionClearScreen,    // Ctrl+L
			0x0E: ActionHistoryNext,    // Ctrl+N
			0x10: ActionHistoryPrev,    // Ctrl+P
			0x12: ActionSearchHistory,  // Ctrl+R
			0x15: ActionKillToStart,    // Ctrl+U
			0x17: ActionDeleteWordLeft, // Ctrl+W
			0x19: ActionYank,           // Ctrl+Y
			0x1A: ActionUndo,           // Ctrl+Z
			0x1F: ActionUndo,           // Ctrl+_
			0x7F: ActionDeleteBack,     // DEL
		},
		csi: map[string]Action{
			"A":    ActionHistoryPrev,
			"B":    ActionHistoryNext,
			"C":    ActionCursorRight,
			"D":    ActionCursorLeft,
			"H":    ActionHome,
			"F":    ActionEnd,
			"1~":   ActionHome,
			"3~":   ActionDeleteForward,
			"4~":   ActionEnd,
			"7~":   ActionHome,
			"8~":   ActionEnd,
			"1;5C": ActionWordRight,
			"1;5D": ActionWordLeft,
		},
		ss3: map[rune]Action{
			'A': ActionHistoryPrev,
			'B': ActionHistoryNext,
			'C': ActionCursorRight,
			'D': ActionCursorLeft,
			'H': ActionHome,
			'F': ActionEnd,
		},
		meta: map[rune]Action{
			'b':  ActionWordLeft,
			'f':  ActionWordRight,
			'd':  ActionDeleteWordRight,
			'y':  ActionYankPop,
			0x7F: ActionDeleteWordLeft, // Alt+Backspace
		},
	}
}

// Control returns the action bound to a control byte, or "" if unbound.
func (k *Keymap) Control(r rune) Action {
	return k.control[r]
}

// CSI returns the action bound to a control sequence, keyed by its
// parameter string plus its final (for example "3~" for Delete).
func (k *Keymap) CSI(params, final string) Action {
	return k.csi[params+final]
}

// Shift returns the action bound to a single-shift final. Only shift 3
// carries bindings; terminals use SS3 for application cursor keys.
func (k *Keymap) Shift(set int, r rune) Action {
	if set != 3 {
		return ""
	}
	return k.ss3[r]
}

// Meta returns the action bound to an Alt chord (ESC-prefixed rune).
func (k *Keymap) Meta(r rune) Action {
	return k.meta[r]
}

// Bind attaches action to a key chord, replacing any previous binding
// for that chord. Chords use the keybindings config syntax: "ctrl+x",
// "alt+x", or a named key ("enter", "tab", "backspace", "delete",
// "escape", "up", "down", "left", "right", "home", "end"). Named keys
// that terminals report in several encodings bind all of them.
func (k *Keymap) Bind(chord string, action Action) error {
	chord = strings.ToLower(strings.TrimSpace(chord))

	if rest, ok := strings.CutPrefix(chord, "ctrl+"); ok {
		r, err := controlByte(rest)
		if err != nil {
			return fmt.Errorf("chord %q: %w", chord, err)
		}
		k.control[r] = action
		return nil
	}
	if rest, ok := cutAltPrefix(chord); ok {
		if rest == "backspace" {
			k.meta[0x7F] = action
			return nil
		}
		rs := []rune(rest)
		if len(rs) != 1 {
			return fmt.Errorf("unknown key chord %q", chord)
		}
		k.meta[rs[0]] = action
		return nil
	}

	switch chord {
	case "enter":
		k.control['\r'] = action
		k.control['\n'] = action
	case "tab":
		k.control['\t'] = action
	case "backspace":
		k.control[0x08] = action
		k.control[0x7F] = action
	case "escape":
		k.control[0x1B] = action
	case "delete":
		k.csi["3~"] = action
	case "up":
		k.bindCursorKey('A', action)
	case "down":
		k.bindCursorKey('B', action)
	case "right":
		k.bindCursorKey('C', action)
	case "left":
		k.bindCursorKey('D', action)
	case "home":
		k.bindCursorKey('H', action)
		k.csi["1~"] = action
		k.csi["7~"] = action
	case "end":
		k.bindCursorKey('F', action)
		k.csi["4~"] = action
		k.csi["8~"] = action
	default:
		return fmt.Errorf("unknown key chord %q", chord)
	}
	return nil
}

// bindCursorKey covers both encodings a cursor key arrives in: CSI in
// normal mode and SS3 in application mode.
func (k *Keymap) bindCursorKey(final rune, action Action) {
	k.csi[string(final)] = action
	k.ss3[final] = action
}

// controlByte maps a ctrl chord suffix to its C0 byte.
func controlByte(name string) (rune, error) {
	switch name {
	case "space":
		return 0x00, nil
	case "_":
		return 0x1F, nil
	}
	rs := []rune(name)
	if len(rs) == 1 && rs[0] >= 'a' && rs[0] <= 'z' {
		return rs[0] & 0x1F, nil
	}
	return 0, fmt.Errorf("no control byte for %q", name)
}

func cutAltPrefix(chord string) (string, bool) {
	if rest, ok := strings.CutPrefix(chord, "alt+"); ok {
		return rest, true
	}
	return strings.CutPrefix(chord, "meta+")
}
