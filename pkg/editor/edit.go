// ABOUTME: Editing primitives: insertion, deletion, motion, kill ring, undo, history recall
// ABOUTME: All operate on the line under edit and the editor's cursor

package editor

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// editState snapshots the line and cursor for undo.
type editState struct {
	text   []rune
	cursor int
}

func (ed *Editor) text() []rune {
	if ed.ln == nil {
		return nil
	}
	return ed.ln.Units
}

func (ed *Editor) insertRune(r rune) {
	ed.saveUndo()
	units := append(ed.ln.Units, 0)
	copy(units[ed.cursor+1:], units[ed.cursor:])
	units[ed.cursor] = r
	ed.ln.Units = units
	ed.cursor++
}

// insertText splices text in at the cursor.
func (ed *Editor) insertText(text string) {
	ed.saveUndo()
	rs := []rune(text)
	units := make([]rune, 0, len(ed.ln.Units)+len(rs))
	units = append(units, ed.ln.Units[:ed.cursor]...)
	units = append(units, rs...)
	units = append(units, ed.ln.Units[ed.cursor:]...)
	ed.ln.Units = units
	ed.cursor += len(rs)
}

// replaceRange swaps text[from:to] for repl and parks the cursor after
// the replacement.
func (ed *Editor) replaceRange(from, to int, repl string) {
	ed.saveUndo()
	rs := []rune(repl)
	units := make([]rune, 0, len(ed.ln.Units)-(to-from)+len(rs))
	units = append(units, ed.ln.Units[:from]...)
	units = append(units, rs...)
	units = append(units, ed.ln.Units[to:]...)
	ed.ln.Units = units
	ed.cursor = from + len(rs)
}

// deleteBack removes the grapheme cluster before the cursor, so a
// combining accent or a multi-rune emoji disappears as one unit.
func (ed *Editor) deleteBack() {
	if ed.cursor == 0 {
		return
	}
	ed.saveUndo()
	start := prevClusterStart(ed.ln.Units[:ed.cursor])
	ed.ln.Units = append(ed.ln.Units[:start], ed.ln.Units[ed.cursor:]...)
	ed.cursor = start
}

func (ed *Editor) deleteForward() {
	if ed.cursor >= len(ed.ln.Units) {
		return
	}
	ed.saveUndo()
	ed.ln.Units = append(ed.ln.Units[:ed.cursor], ed.ln.Units[ed.cursor+1:]...)
}

// prevClusterStart returns the rune index where the final grapheme
// cluster of text begins.
func prevClusterStart(text []rune) int {
	s := string(text)
	start, count, state := 0, 0, -1
	for s != "" {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		start = count
		count += utf8.RuneCountInString(cluster)
	}
	return start
}

func (ed *Editor) moveLeft() {
	if ed.cursor > 0 {
		ed.cursor--
	}
}

func (ed *Editor) moveRight() {
	if ed.cursor < len(ed.ln.Units) {
		ed.cursor++
	}
}

func (ed *Editor) moveHome() {
	ed.cursor = 0
}

func (ed *Editor) moveEnd() {
	ed.cursor = len(ed.ln.Units)
}

// wordLeft moves to the start of the previous word.
func (ed *Editor) wordLeft() {
	pos := ed.cursor
	for pos > 0 && ed.ln.Units[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && ed.ln.Units[pos-1] != ' ' {
		pos--
	}
	ed.cursor = pos
}

// wordRight moves past the end of the next word.
func (ed *Editor) wordRight() {
	n := len(ed.ln.Units)
	pos := ed.cursor
	for pos < n && ed.ln.Units[pos] == ' ' {
		pos++
	}
	for pos < n && ed.ln.Units[pos] != ' ' {
		pos++
	}
	ed.cursor = pos
}

// kill removes text[from:to] and pushes it onto the ring. When the
// previous action was also a kill, the text merges into the same ring
// entry so a run of kills yanks back as one block.
func (ed *Editor) kill(from, to int, forward bool) {
	if from >= to {
		return
	}
	ed.saveUndo()
	killed := string(ed.ln.Units[from:to])
	switch {
	case !isKill(ed.lastAction):
		ed.ring.Push(killed)
	case forward:
		ed.ring.Append(killed)
	default:
		ed.ring.Prepend(killed)
	}
	ed.ln.Units = append(ed.ln.Units[:from], ed.ln.Units[to:]...)
	ed.cursor = from
}

func isKill(a Action) bool {
	switch a {
	case ActionKillToEnd, ActionKillToStart, ActionDeleteWordLeft, ActionDeleteWordRight:
		return true
	}
	return false
}

func (ed *Editor) killToEnd() {
	ed.kill(ed.cursor, len(ed.ln.Units), true)
}

func (ed *Editor) killToStart() {
	ed.kill(0, ed.cursor, false)
}

func (ed *Editor) deleteWordLeft() {
	start := ed.cursor
	for start > 0 && ed.ln.Units[start-1] == ' ' {
		start--
	}
	for start > 0 && ed.ln.Units[start-1] != ' ' {
		start--
	}
	ed.kill(start, ed.cursor, false)
}

func (ed *Editor) deleteWordRight() {
	end := ed.cursor
	n := len(ed.ln.Units)
	for end < n && ed.ln.Units[end] == ' ' {
		end++
	}
	for end < n && ed.ln.Units[end] != ' ' {
		end++
	}
	ed.kill(ed.cursor, end, true)
}

func (ed *Editor) yank() {
	text := ed.ring.Yank()
	if text == "" {
		return
	}
	ed.insertText(text)
	ed.yankLen = utf8.RuneCountInString(text)
}

// yankPop replaces the text just yanked with the next older kill. Only
// valid directly after a yank.
func (ed *Editor) yankPop() {
	if ed.lastAction != ActionYank && ed.lastAction != ActionYankPop {
		return
	}
	text := ed.ring.YankPop()
	if text == "" {
		return
	}
	ed.replaceRange(ed.cursor-ed.yankLen, ed.cursor, text)
	ed.yankLen = utf8.RuneCountInString(text)
}

func (ed *Editor) saveUndo() {
	state := editState{
		text:   make([]rune, len(ed.ln.Units)),
		cursor: ed.cursor,
	}
	copy(state.text, ed.ln.Units)
	ed.undo.Push(state)
}

func (ed *Editor) doUndo() {
	state, ok := ed.undo.Undo()
	if !ok {
		return
	}
	ed.ln.Units = state.text
	ed.cursor = state.cursor
}

// historyPrev recalls the previous history entry, stashing the draft
// line on the first step back.
func (ed *Editor) historyPrev() {
	if ed.mask != 0 {
		return
	}
	if ed.hist.AtDraft() {
		draft := make([]rune, len(ed.ln.Units))
		copy(draft, ed.ln.Units)
		ed.draft = draft
	}
	if !ed.hist.Prev() {
		return
	}
	ed.recall(ed.hist.Current())
}

// historyNext steps toward the present; stepping past the newest entry
// restores the stashed draft.
func (ed *Editor) historyNext() {
	if ed.mask != 0 || ed.hist.AtDraft() {
		return
	}
	ed.hist.Next()
	if ed.hist.AtDraft() {
		ed.ln.Units = ed.draft
		ed.draft = nil
		ed.cursor = len(ed.ln.Units)
		return
	}
	ed.recall(ed.hist.Current())
}

// recall replaces the line with a history entry, cursor at the end.
func (ed *Editor) recall(entry string) {
	ed.ln.Units = []rune(entry)
	ed.cursor = len(ed.ln.Units)
}

// startSearch enters reverse history search, stashing the draft.
func (ed *Editor) startSearch() {
	if ed.mask != 0 {
		return
	}
	draft := make([]rune, len(ed.ln.Units))
	copy(draft, ed.ln.Units)
	ed.draft = draft
	ed.hist.StartSearch()
}

// searchControl routes control bytes while reverse search is active.
func (ed *Editor) searchControl(r rune) {
	switch r {
	case '\r', '\n': // accept the match and the line
		ed.acceptSearch()
		ed.ln.Done = true
	case 0x1B: // Escape keeps the match and returns to editing
		ed.acceptSearch()
	case 0x07: // Ctrl+G abandons the search and restores the draft
		ed.cancelSearch()
	case 0x12: // Ctrl+R steps to the next older match
		ed.hist.SearchOlder()
	case 0x08, 0x7F:
		ed.hist.SearchBackspace()
	case 0x03:
		ed.ln.Interrupted = true
	default:
		// Any other control leaves search with the match applied,
		// then acts normally.
		ed.acceptSearch()
		ed.dispatchControl(r)
	}
}

// acceptSearch adopts the current match as the line and exits search.
// A query that never matched falls back to the stashed draft.
func (ed *Editor) acceptSearch() {
	match := ed.hist.EndSearch()
	if match == "" {
		ed.ln.Units = ed.draft
	} else {
		ed.ln.Units = []rune(match)
	}
	ed.cursor = len(ed.ln.Units)
	ed.draft = nil
}

// cancelSearch restores the draft line untouched.
func (ed *Editor) cancelSearch() {
	ed.hist.EndSearch()
	ed.ln.Units = ed.draft
	ed.cursor = len(ed.ln.Units)
	ed.draft = nil
}

func (ed *Editor) clearScreen() {
	if ed.term == nil {
		return
	}
	_, _ = ed.term.Write([]byte("\x1b[2J\x1b[H"))
}
