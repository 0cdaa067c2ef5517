// ABOUTME: Editor is a line-editing Handler: cursor, kill ring, undo, history, completion
// ABOUTME: Raw mode disables terminal echo, so the editor repaints the line on every edit

package editor

import (
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/unicode/norm"

	"github.com/mauromedda/lineread-go/pkg/editor/internal/killring"
	"github.com/mauromedda/lineread-go/pkg/editor/internal/undo"
	"github.com/mauromedda/lineread-go/pkg/lineread"
	"github.com/mauromedda/lineread-go/pkg/terminal"
)

const undoDepth = 100

// Editor reads lines with interactive editing. It plugs into the
// lineread dispatch loop as the Handler and renders the line it edits;
// acceptance, end-of-input, and interrupt semantics stay with the
// embedded DefaultHandler. The mutex covers the resize listener, which
// repaints from its own goroutine.
type Editor struct {
	lineread.DefaultHandler

	mu     sync.Mutex
	reader *lineread.Reader
	term   terminal.Terminal
	keymap *Keymap
	hist   *History
	ring   *killring.Ring
	undo   *undo.Stack[editState]

	completer Completer
	prompt    string
	style     lipgloss.Style
	mask      rune
	width     int

	ln         *lineread.Line
	cursor     int
	scrollOff  int
	draft      []rune
	lastAction Action
	matches    []string
	matchIdx   int
	wordStart  int
	yankLen    int
}

var _ lineread.Handler = (*Editor)(nil)

// New returns an Editor reading from src and echoing to term. A nil
// term disables echo and raw-mode bracketing, which suits tests that
// only exercise editing semantics.
func New(src lineread.Source, term terminal.Terminal) *Editor {
	ed := &Editor{
		term:   term,
		keymap: DefaultKeymap(),
		hist:   NewHistory(),
		ring:   killring.New(),
		undo:   undo.New[editState](undoDepth),
		style:  lipgloss.NewStyle(),
		width:  80,
	}
	ed.reader = lineread.NewReader(src)
	ed.reader.SetHandler(ed)
	if term != nil {
		ed.reader.SetTerminal(term)
		term.OnResize(func(w, _ int) {
			defer terminal.RecoverGoroutine(term)
			ed.mu.Lock()
			defer ed.mu.Unlock()
			if w > 0 {
				ed.width = w
			}
			ed.redraw()
		})
	}
	return ed
}

// SetPrompt sets the prompt text shown before the input.
func (ed *Editor) SetPrompt(p string) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.prompt = p
}

// SetPromptStyle sets the lipgloss style the prompt renders with.
func (ed *Editor) SetPromptStyle(s lipgloss.Style) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.style = s
}

// SetMask echoes every typed rune as m; 0 restores plain echo. While
// masked, history recording, recall, and search are disabled.
func (ed *Editor) SetMask(m rune) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.mask = m
}

// SetCompleter installs the Tab completion source.
func (ed *Editor) SetCompleter(c Completer) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.completer = c
}

// SetEscapeTimeout adjusts the escape disambiguation budget of the
// underlying reader.
func (ed *Editor) SetEscapeTimeout(d time.Duration) {
	ed.reader.SetEscapeTimeout(d)
}

// Keymap exposes the editor's keymap for rebinding.
func (ed *Editor) Keymap() *Keymap {
	return ed.keymap
}

// History exposes the editor's history for persistence wiring.
func (ed *Editor) History() *History {
	return ed.hist
}

// ReadLine reads one line with interactive editing. The accepted line
// is NFC-normalized and recorded in history. Error conventions follow
// lineread.Reader.ReadLine: io.EOF at end of input, ErrInterrupted on
// Ctrl+C, io.ErrUnexpectedEOF when the source dies mid-line.
func (ed *Editor) ReadLine() (string, error) {
	ed.mu.Lock()
	ed.resetLine()
	if ed.term != nil {
		if w, _, err := ed.term.Size(); err == nil && w > 0 {
			ed.width = w
		}
	}
	ed.redraw()
	masked := ed.mask != 0
	ed.mu.Unlock()

	s, err := ed.reader.ReadLine()

	ed.mu.Lock()
	if ed.term != nil {
		_, _ = ed.term.Write([]byte("\r\n"))
	}
	ed.ln = nil
	ed.mu.Unlock()

	if err != nil {
		return "", err
	}
	s = norm.NFC.String(s)
	if !masked {
		ed.mu.Lock()
		ed.hist.Add(s)
		ed.mu.Unlock()
	}
	return s, nil
}

// resetLine clears per-line state. Callers hold ed.mu.
func (ed *Editor) resetLine() {
	ed.ln = nil
	ed.cursor = 0
	ed.scrollOff = 0
	ed.draft = nil
	ed.lastAction = ""
	ed.matches = nil
	ed.matchIdx = 0
	ed.wordStart = 0
	ed.yankLen = 0
	ed.undo.Clear()
	ed.hist.ResetNav()
}

// HandleRune inserts the rune at the cursor, or extends the search
// query while reverse search is active.
func (ed *Editor) HandleRune(ln *lineread.Line, r rune) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.ln = ln
	if ed.searching() {
		ed.hist.SearchAppend(r)
	} else {
		ed.insertRune(r)
		ed.lastAction = ""
	}
	ed.redraw()
}

// HandleControl dispatches a control byte through the keymap, falling
// back to the baseline semantics for unbound bytes.
func (ed *Editor) HandleControl(ln *lineread.Line, r rune) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.ln = ln
	if ed.searching() {
		ed.searchControl(r)
	} else {
		ed.dispatchControl(r)
	}
	ed.redrawLive()
}

// HandleCSI routes a control sequence through the keymap; unbound
// sequences are dropped.
func (ed *Editor) HandleCSI(ln *lineread.Line, params, final string) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.ln = ln
	ed.leaveSearch()
	if action := ed.keymap.CSI(params, final); action != "" {
		ed.do(action)
		ed.lastAction = action
	}
	ed.redrawLive()
}

// HandleShift routes a single-shift final through the keymap.
func (ed *Editor) HandleShift(ln *lineread.Line, set int, r rune) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.ln = ln
	ed.leaveSearch()
	if action := ed.keymap.Shift(set, r); action != "" {
		ed.do(action)
		ed.lastAction = action
	}
	ed.redrawLive()
}

// HandleTwoByte routes an ESC-prefixed rune as an Alt chord.
func (ed *Editor) HandleTwoByte(ln *lineread.Line, r rune) {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	ed.ln = ln
	ed.leaveSearch()
	if action := ed.keymap.Meta(r); action != "" {
		ed.do(action)
		ed.lastAction = action
	}
	ed.redrawLive()
}

// dispatchControl resolves and executes the action for a control byte.
// Callers hold ed.mu.
func (ed *Editor) dispatchControl(r rune) {
	action := ed.keymap.Control(r)
	if action == "" {
		ed.DefaultHandler.HandleControl(ed.ln, r)
		return
	}
	ed.do(action)
	ed.lastAction = action
}

// do executes one bound action against the current line.
func (ed *Editor) do(action Action) {
	switch action {
	case ActionAccept:
		ed.ln.Done = true
	case ActionInterrupt:
		ed.ln.Interrupted = true
	case ActionEndOfFile:
		ed.DefaultHandler.HandleControl(ed.ln, 0x04)
	case ActionDeleteBack:
		ed.deleteBack()
	case ActionDeleteForward:
		ed.deleteForward()
	case ActionCursorLeft:
		ed.moveLeft()
	case ActionCursorRight:
		ed.moveRight()
	case ActionHome:
		ed.moveHome()
	case ActionEnd:
		ed.moveEnd()
	case ActionWordLeft:
		ed.wordLeft()
	case ActionWordRight:
		ed.wordRight()
	case ActionDeleteWordLeft:
		ed.deleteWordLeft()
	case ActionDeleteWordRight:
		ed.deleteWordRight()
	case ActionKillToEnd:
		ed.killToEnd()
	case ActionKillToStart:
		ed.killToStart()
	case ActionYank:
		ed.yank()
	case ActionYankPop:
		ed.yankPop()
	case ActionUndo:
		ed.doUndo()
	case ActionHistoryPrev:
		ed.historyPrev()
	case ActionHistoryNext:
		ed.historyNext()
	case ActionSearchHistory:
		ed.startSearch()
	case ActionComplete:
		ed.complete()
	case ActionClearScreen:
		ed.clearScreen()
	}
}

func (ed *Editor) searching() bool {
	return ed.hist.IsSearching()
}

// leaveSearch applies the match and exits search mode before a
// non-text event acts, mirroring readline.
func (ed *Editor) leaveSearch() {
	if ed.searching() {
		ed.acceptSearch()
	}
}

// redrawLive repaints unless the line just finished, whose final state
// is the caller's to print.
func (ed *Editor) redrawLive() {
	if ed.ln != nil && (ed.ln.Done || ed.ln.Interrupted) {
		return
	}
	ed.redraw()
}
