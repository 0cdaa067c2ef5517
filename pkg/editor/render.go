// ABOUTME: Terminal rendering: carriage-return + erase redraw, styled prompt, horizontal scroll
// ABOUTME: The cursor is repositioned by absolute column after each repaint

package editor

import (
	"bytes"
	"fmt"

	"github.com/mauromedda/lineread-go/pkg/width"
)

// redraw repaints the edit line in place. Callers hold ed.mu.
func (ed *Editor) redraw() {
	if ed.term == nil {
		return
	}
	if ed.searching() {
		ed.drawSearch()
		return
	}

	prompt := ed.style.Render(ed.prompt)
	pw := width.Visible(prompt)
	avail := ed.width - pw - 1 // one spare column for the end-of-line cursor
	if avail < 1 {
		avail = 1
	}

	text := ed.display()
	ed.updateScroll(avail, len(text))
	end := ed.scrollOff + avail
	if end > len(text) {
		end = len(text)
	}

	var out bytes.Buffer
	out.WriteString("\r\x1b[K")
	out.WriteString(prompt)
	out.WriteString(string(text[ed.scrollOff:end]))
	col := pw + width.Visible(string(text[ed.scrollOff:ed.cursor]))
	fmt.Fprintf(&out, "\x1b[%dG", col+1)
	_, _ = ed.term.Write(out.Bytes())
}

// drawSearch repaints the reverse search prompt with the current match.
func (ed *Editor) drawSearch() {
	line := fmt.Sprintf("(reverse-i-search)`%s': %s", ed.hist.SearchQuery(), ed.hist.Current())
	var out bytes.Buffer
	out.WriteString("\r\x1b[K")
	out.WriteString(width.Truncate(line, ed.width))
	_, _ = ed.term.Write(out.Bytes())
}

// display returns the runes to echo: the line itself, or mask copies
// when secret entry is on.
func (ed *Editor) display() []rune {
	text := ed.text()
	if ed.mask == 0 {
		return text
	}
	masked := make([]rune, len(text))
	for i := range masked {
		masked[i] = ed.mask
	}
	return masked
}

// updateScroll keeps the cursor inside the visible window of n runes.
func (ed *Editor) updateScroll(avail, n int) {
	if ed.cursor < ed.scrollOff {
		ed.scrollOff = ed.cursor
	}
	if ed.cursor >= ed.scrollOff+avail {
		ed.scrollOff = ed.cursor - avail + 1
	}
	if ed.scrollOff < 0 {
		ed.scrollOff = 0
	}
	if ed.scrollOff > n {
		ed.scrollOff = n
	}
}
