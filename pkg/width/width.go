// ABOUTME: Computes display width of strings with grapheme-aware segmentation
// ABOUTME: Skips ANSI escape sequences so styled prompts measure correctly

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Visible returns the display width of s in terminal columns. ANSI
// escape sequences contribute zero width; grapheme clusters may span
// two cells for East Asian characters and emoji.
func Visible(s string) int {
	if s == "" {
		return 0
	}
	if plainASCII(s) {
		return len(s)
	}
	w := 0
	state := -1
	rest := StripANSI(s)
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w += clusterWidth(cluster)
	}
	return w
}

// plainASCII reports whether s contains only printable ASCII
// (0x20-0x7E), which maps one byte to one column.
func plainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

// clusterWidth returns the display width of a single grapheme cluster.
// The first rune decides: emoji modifiers and combining marks ride
// along at zero extra cost.
func clusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}

// Truncate cuts s to at most max columns, ending with an ellipsis when
// anything was dropped. ANSI escape sequences pass through unmeasured.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if Visible(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}

	var b strings.Builder
	col := 0
	target := max - 1 // room for the ellipsis
	for i := 0; i < len(s) && col < target; {
		if s[i] == '\x1b' {
			end := skipSequence(s, i)
			b.WriteString(s[i:end])
			i = end
			continue
		}
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		cw := clusterWidth(cluster)
		if col+cw > target {
			break
		}
		b.WriteString(cluster)
		col += cw
		i = len(s) - len(rest)
	}
	b.WriteString("\x1b[0m…")
	return b.String()
}

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			i = skipSequence(s, i)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// skipSequence advances past the escape sequence starting at s[i] and
// returns the index of the first byte after it. Handles CSI and OSC
// forms plus the generic two-byte fallback.
func skipSequence(s string, i int) int {
	i++ // ESC
	if i >= len(s) {
		return i
	}
	switch s[i] {
	case '[': // CSI: ends at a final byte 0x40-0x7E
		for i++; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7E {
				return i + 1
			}
		}
		return i
	case ']': // OSC: ends at BEL or ST
		for i++; i < len(s); i++ {
			if s[i] == '\x07' {
				return i + 1
			}
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return i
	default:
		return i + 1
	}
}
