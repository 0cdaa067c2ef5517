// ABOUTME: Prompt history with up/down recall, reverse incremental search, and file persistence
// ABOUTME: Entries are deduplicated and capped; search walks newest to oldest

package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultHistoryLimit = 1000

// History holds accepted lines for recall. Position -1 means the live
// input line; higher positions walk back in time.
type History struct {
	entries   []string
	limit     int
	pos       int
	searching bool
	query     string
	matchIdx  int // index within entries of the current search match
}

// NewHistory returns an empty History capped at the default limit.
func NewHistory() *History {
	return &History{
		entries:  make([]string, 0, 64),
		limit:    defaultHistoryLimit,
		pos:      -1,
		matchIdx: -1,
	}
}

// Add records an accepted line. Blank lines are dropped, an existing
// duplicate moves to the newest slot, and the oldest entry falls off
// once the cap is reached. Navigation returns to the draft.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.pos = -1
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// AtDraft reports whether navigation sits at the live input line.
func (h *History) AtDraft() bool {
	return h.pos < 0
}

// Prev moves one entry back in time and reports whether it moved.
func (h *History) Prev() bool {
	if h.pos >= len(h.entries)-1 {
		return false
	}
	h.pos++
	return true
}

// Next moves one entry forward in time and reports whether it moved.
// Stepping past the newest entry returns to the draft position.
func (h *History) Next() bool {
	if h.pos < 0 {
		return false
	}
	h.pos--
	return true
}

// Current returns the entry at the navigation position, or the search
// match while searching. Empty at the draft position or when the
// search has no match.
func (h *History) Current() string {
	if h.searching {
		if h.matchIdx >= 0 && h.matchIdx < len(h.entries) {
			return h.entries[h.matchIdx]
		}
		return ""
	}
	if h.pos < 0 || h.pos >= len(h.entries) {
		return ""
	}
	// Position 0 is the newest entry, which sits last in the slice.
	return h.entries[len(h.entries)-1-h.pos]
}

// ResetNav returns navigation to the draft and leaves search mode.
func (h *History) ResetNav() {
	h.pos = -1
	h.searching = false
	h.query = ""
	h.matchIdx = -1
}

// StartSearch enters reverse incremental search with an empty query.
func (h *History) StartSearch() {
	h.searching = true
	h.query = ""
	h.matchIdx = -1
}

// IsSearching reports whether reverse search is active.
func (h *History) IsSearching() bool {
	return h.searching
}

// SearchQuery returns the current search query.
func (h *History) SearchQuery() string {
	return h.query
}

// SearchAppend grows the query by one rune and re-runs the search from
// the newest entry.
func (h *History) SearchAppend(r rune) {
	h.query += string(r)
	h.refreshSearch()
}

// SearchBackspace shrinks the query by one rune.
func (h *History) SearchBackspace() {
	if h.query == "" {
		return
	}
	rs := []rune(h.query)
	h.query = string(rs[:len(rs)-1])
	h.refreshSearch()
}

// SearchOlder advances to the next older entry matching the query.
func (h *History) SearchOlder() {
	if h.query == "" {
		return
	}
	start := h.matchIdx - 1
	if start < 0 {
		start = len(h.entries) - 1
	}
	for i := start; i >= 0; i-- {
		if strings.Contains(h.entries[i], h.query) {
			h.matchIdx = i
			return
		}
	}
}

// EndSearch leaves search mode and returns the match it ended on.
func (h *History) EndSearch() string {
	match := h.Current()
	h.searching = false
	h.query = ""
	h.matchIdx = -1
	return match
}

func (h *History) refreshSearch() {
	h.matchIdx = -1
	if h.query == "" {
		return
	}
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.Contains(h.entries[i], h.query) {
			h.matchIdx = i
			return
		}
	}
}

// Save writes the history to path, one entry per line, creating parent
// directories as needed.
func (h *History) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	content := strings.Join(h.entries, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}

// Load replaces the entries with the contents of path. A missing file
// is a fresh start, not an error.
func (h *History) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading history file: %w", err)
	}
	h.entries = h.entries[:0]
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			h.entries = append(h.entries, trimmed)
		}
	}
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.pos = -1
	return nil
}
