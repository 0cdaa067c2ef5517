// ABOUTME: Tab completion over a pluggable candidate source with fuzzy ranking
// ABOUTME: Repeated presses cycle through the ranked matches for the same word

package editor

import "github.com/sahilm/fuzzy"

// Completer supplies completion candidates for the word under the
// cursor. Implementations may ignore the word and return a full
// candidate set; ranking happens in the editor.
type Completer interface {
	Candidates(word string) []string
}

// StaticCompleter serves a fixed candidate list.
type StaticCompleter []string

// Candidates returns the full list regardless of the word.
func (c StaticCompleter) Candidates(string) []string {
	return c
}

// rankMatches orders candidates by fuzzy relevance to word. An empty
// word keeps the source order.
func rankMatches(word string, candidates []string) []string {
	if word == "" {
		return candidates
	}
	results := fuzzy.Find(word, candidates)
	matches := make([]string, len(results))
	for i, r := range results {
		matches[i] = r.Str
	}
	return matches
}

// complete replaces the word before the cursor with the best fuzzy
// match; pressing again cycles through the remaining matches.
func (ed *Editor) complete() {
	if ed.completer == nil || ed.ln == nil {
		return
	}
	if ed.lastAction == ActionComplete && len(ed.matches) > 0 {
		ed.matchIdx = (ed.matchIdx + 1) % len(ed.matches)
		ed.replaceRange(ed.wordStart, ed.cursor, ed.matches[ed.matchIdx])
		return
	}

	start := wordStartIndex(ed.ln.Units, ed.cursor)
	word := string(ed.ln.Units[start:ed.cursor])
	matches := rankMatches(word, ed.completer.Candidates(word))
	if len(matches) == 0 {
		return
	}
	ed.matches = matches
	ed.matchIdx = 0
	ed.wordStart = start
	ed.replaceRange(start, ed.cursor, matches[0])
}

// wordStartIndex finds where the word containing the cursor begins: the
// first position after the nearest space to the left.
func wordStartIndex(text []rune, cursor int) int {
	i := cursor
	for i > 0 && text[i-1] != ' ' {
		i--
	}
	return i
}
