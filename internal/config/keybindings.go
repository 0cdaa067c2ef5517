// ABOUTME: Keybinding override loader for the keybindings.json format
// ABOUTME: Maps action names to key chords and applies them to an editor keymap

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mauromedda/lineread-go/pkg/editor"
)

// Keybindings maps action names to the chords that trigger them, e.g.
//
//	{"killToEnd": ["ctrl+k"], "historyPrev": ["up", "ctrl+p"]}
type Keybindings map[string][]string

// LoadKeybindings reads a keybindings file. A missing file returns an
// empty map, so callers always get something applicable.
func LoadKeybindings(path string) (Keybindings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Keybindings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading keybindings file: %w", err)
	}

	var kb Keybindings
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parsing keybindings file: %w", err)
	}
	return kb, nil
}

// Apply binds every chord onto km. Unknown action names and malformed
// chords are errors so typos in the file surface instead of silently
// leaving defaults in place.
func (kb Keybindings) Apply(km *editor.Keymap) error {
	known := make(map[editor.Action]bool, len(editor.KnownActions()))
	for _, a := range editor.KnownActions() {
		known[a] = true
	}

	for name, chords := range kb {
		action := editor.Action(name)
		if !known[action] {
			return fmt.Errorf("unknown action %q in keybindings", name)
		}
		for _, chord := range chords {
			if err := km.Bind(chord, action); err != nil {
				return fmt.Errorf("binding %q: %w", name, err)
			}
		}
	}
	return nil
}
