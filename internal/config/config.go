// ABOUTME: Settings loader for lineread configuration files
// ABOUTME: Merges defaults, ~/.lineread-go/config.yaml, and LINEREAD_* env vars

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/lineread-go/pkg/lineread"
)

const dirName = ".lineread-go"

// Settings holds the user-tunable knobs. Zero values mean "unset";
// Load fills them from defaults, then the config file, then env vars.
// Flags are applied last by the caller.
type Settings struct {
	Prompt          string `yaml:"prompt"`
	HistoryFile     string `yaml:"history_file"`
	EscapeTimeoutMS int    `yaml:"escape_timeout_ms"`
	LogLevel        string `yaml:"log_level"`
	Mask            string `yaml:"mask"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		Prompt:          "> ",
		HistoryFile:     HistoryFile(),
		EscapeTimeoutMS: int(lineread.DefaultEscapeTimeout / time.Millisecond),
		LogLevel:        "info",
	}
}

// Load reads settings from path layered over the defaults, then applies
// LINEREAD_* environment overrides. A missing file is not an error.
func Load(path string) (*Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	resolveEnvVars(s)
	applyEnv(s)
	return s, nil
}

// EscapeTimeout converts the millisecond setting to a duration.
// Non-positive values fall back to the decoder default.
func (s *Settings) EscapeTimeout() time.Duration {
	if s.EscapeTimeoutMS <= 0 {
		return lineread.DefaultEscapeTimeout
	}
	return time.Duration(s.EscapeTimeoutMS) * time.Millisecond
}

// MaskRune returns the first rune of the mask setting, or 0 when unset.
func (s *Settings) MaskRune() rune {
	for _, r := range s.Mask {
		return r
	}
	return 0
}

// envVarPattern matches ${VAR} placeholders in config values.
var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// resolveEnvVars expands ${VAR} placeholders in string-valued settings,
// so paths like ${HOME}/.cache/lineread/history work in the file.
func resolveEnvVars(s *Settings) {
	s.Prompt = expandEnv(s.Prompt)
	s.HistoryFile = expandEnv(s.HistoryFile)
}

func expandEnv(val string) string {
	return envVarPattern.ReplaceAllStringFunc(val, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}

// applyEnv overrides settings from LINEREAD_* environment variables.
func applyEnv(s *Settings) {
	if v, ok := os.LookupEnv("LINEREAD_PROMPT"); ok {
		s.Prompt = v
	}
	if v, ok := os.LookupEnv("LINEREAD_HISTORY"); ok {
		s.HistoryFile = v
	}
	if v, ok := os.LookupEnv("LINEREAD_TIMEOUT_MS"); ok {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			s.EscapeTimeoutMS = ms
		}
	}
	if v, ok := os.LookupEnv("LINEREAD_LOG_LEVEL"); ok {
		s.LogLevel = v
	}
	if v, ok := os.LookupEnv("LINEREAD_MASK"); ok {
		s.Mask = v
	}
}

// Dir returns the user config directory (~/.lineread-go/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", dirName)
	}
	return filepath.Join(home, dirName)
}

// File returns the path to the settings file.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

// HistoryFile returns the default history file path.
func HistoryFile() string {
	return filepath.Join(Dir(), "history")
}

// KeybindingsFile returns the path to the keybindings override file.
func KeybindingsFile() string {
	return filepath.Join(Dir(), "keybindings.json")
}
