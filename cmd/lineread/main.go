// ABOUTME: Demo REPL for the lineread library with terminal crash recovery
// ABOUTME: Parses flags, loads config, reads lines until end of input

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/lineread-go/internal/config"
	"github.com/mauromedda/lineread-go/internal/log"
	"github.com/mauromedda/lineread-go/pkg/editor"
	"github.com/mauromedda/lineread-go/pkg/lineread"
	"github.com/mauromedda/lineread-go/pkg/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("lineread %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	cfg, err := config.Load(config.File())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cfg, args)
	log.SetLevel(log.ParseLevel(cfg.LogLevel))
	log.Debug("config: prompt=%q history=%q timeout=%v", cfg.Prompt, cfg.HistoryFile, cfg.EscapeTimeout())

	tty := terminal.Stdio()
	defer terminal.RestoreOnPanic(tty)

	src := lineread.NewStreamSource(os.Stdin)
	defer src.Close()

	fmt.Println(bannerStyle.Render("lineread " + version))

	if args.plain {
		return runPlain(src, tty, cfg)
	}
	return runEditor(src, tty, cfg)
}

// applyFlags layers explicit CLI flags over the loaded settings.
func applyFlags(cfg *config.Settings, args cliArgs) {
	if args.prompt != "" {
		cfg.Prompt = args.prompt
	}
	if args.history != "" {
		cfg.HistoryFile = args.history
	}
	if args.timeout > 0 {
		cfg.EscapeTimeoutMS = args.timeout
	}
	if args.mask {
		cfg.Mask = "*"
	}
	if args.verbose {
		cfg.LogLevel = "debug"
	}
}

// runPlain exercises the core decoder without the editor. Raw mode
// means nothing echoes while typing; the accepted line prints after.
func runPlain(src lineread.Source, tty *terminal.TTY, cfg *config.Settings) error {
	reader := lineread.NewReader(src)
	reader.SetTerminal(tty)
	reader.SetEscapeTimeout(cfg.EscapeTimeout())

	for {
		if _, err := tty.Write([]byte(cfg.Prompt)); err != nil {
			return err
		}
		s, err := reader.ReadLine()
		fmt.Print("\r\n")
		if done, err := report(s, err, cfg); done || err != nil {
			return err
		}
	}
}

// runEditor runs the interactive line editor with history persistence
// and keybinding overrides.
func runEditor(src lineread.Source, tty *terminal.TTY, cfg *config.Settings) error {
	ed := editor.New(src, tty)
	ed.SetPrompt(cfg.Prompt)
	ed.SetPromptStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("6")))
	ed.SetEscapeTimeout(cfg.EscapeTimeout())
	if m := cfg.MaskRune(); m != 0 {
		ed.SetMask(m)
	}
	ed.SetCompleter(editor.StaticCompleter{"help", "history", "exit"})

	kb, err := config.LoadKeybindings(config.KeybindingsFile())
	if err != nil {
		return fmt.Errorf("loading keybindings: %w", err)
	}
	if err := kb.Apply(ed.Keymap()); err != nil {
		return fmt.Errorf("applying keybindings: %w", err)
	}

	if cfg.HistoryFile != "" {
		if err := ed.History().Load(cfg.HistoryFile); err != nil {
			log.Warn("history: %v", err)
		}
		defer func() {
			if err := ed.History().Save(cfg.HistoryFile); err != nil {
				log.Warn("history: %v", err)
			}
		}()
	}

	for {
		s, err := ed.ReadLine()
		if done, err := report(s, err, cfg); done || err != nil {
			return err
		}
	}
}

// report prints one read outcome. It returns done=true on clean end of
// input; interrupts are reported and the REPL continues.
func report(s string, err error, cfg *config.Settings) (bool, error) {
	switch {
	case errors.Is(err, io.EOF):
		fmt.Println("bye")
		return true, nil
	case errors.Is(err, lineread.ErrInterrupted):
		fmt.Println("^C")
		return false, nil
	case err != nil:
		return false, fmt.Errorf("reading line: %w", err)
	}
	if cfg.MaskRune() != 0 {
		fmt.Printf("read %d runes (hidden)\n", utf8.RuneCountInString(s))
	} else {
		fmt.Printf("read: %q\n", s)
	}
	return false, nil
}
