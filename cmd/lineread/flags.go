// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports -prompt, -history, -timeout, -plain, -mask, -verbose, -version

package main

import "flag"

type cliArgs struct {
	prompt  string
	history string
	timeout int
	plain   bool
	mask    bool
	verbose bool
	version bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.prompt, "prompt", "", "Prompt text (overrides config)")
	flag.StringVar(&args.history, "history", "", "History file path (overrides config)")
	flag.IntVar(&args.timeout, "timeout", 0, "Escape disambiguation timeout in milliseconds")
	flag.BoolVar(&args.plain, "plain", false, "Read with the core decoder only, no line editing")
	flag.BoolVar(&args.mask, "mask", false, "Mask typed input with *")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}
