// Package main is the entry point for the timeline shell.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tsabi/o-spreadsheet-sub001/internal/config"
	"github.com/tsabi/o-spreadsheet-sub001/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("timeline", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var showVersion bool
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "timeline - branching undo/redo shell\n\n")
		fmt.Fprintf(stderr, "Usage: timeline [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEnvironment variables TIMELINE_DOMAIN, TIMELINE_LOG_LEVEL, TIMELINE_LOG_FORMAT,\n")
		fmt.Fprintf(stderr, "TIMELINE_RULES and TIMELINE_RULE_TIMEOUT set the defaults.\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  timeline                     Edit plain text\n")
		fmt.Fprintf(stderr, "  timeline -domain json        Edit a JSON object\n")
		fmt.Fprintf(stderr, "  timeline -rules shift.lua    Rebase with Lua rules\n")
	}

	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "timeline %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	logCfg := cfg.Logging()
	logCfg.Output = stderr
	logger := logging.New(logCfg)

	sh, cleanup, err := newShell(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := repl(sh, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
