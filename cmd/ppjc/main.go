/*
Ppjc compiles one PPJ-C source file to FRISC assembly.

It reads an optional ppjc.toml configuration file from the current working
directory, then runs the lexer, LR(1) parser, semantic analyzer, and code
generator in sequence, writing each phase's output artifact to the
configured output directory as soon as that phase completes.

Usage:

	ppjc [flags] [lexer|syntax|semantic] source.c

The flags are:

	--version
		Print the compiler version and exit.

	-v, --verbose
		Log at debug level instead of info level.

	--cache
		Reuse a cached LR table when the grammar hash matches (default
		true). Pass --cache=false to force a fresh build.

	--conflicts
		Print every grammar conflict resolved while building the LR
		table to stderr when the run ends, whether or not the compile
		succeeded. A run that loads the table from the cache prints no
		conflicts, since the cache does not store them.

	-c, --config FILE
		Path to the TOML configuration file. Defaults to "ppjc.toml" in
		the current directory; a missing file is not an error.

With no subcommand, ppjc runs every phase and writes all five output
files. "lexer" stops after the token stream, "syntax" stops after the
derivation and abstract syntax trees, "semantic" stops after the scope
table.
*/
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/KarloKnezevic/ppjc/internal/config"
	"github.com/KarloKnezevic/ppjc/internal/driver"
	"github.com/KarloKnezevic/ppjc/internal/version"
)

const (
	// ExitSuccess indicates a clean compile (or a --version query).
	ExitSuccess = iota

	// ExitCompileError indicates the compiler detected a lexical,
	// syntactic, semantic, or I/O error and reported it.
	ExitCompileError

	// ExitUsageError indicates the command line itself was malformed.
	ExitUsageError
)

var (
	returnCode    = ExitSuccess
	flagVersion   = pflag.Bool("version", false, "Print the compiler version and exit")
	flagVerbose   = pflag.BoolP("verbose", "v", false, "Log at debug level")
	flagCache     = pflag.Bool("cache", true, "Reuse a cached LR table when the grammar hash matches")
	flagConflicts = pflag.Bool("conflicts", false, "Print every resolved grammar conflict to stderr")
	flagConfig    = pflag.StringP("config", "c", "ppjc.toml", "Path to the TOML configuration file")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	phase, sourcePath, err := parseArgs(pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: %s\n", err)
		returnCode = ExitUsageError
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitCompileError
		return
	}

	level := slog.LevelInfo
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	res, runErr := driver.Run(driver.Options{
		SourcePath: sourcePath,
		Phase:      phase,
		Config:     cfg,
		NoCache:    !*flagCache,
		Logger:     logger,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	})

	if *flagConflicts && res != nil {
		for _, c := range res.Conflicts {
			fmt.Fprintf(os.Stderr, "conflict: state %d, symbol %q (%s)\n", c.State, c.Symbol, c.Kind)
		}
	}

	if runErr != nil {
		returnCode = ExitCompileError
		return
	}
}

// parseArgs splits the positional arguments into an optional subcommand
// and the mandatory source path.
func parseArgs(args []string) (driver.Phase, string, error) {
	switch len(args) {
	case 1:
		return driver.PhaseCodegen, args[0], nil
	case 2:
		switch args[0] {
		case "lexer":
			return driver.PhaseLexer, args[1], nil
		case "syntax":
			return driver.PhaseSyntax, args[1], nil
		case "semantic":
			return driver.PhaseSemantic, args[1], nil
		default:
			return 0, "", fmt.Errorf("unknown subcommand %q (want lexer, syntax, or semantic)", args[0])
		}
	default:
		return 0, "", fmt.Errorf("ppjc [flags] [lexer|syntax|semantic] source.c")
	}
}
