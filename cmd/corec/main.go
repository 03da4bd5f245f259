/*
Corec is a minimal demonstration driver for the corelang toolchain
(SPEC_FULL.md §8: "intentionally minimal and not a spec'd module" — it
exists only to give the config/logging/readline ambient stack somewhere
to run). It loads a session, lexes and parses one block of source text
against a small built-in identifier-list grammar, and prints the
resulting AST and any notices.

Usage:

	corec [flags]

The flags are:

	-v, --version
		Print the current corelang version and exit.

	-c, --config FILE
		Load session configuration from the given TOML file. If omitted,
		built-in defaults are used (see internal/config.Config.FillDefaults).

	-d, --direct
		Read source text directly from stdin instead of through GNU
		readline, even if stdin is a terminal.

	-t, --trace
		Enable verbose parser-trace and Note-severity notice output.

	-s, --snapshot FILE
		Open (creating if needed) a sqlite snapshot store at the given path
		and checkpoint the grammar into it labeled "corec-session" before
		parsing.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/alusus-go/corelang/internal/charstream"
	"github.com/alusus-go/corelang/internal/config"
	"github.com/alusus-go/corelang/internal/corelog"
	"github.com/alusus-go/corelang/internal/grammar"
	"github.com/alusus-go/corelang/internal/lex"
	"github.com/alusus-go/corelang/internal/session"
	"github.com/alusus-go/corelang/internal/snapshot"
	"github.com/alusus-go/corelang/internal/version"
)

const (
	ExitSuccess = iota
	ExitInitError
	ExitParseError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Print the current corelang version and exit")
	configFile   = pflag.StringP("config", "c", "", "Path to a session configuration TOML file")
	forceDirect  = pflag.BoolP("direct", "d", false, "Read source directly from stdin instead of through readline")
	trace        = pflag.BoolP("trace", "t", false, "Enable verbose parser-trace and Note-severity notice output")
	snapshotFile = pflag.StringP("snapshot", "s", "", "Checkpoint the grammar to a sqlite snapshot store at this path before parsing")
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

	fc := config.Config{}
	if *configFile != "" {
		var err error
		fc, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitInitError
			return
		}
	}
	fc = fc.FillDefaults()
	if err := fc.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid config: %s\n", err)
		returnCode = ExitInitError
		return
	}

	logger := corelog.NewLogger(os.Stdout)
	logger.SetVerbose(*trace)

	// the session installs its Logger as the parser's trace listener, so it
	// only gets one when -t asks for trace output
	var traceLogger *corelog.Logger
	if *trace {
		traceLogger = logger
	}
	cfg := session.FromFileConfig(fc, nil, nil, traceLogger)
	s := session.New(cfg)
	buildDemoGrammar(s)

	if *snapshotFile != "" {
		store, err := snapshot.Open(*snapshotFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: opening snapshot store: %s\n", err)
			returnCode = ExitInitError
			return
		}
		defer store.Close()
		s.Snapshots = store

		if _, err := s.Checkpoint(context.Background(), "corec-session"); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: checkpointing grammar: %s\n", err)
			returnCode = ExitInitError
			return
		}
	}

	src, err := readSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitInitError
		return
	}

	node, err := s.Parse("<stdin>", s.StartSymbol, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitParseError
		return
	}

	logger.LogNotices(s.Notices)
	if node != nil {
		if err := logger.RenderTree(node); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: rendering tree: %s\n", err)
		}
	}
	if s.Notices.HasErrorOrFatal() {
		returnCode = ExitParseError
	}
}

// readSource reads one block of input text, via readline unless -d/--direct
// is given or stdin is not a terminal.
func readSource() (string, error) {
	if *forceDirect {
		src := charstream.NewBatchSource(os.Stdin)
		defer src.Close()
		return src.ReadAll()
	}

	is, err := charstream.NewInteractiveSource()
	if err != nil {
		// fall back to batch reading (e.g. stdin is a pipe, not a tty)
		src := charstream.NewBatchSource(os.Stdin)
		defer src.Close()
		return src.ReadAll()
	}
	defer is.Close()
	return is.ReadAll()
}

// buildDemoGrammar registers a small comma-separated identifier-list
// grammar under s.StartSymbol so the ambient stack (config, logging,
// readline, snapshotting) has something to lex and parse. This is
// deliberately not a spec'd module (SPEC_FULL.md §8 names "example
// plug-in" as a Non-goal); it exists only so corec can be run at all.
func buildDemoGrammar(s *session.Session) {
	start := s.StartSymbol
	s.Grammar.SetSymbol(start, grammar.Concat(
		grammar.TokenTerm("id", ""),
		grammar.Multiply(
			grammar.Concat(grammar.Const(","), grammar.TokenTerm("id", "")),
			0, -1, 0,
		),
	))

	s.LexCompiler().AddClass(lex.MakeClass("id"))
	_ = s.LexCompiler().AddPattern(lex.Definition{
		Pattern: `[a-zA-Z][a-zA-Z0-9_]*`, Action: lex.LexAs("id"), Priority: 1,
	})
	_ = s.LexCompiler().AddPattern(lex.Definition{
		Pattern: `[ \t\n]`, Action: lex.Discard(),
	})
}
