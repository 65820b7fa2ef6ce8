// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Command lync is the compiler's CLI entrypoint (spec.md §6.1), rebuilt on
// github.com/spf13/cobra per SPEC_FULL.md §4.1 — the teacher's go.mod
// already required cobra (and its pflag/mousetrap transitive deps) even
// though cmd/guanabana/main.go used the standard library's flag package
// directly; this gives that declared dependency a real home.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/mdhender/lync/internal/backend"
	"github.com/mdhender/lync/internal/clipretty"
	"github.com/mdhender/lync/internal/diag"
	"github.com/mdhender/lync/internal/emit"
	"github.com/mdhender/lync/internal/includes"
	"github.com/mdhender/lync/internal/lexer"
	"github.com/mdhender/lync/internal/optimizer"
	"github.com/mdhender/lync/internal/parser"
	"github.com/mdhender/lync/internal/sema"
)

var version = semver.Version{
	Minor:      1,
	PreRelease: "alpha",
}

// defaultInputPath is the built-in relative path spec.md §6.1 calls for
// when no input file is given on the command line.
const defaultInputPath = "main.lync"

// options collects every flag spec.md §6.1 names, shared between the root
// command (compile only) and the `run` subcommand (compile then execute).
type options struct {
	output  string
	asm     bool
	emitC   bool
	trace   bool
	noColor bool
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:           "lync [flags] [input-file]",
		Short:         "lync: a single-pass AOT compiler with ownership/null-safety analysis",
		Version:       version.String(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileCommand(cmd, args, opts, false)
		},
	}
	bindFlags(root, opts)
	root.SetVersionTemplate("lync version {{.Version}}\n")

	run := &cobra.Command{
		Use:           "run [flags] [input-file]",
		Short:         "compile and immediately execute the result, propagating its exit code",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileCommand(cmd, args, opts, true)
		},
	}
	bindFlags(run, opts)
	root.AddCommand(run)

	// pflag reads a single-dash word as a run of one-letter shorthands, so
	// the single-dash spellings of the long switches are rewritten to their
	// double-dash form before cobra parses them.
	args := append([]string(nil), os.Args[1:]...)
	for i, arg := range args {
		if arg == "--" {
			break
		}
		switch arg {
		case "-trace", "-no-color", "-O0", "-O1", "-O2", "-O3", "-Os":
			args[i] = "-" + arg
		}
	}
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func bindFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.output, "o", "o", "", "executable name")
	cmd.Flags().BoolVarP(&opts.asm, "S", "S", false, "write a stub x86-64 assembly file (function prologues/epilogues only; function bodies are not lowered)")
	cmd.Flags().BoolVar(&opts.emitC, "emit-c", false, "keep the intermediate C file")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "enable stage-prefixed trace logging on the error stream")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "suppress ANSI color")
	for _, lvl := range []string{"O0", "O1", "O2", "O3", "Os"} {
		cmd.Flags().Bool(lvl, false, fmt.Sprintf("set optimization level -%s", lvl))
	}
}

// resolvedOptLevel reports which of the `-O0|-O1|-O2|-O3|-Os` switches was
// set, defaulting to `-O0`. cobra/pflag has no native "one of several
// boolean switches" flag group, so each level is its own boolean flag and
// this looks them up in order; main rewrites the single-dash spelling
// (`-O2`) to the double-dash form pflag parses.
func resolvedOptLevel(cmd *cobra.Command) string {
	for _, lvl := range []string{"O0", "O1", "O2", "O3", "Os"} {
		if f := cmd.Flags().Lookup(lvl); f != nil && f.Changed {
			return "-" + lvl
		}
	}
	return "-O0"
}

func setupLogger(trace bool) {
	level := slog.LevelWarn
	if trace {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler))
}

// traceStage logs a single stage-prefixed line, mirroring
// original_source/common.h's stage_trace macro's "[stage:trace] message"
// shape (spec.md §4.2).
func traceStage(trace bool, stage, format string, args ...any) {
	if !trace {
		return
	}
	fmt.Fprintf(os.Stderr, "[%s:trace] %s\n", stage, fmt.Sprintf(format, args...))
}

func compileCommand(cmd *cobra.Command, args []string, opts *options, runAfter bool) error {
	setupLogger(opts.trace)

	inputPath := defaultInputPath
	if len(args) == 1 {
		inputPath = args[0]
	}

	printer := clipretty.NewPrinter(os.Stderr, opts.noColor)
	sink := diag.NewSink()

	src, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lync: cannot read %s: %v\n", inputPath, err)
		return err
	}

	traceStage(opts.trace, "lexer", "tokenizing %s", inputPath)
	toks, lexDiags := lexer.Tokenize(inputPath, src)
	for _, d := range lexDiags {
		if d.Warn {
			sink.Warning(diag.StageLexer, d.Pos, "%s", d.Message)
		} else {
			sink.Error(diag.StageLexer, d.Pos, "%s", d.Message)
		}
	}

	traceStage(opts.trace, "parser", "parsing %s", inputPath)
	p := parser.New(sink, os.Stderr, toks)
	prog := p.ParseProgram()

	traceStage(opts.trace, "includes", "resolving using-statements")
	includes.New(sink, filepath.Dir(inputPath)).Resolve(prog)

	if sink.HasErrors() {
		printer.PrintAll(sink)
		return fmt.Errorf("compilation failed")
	}

	traceStage(opts.trace, "analyzer", "analyzing %d function(s)", len(prog.Funcs))
	sema.New(sink).AnalyzeProgram(prog)
	if sink.HasErrors() {
		printer.PrintAll(sink)
		return fmt.Errorf("compilation failed")
	}

	level := optimizer.LevelFromFlag(resolvedOptLevel(cmd))
	traceStage(opts.trace, "optimizer", "running passes for %s", resolvedOptLevel(cmd))
	optimizer.Run(prog, level)

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outExe := opts.output
	if outExe == "" {
		outExe = base
	}

	if opts.asm {
		asmPath := base + ".s"
		f, err := os.Create(asmPath)
		if err != nil {
			return err
		}
		backend.EmitAssemblyStub(f, prog)
		f.Close()
		fmt.Fprintf(os.Stderr, "lync: wrote %s\n", asmPath)
		printer.PrintAll(sink)
		return nil
	}

	cPath := base + ".c"
	cFile, err := os.Create(cPath)
	if err != nil {
		return err
	}
	traceStage(opts.trace, "codegen", "emitting %s", cPath)
	emit.New(cFile).Emit(prog)
	cFile.Close()

	if !opts.emitC {
		defer os.Remove(cPath)
	}

	compiler, err := backend.FindCompiler()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lync: %v\n", err)
		printer.PrintAll(sink)
		return err
	}
	traceStage(opts.trace, "backend", "invoking %s", compiler)
	if err := backend.Compile(compiler, cPath, outExe); err != nil {
		printer.PrintAll(sink)
		return err
	}

	printer.PrintAll(sink)

	if !runAfter {
		return nil
	}

	exePath := outExe
	if !filepath.IsAbs(exePath) {
		exePath = "./" + exePath
	}
	runErr := backend.Run(exePath, nil)
	// os.Exit skips deferred calls, so the intermediate C file is removed
	// here.
	if !opts.emitC {
		os.Remove(cPath)
	}
	os.Exit(backend.ExitCode(runErr))
	return nil
}
