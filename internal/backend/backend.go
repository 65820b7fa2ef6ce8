// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package backend invokes the downstream C toolchain spec.md §6.1 names at
// its interface: detecting a system C compiler and shelling out to it on
// the emitted translation unit.
//
// Grounded on original_source/main.c's find_c_compiler (probing a
// platform-ordered candidate list via a shell `--version` check) and its
// cc_result/system(cmd) compile-and-link invocation.
package backend

import (
	"fmt"
	"os"
	"os/exec"
)

// candidates mirrors find_c_compiler's per-platform probe order: original
// tries "cc", "gcc", "clang" on POSIX and "gcc", "clang", "cl" on Windows.
// We probe the POSIX order plus "cl" appended, since Go binaries for this
// repo are expected to run under a POSIX-like PATH even when cross-built.
var candidates = []string{"cc", "gcc", "clang", "cl"}

// FindCompiler returns the first candidate found on PATH via exec.LookPath,
// matching find_c_compiler's first-match-wins probing — but using
// exec.LookPath instead of shelling out to "<name> --version", since Go
// already exposes that check without a subprocess.
func FindCompiler() (string, error) {
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no C compiler found on PATH (tried %v); install gcc, clang, or cc", candidates)
}

// Compile invokes compiler on cFile, producing outFile (an executable),
// mirroring the original's single `<cc> <flags> -o <out> <in>` invocation.
// Stdout/stderr are wired to the process's own, so compiler diagnostics
// reach the user directly.
func Compile(compiler, cFile, outFile string) error {
	cmd := exec.Command(compiler, cFile, "-o", outFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Run executes exeFile with args, propagating its exit code to the caller
// via the returned error (spec.md §6.1's `run` subcommand: "executes the
// compiled binary and propagates its exit code").
func Run(exeFile string, args []string) error {
	cmd := exec.Command(exeFile, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// ExitCode extracts a process exit code from an error returned by Run,
// defaulting to 1 for any error backend.Run didn't recognize as a normal
// non-zero exit (e.g. the binary couldn't be started at all).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return 1
}
