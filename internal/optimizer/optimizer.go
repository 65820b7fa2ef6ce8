// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package optimizer implements spec.md §6.1's `-O0|-O1|-O2|-O3|-Os` flags
// over the analyzed tree. Grounded on original_source/optimizer.h's
// OptimizationLevel bitmask, which this package mirrors exactly; the
// original's own optimizer.c ships every pass as an empty stub (no body
// beyond the header include), so only constant folding — cheap, mechanical,
// and side-effect-free — is actually implemented here. Dead-code
// elimination, peephole optimization, and inlining are left as documented
// no-ops, matching the original's own unimplemented state (spec.md §1's
// "optional optimizer pass" is named only at its interface).
package optimizer

import "github.com/mdhender/lync/internal/ast"

// Level is a bitmask of which passes to run, mirroring
// original_source/optimizer.h's OptimizationLevel enum.
type Level int

const (
	None      Level = 0
	ConstFold Level = 1 << 0
	DeadCode  Level = 1 << 1
	Peephole  Level = 1 << 2
	Inline    Level = 1 << 3
	All       Level = ConstFold | DeadCode | Peephole | Inline
)

// LevelFromFlag maps spec.md §6.1's `-O0..-Os` CLI flags onto Level, per
// the flag's own gloss: "none / fold / +dead+peephole / +inline / size".
func LevelFromFlag(flag string) Level {
	switch flag {
	case "-O0":
		return None
	case "-O1":
		return ConstFold
	case "-O2":
		return ConstFold | DeadCode | Peephole
	case "-O3":
		return ConstFold | DeadCode | Peephole | Inline
	case "-Os":
		return ConstFold | DeadCode
	default:
		return None
	}
}

// Run applies the passes level selects to every function body in prog.
// Passes beyond constant folding are no-ops by design (see package doc).
func Run(prog *ast.Program, level Level) {
	if level&ConstFold == 0 {
		return
	}
	for i := range prog.Funcs {
		foldStmt(&prog.Funcs[i].Body)
	}
	// DeadCode, Peephole, and Inline intentionally unimplemented — see
	// package doc; original_source/optimizer.c never filled them in either.
}
