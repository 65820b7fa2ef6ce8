// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package includes resolves spec.md §6.4's `using <name>.<name>.…(*|<ident>);`
// module statements: the `std.io` prelude is handled internally by
// internal/sema's ImportRegistry and never reaches this package; every other
// dotted module name is resolved to a file on disk, fully lexed and parsed,
// and its functions merged into the including program.
//
// Grounded on original_source/file_loader.h (resolve_module_path,
// load_and_parse_file, process_file_includes, MAX_INCLUDE_DEPTH 32).
package includes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
	"github.com/mdhender/lync/internal/lexer"
	"github.com/mdhender/lync/internal/parser"
)

// MaxIncludeDepth mirrors original_source/file_loader.h's
// MAX_INCLUDE_DEPTH — it bounds recursive includes so a circular chain
// fails with a diagnostic instead of recursing forever.
const MaxIncludeDepth = 32

// IsStdIO reports whether module is the std.io prelude, which this package
// never file-loads (spec.md §6.4: "handled internally, not file-loaded").
func IsStdIO(module []string) bool {
	return len(module) == 2 && module[0] == "std" && module[1] == "io"
}

// Resolver loads and merges non-std.* `using` targets for one compilation.
// loaded tracks already-resolved absolute paths to guard against circular
// includes across the whole resolution, not just the current chain.
type Resolver struct {
	sink      *diag.Sink
	sourceDir string
	loaded    map[string]bool
}

// New creates a Resolver rooted at sourceDir — the directory of the main
// .lync file, against which the main file's dotted module paths are
// resolved; an included file's own `using` statements are resolved against
// that file's directory (spec.md §6.4: "relative to the directory of the
// including file").
func New(sink *diag.Sink, sourceDir string) *Resolver {
	return &Resolver{sink: sink, sourceDir: sourceDir, loaded: map[string]bool{}}
}

// ResolvePath implements original_source/file_loader.h's
// resolve_module_path: dots become path separators and ".lync" is appended,
// resolved relative to dir.
func ResolvePath(module []string, dir string) string {
	rel := filepath.Join(module...) + ".lync"
	return filepath.Join(dir, rel)
}

// Resolve walks prog's non-std.* imports, loading and merging each included
// file's functions into prog in place. It is depth-first in `using`
// statement order, matching spec.md's registration-order requirement
// (DESIGN.md's Open Question on overload registration order).
func (r *Resolver) Resolve(prog *ast.Program) {
	r.resolveAt(prog, r.sourceDir, 0)
}

func (r *Resolver) resolveAt(prog *ast.Program, dir string, depth int) {
	for _, imp := range prog.Imports {
		if IsStdIO(imp.Module) {
			continue
		}
		r.resolveOne(prog, imp, dir, depth)
	}
}

func (r *Resolver) resolveOne(prog *ast.Program, imp ast.Import, dir string, depth int) {
	if depth >= MaxIncludeDepth {
		r.sink.Error(diag.StageParser, imp.Pos, "include depth exceeds maximum of %d (circular include in '%s'?)", MaxIncludeDepth, strings.Join(imp.Module, "."))
		return
	}

	path := ResolvePath(imp.Module, dir)
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if r.loaded[abs] {
		r.sink.Error(diag.StageParser, imp.Pos, "circular include: '%s' is already being loaded", strings.Join(imp.Module, "."))
		return
	}

	src, err := os.ReadFile(path)
	if err != nil {
		r.sink.Error(diag.StageParser, imp.Pos, "cannot load module '%s': %s", strings.Join(imp.Module, "."), err)
		return
	}

	r.loaded[abs] = true
	included := r.loadAndParse(path, src)
	if included == nil {
		return
	}

	r.resolveAt(included, filepath.Dir(path), depth+1)
	r.merge(prog, included, imp)
}

func (r *Resolver) loadAndParse(path string, src []byte) *ast.Program {
	toks, lexDiags := lexer.Tokenize(path, src)
	for _, d := range lexDiags {
		if d.Warn {
			r.sink.Warning(diag.StageLexer, d.Pos, "%s", d.Message)
		} else {
			r.sink.Error(diag.StageLexer, d.Pos, "%s", d.Message)
		}
	}

	p := parser.New(r.sink, os.Stderr, toks)
	return p.ParseProgram()
}

// merge appends included's functions into prog according to imp's `*` (all)
// or specific-name semantics (spec.md §6.4); a name listed in imp.Names that
// isn't found in included is an error, and a merge that would duplicate an
// already-registered signature is left for internal/sema's FunctionRegistry
// to reject (merging here is purely textual, matching the original's
// process_file_includes, which appends first and lets the analyzer's
// duplicate-signature check catch collisions).
func (r *Resolver) merge(prog, included *ast.Program, imp ast.Import) {
	if imp.All {
		prog.Funcs = append(prog.Funcs, included.Funcs...)
		return
	}

	for _, name := range imp.Names {
		found := false
		for _, fn := range included.Funcs {
			if fn.Signature.Name == name {
				prog.Funcs = append(prog.Funcs, fn)
				found = true
			}
		}
		if !found {
			r.sink.Error(diag.StageParser, imp.Pos, "function '%s' not found in module '%s'", name, strings.Join(imp.Module, "."))
		}
	}
}
