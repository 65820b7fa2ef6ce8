// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import (
	"fmt"

	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
	"github.com/mdhender/lync/internal/token"
)

// Analyzer walks an ast.Program, populating symbol scopes, resolving every
// call site to a concrete signature, mutating symbol state for
// moves/frees, and reporting diagnostics (spec.md §2 step 6).
//
// Grounded on original_source/analyzer.c's analyze_program/analyze_stmt/
// analyze_expr structure; generalized to arrays, nullability, and refs
// per spec.md's fuller ownership model.
type Analyzer struct {
	Sink    *diag.Sink
	Funcs   *FunctionRegistry
	Imports *ImportRegistry

	currentFunc *ast.FuncSignature
}

// New creates an Analyzer reporting into sink.
func New(sink *diag.Sink) *Analyzer {
	return &Analyzer{
		Sink:    sink,
		Funcs:   NewFunctionRegistry(),
		Imports: NewImportRegistry(),
	}
}

// AnalyzeProgram runs the full pipeline over prog: import processing,
// signature registration, then per-function body analysis. It never
// returns early on error — spec.md §7's "analysis continues to collect as
// many diagnostics as possible".
func (a *Analyzer) AnalyzeProgram(prog *ast.Program) {
	a.processImports(prog)
	a.registerSignatures(prog)

	global := NewScope(nil)
	for i := range prog.Funcs {
		a.analyzeFunc(global, &prog.Funcs[i])
	}
}

func (a *Analyzer) processImports(prog *ast.Program) {
	for _, imp := range prog.Imports {
		if len(imp.Module) != 2 || imp.Module[0] != "std" || imp.Module[1] != "io" {
			// Non-std.* modules are resolved to files by internal/includes
			// before the analyzer ever sees the program; by the time we get
			// here, any surviving non-std import is either a std module we
			// don't recognize or the includer already inlined the target
			// file's functions. Either way the import list itself carries
			// no further semantic meaning for std.io gating.
			continue
		}
		if imp.All {
			a.Imports.ImportAll()
			continue
		}
		for _, name := range imp.Names {
			a.Imports.Import(name)
		}
	}
}

func (a *Analyzer) registerSignatures(prog *ast.Program) {
	sawMain := false
	for i := range prog.Funcs {
		f := &prog.Funcs[i]
		sig := f.Signature

		if ast.ReservedNames[sig.Name] {
			a.Sink.Error(diag.StageAnalyzer, sig.Pos, "function name '%s' is reserved and cannot be redefined", sig.Name)
			continue
		}

		if sig.Name == "main" {
			sawMain = true
			if sig.ReturnType != ast.TypeInt || sig.ReturnOwn != ast.OwnNone {
				a.Sink.Error(diag.StageAnalyzer, sig.Pos, "function 'main' must return 'int'")
			}
			if len(sig.Params) > 0 {
				a.Sink.Error(diag.StageAnalyzer, sig.Pos, "function 'main' must take no parameters")
			}
		}

		if !a.Funcs.Register(sig) {
			a.Sink.Error(diag.StageAnalyzer, sig.Pos, "function '%s' is defined more than once with the same parameter types and ownership", sig.Name)
		}
	}
	if !sawMain {
		a.Sink.Error(diag.StageAnalyzer, token.Position{}, "program has no 'main' function")
	}
}

func (a *Analyzer) analyzeFunc(global *Scope, f *ast.Func) {
	a.currentFunc = f.Signature
	scope := NewScope(global)

	for _, p := range f.Signature.Params {
		sym := &Symbol{
			Name: p.Name, Type: p.Type, Ownership: p.Ownership,
			Nullable: p.Nullable, Const: p.Const, Array: p.Array,
			State: Alive, DeclaredAt: p.Pos,
		}
		a.declare(scope, sym)
	}

	a.analyzeStmt(scope, &f.Body)
	a.checkFunctionCleanup(scope)
	a.currentFunc = nil
}

// declare wraps Scope.Declare, turning its failure modes into diagnostics.
// Per spec.md §9's Open Question, each branch names the ACTUAL colliding
// name rather than reusing a sibling branch's message.
func (a *Analyzer) declare(scope *Scope, sym *Symbol) (*Symbol, bool) {
	got, errKind := scope.Declare(sym)
	switch errKind {
	case DeclareErrorReserved:
		a.Sink.Error(diag.StageAnalyzer, sym.DeclaredAt, "'%s' is a reserved name and cannot be used as a variable", sym.Name)
		return nil, false
	case DeclareErrorDuplicate:
		a.Sink.Error(diag.StageAnalyzer, sym.DeclaredAt, "variable '%s' already declared in this scope", sym.Name)
		return nil, false
	default:
		return got, true
	}
}

// checkFunctionCleanup implements spec.md §4.6's end-of-scope cleanup: any
// `own`, non-nullable symbol still alive at scope end is a leak. Run at
// every block end, every match-branch end, and every function end.
func (a *Analyzer) checkFunctionCleanup(scope *Scope) {
	for _, sym := range scope.Symbols() {
		if sym.Ownership == ast.OwnOwn && sym.State == Alive && !sym.Nullable {
			a.Sink.Error(diag.StageAnalyzer, sym.DeclaredAt, "Memory leak: '%s' is not freed or moved", sym.Name)
		}
	}
}

func typeMismatchMsg(ctx string, want, got ast.TypeTag) string {
	return fmt.Sprintf("%s: expected %s, got %s", ctx, want, got)
}
