// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
)

// builtinKind maps a call's name to its ast.BuiltinCall tag, if any. Builtin
// names are reserved (ast.ReservedNames) so no user function can ever
// collide with them — the analyzer can tell them apart from ordinary calls
// by name alone, same as original_source/analyzer.c's is_builtin check.
func builtinKind(name string) (ast.BuiltinCall, bool) {
	switch name {
	case "print":
		return ast.BuiltinPrint, true
	case "length":
		return ast.BuiltinLength, true
	case "read_int":
		return ast.BuiltinReadInt, true
	case "read_str":
		return ast.BuiltinReadStr, true
	case "read_bool":
		return ast.BuiltinReadBool, true
	case "read_char":
		return ast.BuiltinReadChar, true
	case "read_key":
		return ast.BuiltinReadKey, true
	default:
		return ast.NotBuiltin, false
	}
}

func (a *Analyzer) analyzeCall(scope *Scope, e *ast.Expr) ast.TypeTag {
	if kind, ok := builtinKind(e.Name); ok {
		e.Builtin = kind
		switch kind {
		case ast.BuiltinPrint:
			return a.analyzePrintCall(scope, e)
		case ast.BuiltinLength:
			return a.analyzeLengthCall(scope, e)
		default:
			return a.analyzeReaderCall(scope, e, kind)
		}
	}

	argTypes := make([]ast.TypeTag, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.AnalyzeExpr(scope, arg)
	}
	sig := a.resolveOverload(scope, e, argTypes)
	if sig == nil {
		return ast.TypeInvalid
	}
	return sig.ReturnType
}

// analyzePrintCall implements spec.md §4.4's print(...): variadic, but every
// argument must be a printable type (int, bool, or str — §7's
// "printable-type restriction"), and calling it with no arguments at all is
// suspicious enough to warn on rather than silently accept.
func (a *Analyzer) analyzePrintCall(scope *Scope, e *ast.Expr) ast.TypeTag {
	if len(e.Args) == 0 {
		a.Sink.Warning(diag.StageAnalyzer, e.Pos, "print() with no arguments does nothing")
	}
	for _, arg := range e.Args {
		t := a.AnalyzeExpr(scope, arg)
		// An array variable's type tag is its element type, so arrays are
		// caught by name before the tag check.
		if arg.Kind == ast.VarUse {
			if sym := scope.Lookup(arg.Name); sym != nil && sym.Array.IsArray {
				a.Sink.Error(diag.StageAnalyzer, arg.Pos, "print() cannot print array '%s'; only int, bool, and str are printable", sym.Name)
				continue
			}
		}
		if t != ast.TypeInvalid && t != ast.TypeInt && t != ast.TypeBool && t != ast.TypeStr {
			a.Sink.Error(diag.StageAnalyzer, arg.Pos, "print() cannot print a value of type %s; only int, bool, and str are printable", t)
		}
	}
	return ast.TypeVoid
}

// analyzeLengthCall implements spec.md §4.4's length(arr): exactly one
// array-variable argument, returning int. Per the DESIGN.md-recorded Open
// Question decision, length() errors on a dynamically-sized array (size not
// statically known) and on any array whose storage is a heap (`own`)
// allocation — matching spec.md §7's "errors on dynamic-size arrays and heap
// arrays" literally.
//
// Per spec.md §4.8 ("length(arr) has been replaced by a constant during
// analysis and therefore emits a literal"), a successful call folds the node
// in place into an IntLit carrying the array's static size — the emitter
// never needs to see a length() call at all.
func (a *Analyzer) analyzeLengthCall(scope *Scope, e *ast.Expr) ast.TypeTag {
	if len(e.Args) != 1 {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "length() takes exactly one argument")
		return ast.TypeInvalid
	}
	arg := e.Args[0]
	if arg.Kind != ast.VarUse {
		a.Sink.Error(diag.StageAnalyzer, arg.Pos, "length() requires an array variable")
		return ast.TypeInvalid
	}
	sym := a.lookupVarForUse(scope, arg)
	if sym == nil {
		return ast.TypeInvalid
	}
	if !sym.Array.IsArray {
		a.Sink.Error(diag.StageAnalyzer, arg.Pos, "'%s' is not an array", sym.Name)
		return ast.TypeInvalid
	}
	if sym.Array.ArraySize == ast.UnknownSize {
		a.Sink.Error(diag.StageAnalyzer, arg.Pos, "length() cannot be used on a dynamically-sized array")
		a.Sink.Note(diag.StageAnalyzer, arg.Pos, "'%s' was declared without a statically-known size", sym.Name)
		return ast.TypeInvalid
	}
	if sym.Ownership == ast.OwnOwn {
		a.Sink.Error(diag.StageAnalyzer, arg.Pos, "length() cannot be used on a heap-allocated 'own' array")
		a.Sink.Note(diag.StageAnalyzer, arg.Pos, "'%s' is an own array, whose storage is heap-allocated", sym.Name)
		return ast.TypeInvalid
	}
	*e = ast.Expr{Kind: ast.IntLit, Pos: e.Pos, IntVal: sym.Array.ArraySize, ResolvedType: ast.TypeInt}
	return ast.TypeInt
}

// analyzeReaderCall implements spec.md §4.4/§6.4's std.io reader built-ins:
// zero arguments, gated on an explicit `using std.io(...)` import.
func (a *Analyzer) analyzeReaderCall(scope *Scope, e *ast.Expr, kind ast.BuiltinCall) ast.TypeTag {
	if len(e.Args) != 0 {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "%s() takes no arguments", e.Name)
	}
	if !a.Imports.Allows(e.Name) {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "'%s' is not available: add 'using std.io(%s)' or 'using std.io(*)'", e.Name, e.Name)
		return ast.TypeInvalid
	}
	switch kind {
	case ast.BuiltinReadInt:
		return ast.TypeInt
	case ast.BuiltinReadStr:
		return ast.TypeStr
	case ast.BuiltinReadBool:
		return ast.TypeBool
	case ast.BuiltinReadChar, ast.BuiltinReadKey:
		return ast.TypeChar
	default:
		return ast.TypeInvalid
	}
}
