// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package emit

import "github.com/mdhender/lync/internal/ast"

// emitExpr writes e's C translation with automatic dereference of pointer
// (own/ref) variable reads — spec.md §4.8's first invariant. The two
// exceptions it calls out (pattern tests, passing to own parameters) are
// handled by callers using emitExprNoDeref instead of this function, not by
// a flag threaded through here, mirroring original_source/codegen.c's
// emit_expr structure of one function per call site's needs.
func (e *Emitter) emitExpr(x *ast.Expr) {
	if x == nil {
		return
	}
	switch x.Kind {
	case ast.IntLit:
		e.printf("%d", x.IntVal)
	case ast.BoolLit:
		if x.BoolVal {
			e.printf("true")
		} else {
			e.printf("false")
		}
	case ast.StrLit:
		e.printf("%q", x.StrVal)
	case ast.NullLit:
		e.printf("NULL")
	case ast.VarUse:
		e.emitVarRead(x)
	case ast.Index:
		e.emitExprNoDeref(x.Array)
		e.printf("[")
		e.emitExpr(x.IndexExpr)
		e.printf("]")
	case ast.ArrayLit:
		e.printf("{")
		for i, el := range x.Elements {
			if i > 0 {
				e.printf(", ")
			}
			e.emitExpr(el)
		}
		e.printf("}")
	case ast.UnaryOp:
		e.printf("(%s", x.Op)
		e.emitExpr(x.Right)
		e.printf(")")
	case ast.BinaryOp:
		e.printf("(")
		e.emitExpr(x.Left)
		e.printf(" %s ", x.Op)
		e.emitExpr(x.Right)
		e.printf(")")
	case ast.Call:
		e.emitCall(x)
	case ast.Return:
		// Return is lowered by emitStmt (it needs statement-level context for
		// the scratch-variable match case); reaching here means a bare return
		// expression was nested somewhere emitExpr didn't expect.
		e.printf("/* unexpected nested return */")
	case ast.Match:
		e.printf("/* match used as a sub-expression is lowered via emitAssignExprToVar at its enclosing statement */")
	case ast.SomeTest:
		e.printf("(%s != NULL)", x.SomeName)
	case ast.Alloc:
		// alloc appears only as a VarDecl initializer, an assignment's value,
		// or a return value; emitStmt lowers each of those to malloc +
		// assignment directly and never recurses into emitExpr for the Alloc
		// node itself.
		e.printf("/* unexpected bare alloc */")
	case ast.Void:
		e.printf("/* _ */")
	}
}

// emitVarRead writes a variable-use read, dereferencing pointer (own/ref)
// symbols automatically.
func (e *Emitter) emitVarRead(x *ast.Expr) {
	if x.Ownership != ast.OwnNone {
		e.printf("(*%s)", x.Name)
		return
	}
	e.printf("%s", x.Name)
}

// emitExprNoDeref writes x without the automatic pointer dereference —
// spec.md §4.8's exceptions: pattern tests (SomeTest, and an Index's array
// subject, which must stay a pointer/array value) and passing an own/ref
// variable to an own/ref parameter or declaration, where the pointer value
// itself is what moves.
func (e *Emitter) emitExprNoDeref(x *ast.Expr) {
	if x != nil && x.Kind == ast.VarUse {
		e.printf("%s", x.Name)
		return
	}
	e.emitExpr(x)
}

// emitCall lowers a call node: print's variadic printf assembly, length's
// already-folded-to-a-literal case (handled transparently since the
// analyzer rewrote the node to an IntLit), and ordinary calls via the
// resolved signature's mangled name.
func (e *Emitter) emitCall(x *ast.Expr) {
	switch x.Builtin {
	case ast.BuiltinPrint:
		e.emitPrintCall(x)
		return
	case ast.BuiltinReadInt:
		e.printf("lync_read_int()")
		return
	case ast.BuiltinReadStr:
		e.printf("lync_read_str()")
		return
	case ast.BuiltinReadBool:
		e.printf("lync_read_bool()")
		return
	case ast.BuiltinReadChar:
		e.printf("lync_read_char()")
		return
	case ast.BuiltinReadKey:
		e.printf("lync_read_key()")
		return
	}

	if x.Resolved == nil {
		e.printf("/* ERROR: unresolved function %s */", x.Name)
		return
	}
	e.printf("%s(", mangledName(x.Resolved))
	for i, arg := range x.Args {
		if i > 0 {
			e.printf(", ")
		}
		if i < len(x.Resolved.Params) && x.Resolved.Params[i].Ownership != ast.OwnNone {
			e.emitExprNoDeref(arg)
		} else {
			e.emitExpr(arg)
		}
	}
	e.printf(")")
}

// emitPrintCall assembles one printf call from the argument list: a format
// string built per-argument-tag, then the arguments themselves (bool
// arguments wrapped as a ternary), followed by a trailing newline — spec.md
// §4.8, ported directly from original_source/codegen.c's FUNC_CALL_E/print
// case.
func (e *Emitter) emitPrintCall(x *ast.Expr) {
	e.printf("printf(\"")
	for i, arg := range x.Args {
		switch arg.ResolvedType {
		case ast.TypeInt:
			e.printf("%%lld")
		case ast.TypeBool, ast.TypeStr:
			e.printf("%%s")
		case ast.TypeChar:
			e.printf("%%c")
		}
		if i < len(x.Args)-1 {
			e.printf(" ")
		}
	}
	e.printf("\\n\"")
	for _, arg := range x.Args {
		e.printf(", ")
		if arg.ResolvedType == ast.TypeBool {
			e.printf("(")
			e.emitExpr(arg)
			e.printf(" ? \"true\" : \"false\")")
		} else if arg.ResolvedType == ast.TypeInt {
			e.printf("(long long)")
			e.emitExpr(arg)
		} else {
			e.emitExpr(arg)
		}
	}
	e.printf(")")
}
