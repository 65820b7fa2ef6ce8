// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package emit lowers an analyzed ast.Program into a self-contained C
// translation unit (spec.md §4.8). It is the only stage downstream of
// sema that still needs to know about C at all — internal/backend treats
// whatever this package writes as an opaque file to hand to a system
// compiler.
//
// Grounded directly on original_source/codegen.c: mangled-name
// construction (get_mangled_name), the forward-declare-then-define pass
// structure (generate_code's two loops), the scratch-variable lowering of
// expression-form match (emit_assign_expr_to_var), and the print format
// string assembly. Extended for this repository's fuller data model:
// arrays (own/ref/plain, literal-sized), nullable pointers (NULL checks
// instead of original_source's values-only VAR_E), and cascading
// array-of-owned free.
package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/mdhender/lync/internal/ast"
)

// Emitter walks one ast.Program and writes the equivalent C source to Out.
type Emitter struct {
	out io.Writer

	usesReadInt, usesReadStr, usesReadBool, usesReadChar, usesReadKey bool
}

// New creates an Emitter writing to out.
func New(out io.Writer) *Emitter {
	return &Emitter{out: out}
}

func (e *Emitter) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

// Emit writes the full translation unit for prog: headers, the reader
// preamble (only for builtins the program actually calls), forward
// declarations, then function bodies (spec.md §4.8).
func (e *Emitter) Emit(prog *ast.Program) {
	e.scanBuiltinUsage(prog)

	e.printf("#include <stdio.h>\n")
	e.printf("#include <stdlib.h>\n")
	e.printf("#include <stdint.h>\n")
	e.printf("#include <stdbool.h>\n")
	e.printf("#include <string.h>\n")
	if e.usesReadKey {
		e.printf("#if defined(_WIN32)\n#include <conio.h>\n#else\n#include <termios.h>\n#include <unistd.h>\n#endif\n")
	}
	e.printf("\n")

	e.emitReaderPreamble()

	for i := range prog.Funcs {
		e.emitFuncDecl(&prog.Funcs[i])
	}
	e.printf("\n")
	for i := range prog.Funcs {
		e.emitFunc(&prog.Funcs[i])
		e.printf("\n")
	}
}

// scanBuiltinUsage walks every call node to find which std.io readers are
// actually invoked, so the preamble only defines (and only conditionally
// includes platform headers for) what the program uses — spec.md §4.8's
// "the preamble includes platform-conditional headers only when read_key
// is actually used".
func (e *Emitter) scanBuiltinUsage(prog *ast.Program) {
	var walkStmt func(s *ast.Stmt)
	var walkExpr func(x *ast.Expr)

	walkExpr = func(x *ast.Expr) {
		if x == nil {
			return
		}
		if x.Kind == ast.Call {
			switch x.Builtin {
			case ast.BuiltinReadInt:
				e.usesReadInt = true
			case ast.BuiltinReadStr:
				e.usesReadStr = true
			case ast.BuiltinReadBool:
				e.usesReadBool = true
			case ast.BuiltinReadChar:
				e.usesReadChar = true
			case ast.BuiltinReadKey:
				e.usesReadKey = true
			}
		}
		walkExpr(x.Left)
		walkExpr(x.Right)
		walkExpr(x.Array)
		walkExpr(x.IndexExpr)
		walkExpr(x.RetValue)
		walkExpr(x.Subject)
		walkExpr(x.AllocValue)
		for _, el := range x.Elements {
			walkExpr(el)
		}
		for _, a := range x.Args {
			walkExpr(a)
		}
		for _, br := range x.Branches {
			walkExpr(br.Body)
		}
	}

	walkStmt = func(s *ast.Stmt) {
		if s == nil {
			return
		}
		walkExpr(s.Init)
		walkExpr(s.Value)
		walkExpr(s.IndexExpr)
		walkExpr(s.Cond)
		walkExpr(s.Min)
		walkExpr(s.Max)
		walkExpr(s.Subject)
		walkExpr(s.Expr)
		walkStmt(s.Then)
		walkStmt(s.Else)
		walkStmt(s.Body)
		for _, sub := range s.Stmts {
			walkStmt(sub)
		}
		for _, br := range s.Branches {
			for _, sub := range br.Stmts {
				walkStmt(sub)
			}
		}
	}

	for i := range prog.Funcs {
		walkStmt(&prog.Funcs[i].Body)
	}
}

// cBaseType maps a type tag to its C spelling, ignoring ownership.
func cBaseType(t ast.TypeTag) string {
	switch t {
	case ast.TypeInt:
		return "int64_t"
	case ast.TypeBool:
		return "bool"
	case ast.TypeStr:
		return "char*"
	case ast.TypeChar:
		return "char"
	case ast.TypeVoid:
		return "void"
	default:
		return "/* invalid type */ void"
	}
}

// cType maps (type, ownership) to the C type used for a declaration or
// parameter: `own`/`ref` symbols are pointers (spec.md §4.8's first
// invariant), a plain value is not.
func cType(t ast.TypeTag, own ast.Ownership) string {
	base := cBaseType(t)
	if own != ast.OwnNone {
		return base + "*"
	}
	return base
}

// mangledName implements spec.md §4.8's `<name>_<ret-tag>_<param-tag[own|
// ref]…>` scheme (original_source/codegen.c's get_mangled_name, ported to
// this package's TypeTag/Ownership vocabulary). Unlike the C original's
// fixed-size buffer plus a duplicate-collision counter, this is a pure
// function of the signature — and since FunctionRegistry.Register already
// rejects a signature equal by (name, arity, per-param type+ownership), no
// two registered signatures can ever produce the same mangled name, so the
// collision-avoidance machinery original_source carries is unnecessary.
func mangledName(sig *ast.FuncSignature) string {
	if sig.Name == "main" {
		return "main"
	}
	var b strings.Builder
	b.WriteString(sig.Name)
	b.WriteByte('_')
	b.WriteString(sig.ReturnType.String())
	for _, p := range sig.Params {
		b.WriteByte('_')
		b.WriteString(p.Type.String())
		if p.Ownership != ast.OwnNone {
			b.WriteString(p.Ownership.String())
		}
	}
	return b.String()
}

func (e *Emitter) emitParamList(params []ast.Param) {
	for i, p := range params {
		if i > 0 {
			e.printf(", ")
		}
		e.printf("%s %s", cType(p.Type, p.Ownership), p.Name)
	}
	if len(params) == 0 {
		e.printf("void")
	}
}

func (e *Emitter) emitFuncDecl(f *ast.Func) {
	if f.Signature.Name == "main" {
		return
	}
	e.printf("%s %s(", cType(f.Signature.ReturnType, f.Signature.ReturnOwn), mangledName(f.Signature))
	e.emitParamList(f.Signature.Params)
	e.printf(");\n")
}

func (e *Emitter) emitFunc(f *ast.Func) {
	if f.Signature.Name == "main" {
		e.printf("int main(void)\n")
	} else {
		e.printf("%s %s(", cType(f.Signature.ReturnType, f.Signature.ReturnOwn), mangledName(f.Signature))
		e.emitParamList(f.Signature.Params)
		e.printf(")\n")
	}
	e.emitStmt(&f.Body, 0)
}

func indentStr(level int) string {
	return strings.Repeat("  ", level)
}
