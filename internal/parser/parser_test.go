// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package parser

import (
	"bytes"
	"testing"

	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
	"github.com/mdhender/lync/internal/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, diags := lexer.Tokenize("<test>", []byte(src))
	for _, d := range diags {
		if !d.Warn {
			t.Fatalf("unexpected lexer diagnostic: %s", d.Message)
		}
	}
	sink := diag.NewSink()
	var out bytes.Buffer
	p := New(sink, &out, toks)
	prog := p.ParseProgram()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors: %v\noutput: %s", sink.Messages(), out.String())
	}
	return prog
}

func TestParseMainReturningZero(t *testing.T) {
	prog := parseSource(t, `def main(): int { return 0; }`)
	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Funcs))
	}
	f := prog.Funcs[0]
	if f.Signature.Name != "main" || f.Signature.ReturnType != ast.TypeInt {
		t.Fatalf("unexpected signature: %+v", f.Signature)
	}
	if f.Body.Kind != ast.Block || len(f.Body.Stmts) != 1 {
		t.Fatalf("unexpected body: %+v", f.Body)
	}
	ret := f.Body.Stmts[0]
	if ret.Kind != ast.ExprStmt || ret.Expr.Kind != ast.Return {
		t.Fatalf("expected a return expr-stmt, got %+v", ret)
	}
	if ret.Expr.RetValue.Kind != ast.IntLit || ret.Expr.RetValue.IntVal != 0 {
		t.Fatalf("expected return 0, got %+v", ret.Expr.RetValue)
	}
}

func TestParseOwnAllocAndFree(t *testing.T) {
	prog := parseSource(t, `def main(): int {
		p: own int = alloc 7;
		free p;
		return 0;
	}`)
	body := prog.Funcs[0].Body.Stmts
	if len(body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(body))
	}
	decl := body[0]
	if decl.Kind != ast.VarDecl || decl.DeclOwn != ast.OwnOwn || decl.Init.Kind != ast.Alloc {
		t.Fatalf("unexpected decl: %+v", decl)
	}
	if body[1].Kind != ast.Free || body[1].FreeName != "p" {
		t.Fatalf("unexpected free: %+v", body[1])
	}
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	prog := parseSource(t, `def main(): int {
		xs: int[] = [1, 2, 3];
		xs[0] = 9;
		return xs[1];
	}`)
	body := prog.Funcs[0].Body.Stmts
	decl := body[0]
	if !decl.Array.IsArray || decl.Array.ArraySize != 3 {
		t.Fatalf("expected a 3-element array decl, got %+v", decl.Array)
	}
	assign := body[1]
	if assign.Kind != ast.IndexAssign || assign.Target != "xs" {
		t.Fatalf("unexpected index-assign: %+v", assign)
	}
	ret := body[2].Expr.RetValue
	if ret.Kind != ast.Index || ret.Array.Name != "xs" {
		t.Fatalf("unexpected index read: %+v", ret)
	}
}

func TestParseNullableMatchUnwrap(t *testing.T) {
	prog := parseSource(t, `def main(): int {
		p: own? int = null;
		match p {
			some(v): { free v; }
			null: { }
		};
		return 0;
	}`)
	body := prog.Funcs[0].Body.Stmts
	m := body[1]
	if m.Kind != ast.MatchStmt || len(m.Branches) != 2 {
		t.Fatalf("unexpected match: %+v", m)
	}
	if m.Branches[0].Pattern.Kind != ast.PatSome || m.Branches[0].Pattern.Binder != "v" {
		t.Fatalf("unexpected first branch: %+v", m.Branches[0])
	}
	if m.Branches[1].Pattern.Kind != ast.PatNull {
		t.Fatalf("unexpected second branch: %+v", m.Branches[1])
	}
}

func TestParseForCountedRange(t *testing.T) {
	prog := parseSource(t, `def main(): int {
		for (i: 0..=9) {
			print(i);
		}
		return 0;
	}`)
	loop := prog.Funcs[0].Body.Stmts[0]
	if loop.Kind != ast.ForCounted || loop.InductionVar != "i" {
		t.Fatalf("unexpected for loop: %+v", loop)
	}
	if loop.Min.IntVal != 0 || loop.Max.IntVal != 9 {
		t.Fatalf("unexpected range: %+v..%+v", loop.Min, loop.Max)
	}
}

func TestParseOverloadedFunctions(t *testing.T) {
	prog := parseSource(t, `
		def add(a: int, b: int): int { return a + b; }
		def add(a: bool, b: bool): bool { return a && b; }
		def main(): int { return 0; }
	`)
	if len(prog.Funcs) != 3 {
		t.Fatalf("expected 3 functions, got %d", len(prog.Funcs))
	}
	if prog.Funcs[0].Signature.Params[0].Type != ast.TypeInt {
		t.Fatalf("expected first add's param to be int, got %+v", prog.Funcs[0].Signature.Params[0])
	}
	if prog.Funcs[1].Signature.Params[0].Type != ast.TypeBool {
		t.Fatalf("expected second add's param to be bool, got %+v", prog.Funcs[1].Signature.Params[0])
	}
}

func TestParseImportStdIO(t *testing.T) {
	prog := parseSource(t, `
		using std.io(read_int, print);
		def main(): int { return 0; }
	`)
	if len(prog.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(prog.Imports))
	}
	imp := prog.Imports[0]
	if len(imp.Module) != 2 || imp.Module[0] != "std" || imp.Module[1] != "io" {
		t.Fatalf("unexpected module path: %+v", imp.Module)
	}
	if imp.All || len(imp.Names) != 2 {
		t.Fatalf("unexpected import names: %+v", imp)
	}
}
