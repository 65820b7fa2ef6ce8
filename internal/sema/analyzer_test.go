// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import (
	"testing"

	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
)

func mainSig() *ast.FuncSignature {
	return &ast.FuncSignature{Name: "main", ReturnType: ast.TypeInt}
}

func program(body ast.Stmt) *ast.Program {
	return &ast.Program{Funcs: []ast.Func{{Signature: mainSig(), Body: body}}}
}

func block(stmts ...*ast.Stmt) ast.Stmt {
	return ast.Stmt{Kind: ast.Block, Stmts: stmts}
}

func varDecl(name string, own ast.Ownership, init *ast.Expr) *ast.Stmt {
	return &ast.Stmt{Kind: ast.VarDecl, Name: name, DeclType: ast.TypeInt, DeclOwn: own, Init: init}
}

func intLit(v int) *ast.Expr { return &ast.Expr{Kind: ast.IntLit, IntVal: v} }
func varUse(name string) *ast.Expr { return &ast.Expr{Kind: ast.VarUse, Name: name} }
func allocExpr(v *ast.Expr) *ast.Expr { return &ast.Expr{Kind: ast.Alloc, AllocValue: v} }
func freeStmt(name string) *ast.Stmt { return &ast.Stmt{Kind: ast.Free, FreeName: name} }
func exprStmt(e *ast.Expr) *ast.Stmt { return &ast.Stmt{Kind: ast.ExprStmt, Expr: e} }
func returnStmt(v *ast.Expr) *ast.Stmt {
	return exprStmt(&ast.Expr{Kind: ast.Return, RetValue: v})
}

func TestLeakDetectedWhenOwnNeverFreed(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	prog := program(block(
		varDecl("p", ast.OwnOwn, allocExpr(intLit(1))),
		returnStmt(intLit(0)),
	))
	a.AnalyzeProgram(prog)

	if sink.ErrorCount() == 0 {
		t.Fatalf("expected a leak error, got none")
	}
	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "leak", "p") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'leak' diagnostic mentioning 'p', got: %v", sink.Messages())
	}
}

func TestFreeClearsLeak(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	prog := program(block(
		varDecl("p", ast.OwnOwn, allocExpr(intLit(1))),
		freeStmt("p"),
		returnStmt(intLit(0)),
	))
	a.AnalyzeProgram(prog)

	if sink.ErrorCount() != 0 {
		t.Errorf("expected no errors, got: %v", sink.Messages())
	}
}

func TestDoubleFreeIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	prog := program(block(
		varDecl("p", ast.OwnOwn, allocExpr(intLit(1))),
		freeStmt("p"),
		freeStmt("p"),
		returnStmt(intLit(0)),
	))
	a.AnalyzeProgram(prog)

	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "double free") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'double free' diagnostic, got: %v", sink.Messages())
	}
}

func TestUseAfterFreeIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	prog := program(block(
		varDecl("p", ast.OwnOwn, allocExpr(intLit(1))),
		freeStmt("p"),
		exprStmt(varUse("p")),
		returnStmt(intLit(0)),
	))
	a.AnalyzeProgram(prog)

	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "use after free") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'use after free' diagnostic, got: %v", sink.Messages())
	}
}

func TestMoveThenUseIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	prog := program(block(
		varDecl("p", ast.OwnOwn, allocExpr(intLit(1))),
		varDecl("q", ast.OwnOwn, varUse("p")),
		exprStmt(varUse("p")),
		freeStmt("q"),
		returnStmt(intLit(0)),
	))
	a.AnalyzeProgram(prog)

	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "use after move") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a 'use after move' diagnostic, got: %v", sink.Messages())
	}
}

func TestNullableUseWithoutUnwrapIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	decl := &ast.Stmt{Kind: ast.VarDecl, Name: "n", DeclType: ast.TypeInt, Nullable: true, Init: &ast.Expr{Kind: ast.NullLit}}
	prog := program(block(decl, exprStmt(varUse("n")), returnStmt(intLit(0))))
	a.AnalyzeProgram(prog)

	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "nullable", "without unwrapping") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unwrap-required diagnostic, got: %v", sink.Messages())
	}
}

func TestMatchUnwrapsNullableInSomeBranch(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	decl := &ast.Stmt{Kind: ast.VarDecl, Name: "n", DeclType: ast.TypeInt, Nullable: true, Init: &ast.Expr{Kind: ast.IntLit, IntVal: 5}}
	matchStmt := &ast.Stmt{
		Kind:    ast.MatchStmt,
		Subject: &ast.Expr{Kind: ast.VarUse, Name: "n"},
		Branches: []ast.StmtBranch{
			{Pattern: ast.Pattern{Kind: ast.PatSome, Binder: "v"}, Stmts: []*ast.Stmt{exprStmt(varUse("v"))}},
			{Pattern: ast.Pattern{Kind: ast.PatNull}, Stmts: nil},
		},
	}
	prog := program(block(decl, matchStmt, returnStmt(intLit(0))))
	a.AnalyzeProgram(prog)

	if sink.ErrorCount() != 0 {
		t.Errorf("expected no errors unwrapping inside some() branch, got: %v", sink.Messages())
	}
}

func TestArrayWholeReassignmentIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	decl := &ast.Stmt{
		Kind: ast.VarDecl, Name: "xs", DeclType: ast.TypeInt,
		Array: ast.ArrayInfo{IsArray: true, ArraySize: 2},
		Init:  &ast.Expr{Kind: ast.ArrayLit, Elements: []*ast.Expr{intLit(1), intLit(2)}},
	}
	assign := &ast.Stmt{
		Kind: ast.Assign, Target: "xs",
		Value: &ast.Expr{Kind: ast.ArrayLit, Elements: []*ast.Expr{intLit(3), intLit(4)}},
	}
	prog := program(block(decl, assign, returnStmt(intLit(0))))
	a.AnalyzeProgram(prog)

	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "xs") && containsAll(m.Text, "reassign") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an array whole-reassignment diagnostic mentioning 'xs', got: %v", sink.Messages())
	}
}

func TestMatchSomeOnNonNullableSubjectIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	decl := &ast.Stmt{Kind: ast.VarDecl, Name: "n", DeclType: ast.TypeInt, Init: intLit(5)}
	matchStmt := &ast.Stmt{
		Kind:    ast.MatchStmt,
		Subject: &ast.Expr{Kind: ast.VarUse, Name: "n"},
		Branches: []ast.StmtBranch{
			{Pattern: ast.Pattern{Kind: ast.PatSome, Binder: "v"}, Stmts: []*ast.Stmt{exprStmt(varUse("v"))}},
			{Pattern: ast.Pattern{Kind: ast.PatNull}, Stmts: nil},
		},
	}
	prog := program(block(decl, matchStmt, returnStmt(intLit(0))))
	a.AnalyzeProgram(prog)

	if sink.ErrorCount() == 0 {
		t.Fatalf("expected an error for matching some(...)/null against a non-nullable subject, got: %v", sink.Messages())
	}
	for _, m := range sink.Messages() {
		if m.Severity == diag.Warning {
			t.Errorf("expected this diagnosed as an error, not a warning: %v", m)
		}
	}
}

func TestPrintWithNonPrintableArgIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	arr := &ast.Stmt{
		Kind: ast.VarDecl, Name: "xs", DeclType: ast.TypeInt,
		Array: ast.ArrayInfo{IsArray: true, ArraySize: 1},
		Init:  &ast.Expr{Kind: ast.ArrayLit, Elements: []*ast.Expr{intLit(1)}},
	}
	printCall := exprStmt(&ast.Expr{Kind: ast.Call, Name: "print", Args: []*ast.Expr{varUse("xs")}})
	prog := program(block(arr, printCall, returnStmt(intLit(0))))
	a.AnalyzeProgram(prog)

	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "print") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a printable-type diagnostic, got: %v", sink.Messages())
	}
}

func TestPrintWithNoArgsWarns(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	printCall := exprStmt(&ast.Expr{Kind: ast.Call, Name: "print", Args: nil})
	prog := program(block(printCall, returnStmt(intLit(0))))
	a.AnalyzeProgram(prog)

	if sink.ErrorCount() != 0 {
		t.Errorf("expected no errors for a zero-arg print(), got: %v", sink.Messages())
	}
	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Warning && containsAll(m.Text, "print") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning for a zero-arg print(), got: %v", sink.Messages())
	}
}

func TestOverloadResolutionPicksExactArityAndTypeMatch(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	intSig := &ast.FuncSignature{Name: "f", Params: []ast.Param{{Name: "x", Type: ast.TypeInt}}, ReturnType: ast.TypeInt}
	boolSig := &ast.FuncSignature{Name: "f", Params: []ast.Param{{Name: "x", Type: ast.TypeBool}}, ReturnType: ast.TypeBool}
	a.Funcs.Register(intSig)
	a.Funcs.Register(boolSig)

	call := &ast.Expr{Kind: ast.Call, Name: "f", Args: []*ast.Expr{{Kind: ast.BoolLit, BoolVal: true}}}
	scope := NewScope(nil)
	got := a.resolveOverload(scope, call, []ast.TypeTag{ast.TypeBool})
	if got != boolSig {
		t.Fatalf("expected boolSig, got %v", got)
	}
	if sink.ErrorCount() != 0 {
		t.Errorf("expected no errors, got: %v", sink.Messages())
	}
}

func TestOverloadResolutionNoMatchReportsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	intSig := &ast.FuncSignature{Name: "f", Params: []ast.Param{{Name: "x", Type: ast.TypeInt}}, ReturnType: ast.TypeInt}
	a.Funcs.Register(intSig)

	call := &ast.Expr{Kind: ast.Call, Name: "f", Args: []*ast.Expr{{Kind: ast.BoolLit, BoolVal: true}}}
	scope := NewScope(nil)
	got := a.resolveOverload(scope, call, []ast.TypeTag{ast.TypeBool})
	if got != nil {
		t.Fatalf("expected no match, got %v", got)
	}
	if sink.ErrorCount() == 0 {
		t.Errorf("expected an error diagnostic")
	}
}

func TestDanglingRefAfterFreeIsError(t *testing.T) {
	sink := diag.NewSink()
	a := New(sink)
	prog := program(block(
		varDecl("p", ast.OwnOwn, allocExpr(intLit(1))),
		&ast.Stmt{Kind: ast.VarDecl, Name: "r", DeclType: ast.TypeInt, DeclOwn: ast.OwnRef, Init: varUse("p")},
		freeStmt("p"),
		exprStmt(varUse("r")),
		returnStmt(intLit(0)),
	))
	a.AnalyzeProgram(prog)

	found := false
	for _, m := range sink.Messages() {
		if m.Severity == diag.Error && containsAll(m.Text, "owner", "out of scope") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a dangling-ref diagnostic, got: %v", sink.Messages())
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
