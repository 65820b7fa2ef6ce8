// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package backend

import (
	"errors"
	"strings"
	"testing"

	"github.com/mdhender/lync/internal/ast"
)

func TestExitCodeNilErrorIsZero(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("ExitCode(nil) = %d, want 0", got)
	}
}

func TestExitCodeUnrecognizedErrorDefaultsToOne(t *testing.T) {
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Fatalf("ExitCode(unrecognized) = %d, want 1", got)
	}
}

func TestEmitAssemblyStubEmitsMainPrologueAndZeroReturn(t *testing.T) {
	prog := &ast.Program{
		Funcs: []ast.Func{
			{Signature: &ast.FuncSignature{Name: "main", ReturnType: ast.TypeInt}},
		},
	}
	var sb strings.Builder
	EmitAssemblyStub(&sb, prog)
	out := sb.String()

	if !strings.Contains(out, "_main:") {
		t.Fatalf("expected a _main label, got:\n%s", out)
	}
	if !strings.Contains(out, "movl $0, %eax") {
		t.Fatalf("expected main's literal zero return, got:\n%s", out)
	}
	if !strings.Contains(out, "pushq %rbp") {
		t.Fatalf("expected a standard prologue, got:\n%s", out)
	}
}

func TestEmitAssemblyStubNonMainFunctionGetsNoDefaultReturn(t *testing.T) {
	prog := &ast.Program{
		Funcs: []ast.Func{
			{Signature: &ast.FuncSignature{Name: "helper", ReturnType: ast.TypeInt}},
		},
	}
	var sb strings.Builder
	EmitAssemblyStub(&sb, prog)
	out := sb.String()

	if !strings.Contains(out, "_helper:") {
		t.Fatalf("expected a _helper label, got:\n%s", out)
	}
	if strings.Contains(out, "movl $0, %eax") {
		t.Fatalf("only main gets the default zero-return stub, got:\n%s", out)
	}
}
