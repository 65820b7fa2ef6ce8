// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package includes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
)

func writeModule(t *testing.T, dir, relPath, src string) {
	t.Helper()
	full := filepath.Join(dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestResolveMergesWildcardImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "utils/math.lync", `def square(x: int): int { return x * x; }`)

	sink := diag.NewSink()
	prog := &ast.Program{
		Imports: []ast.Import{{Module: []string{"utils", "math"}, All: true}},
	}
	New(sink, dir).Resolve(prog)

	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Messages())
	}
	if len(prog.Funcs) != 1 || prog.Funcs[0].Signature.Name != "square" {
		t.Fatalf("expected 'square' merged in, got %+v", prog.Funcs)
	}
}

func TestResolveMergesSpecificNameOnly(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "utils/math.lync", `
		def square(x: int): int { return x * x; }
		def cube(x: int): int { return x * x * x; }
	`)

	sink := diag.NewSink()
	prog := &ast.Program{
		Imports: []ast.Import{{Module: []string{"utils", "math"}, Names: []string{"cube"}}},
	}
	New(sink, dir).Resolve(prog)

	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Messages())
	}
	if len(prog.Funcs) != 1 || prog.Funcs[0].Signature.Name != "cube" {
		t.Fatalf("expected only 'cube' merged in, got %+v", prog.Funcs)
	}
}

func TestResolveErrorsOnMissingModule(t *testing.T) {
	dir := t.TempDir()
	sink := diag.NewSink()
	prog := &ast.Program{
		Imports: []ast.Import{{Module: []string{"nope"}, All: true}},
	}
	New(sink, dir).Resolve(prog)

	if !sink.HasErrors() {
		t.Fatalf("expected an error for a missing module file")
	}
}

func TestResolveErrorsOnMissingName(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "utils/math.lync", `def square(x: int): int { return x * x; }`)

	sink := diag.NewSink()
	prog := &ast.Program{
		Imports: []ast.Import{{Module: []string{"utils", "math"}, Names: []string{"missing"}}},
	}
	New(sink, dir).Resolve(prog)

	if !sink.HasErrors() {
		t.Fatalf("expected an error for a name not found in the module")
	}
}

func TestIsStdIOSkipped(t *testing.T) {
	dir := t.TempDir()
	sink := diag.NewSink()
	prog := &ast.Program{
		Imports: []ast.Import{{Module: []string{"std", "io"}, All: true}},
	}
	New(sink, dir).Resolve(prog)

	if sink.HasErrors() {
		t.Fatalf("std.io must never be file-loaded, got errors: %v", sink.Messages())
	}
	if len(prog.Funcs) != 0 {
		t.Fatalf("expected no functions merged for std.io, got %+v", prog.Funcs)
	}
}
