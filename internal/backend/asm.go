// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package backend

import (
	"fmt"
	"io"

	"github.com/mdhender/lync/internal/ast"
)

// EmitAssemblyStub writes a minimal, deliberately incomplete x86-64
// AT&T-syntax translation unit for prog — spec.md §6.1 names `-S` as a CLI
// switch, but spec.md §1's Non-goals rule out native code generation, so
// this stub exists only to make the flag a real (if unfinished) code path,
// exactly as partial as original_source/codegen_asm.c's generate_assembly:
// it emits a prologue/epilogue per function and a literal zero return for
// main, and does not lower any expression to machine code.
func EmitAssemblyStub(w io.Writer, prog *ast.Program) {
	fmt.Fprintln(w, "\t.section __TEXT,__text")
	fmt.Fprintln(w, "\t.globl _main")

	for _, fn := range prog.Funcs {
		name := fn.Signature.Name
		if name == "main" {
			fmt.Fprintln(w, "_main:")
		} else {
			fmt.Fprintf(w, "_%s:\n", name)
		}

		fmt.Fprintln(w, "\tpushq %rbp")
		fmt.Fprintln(w, "\tmovq %rsp, %rbp")
		fmt.Fprintln(w, "\tsubq $32, %rsp")

		// TODO: lower fn.Body to machine code — not attempted, matching
		// original_source/codegen_asm.c's own admission that it never did.
		if name == "main" {
			fmt.Fprintf(w, "\tmovl $0, %%eax\n")
		}

		fmt.Fprintln(w, "\tleave")
		fmt.Fprintln(w, "\tret")
		fmt.Fprintln(w)
	}
}
