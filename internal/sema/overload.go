// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import (
	"fmt"
	"strings"

	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
)

// resolveOverload implements spec.md §4.3 exactly: collect candidates by
// name+arity, take the first exact positional type match in registration
// order, and on success apply each `own`-parameter's move rule. argTypes is
// parallel to call.Args; an `own` parameter whose argument in call.Args is
// not a plain variable use is an error.
func (a *Analyzer) resolveOverload(scope *Scope, call *ast.Expr, argTypes []ast.TypeTag) *ast.FuncSignature {
	name := call.Name
	candidates := a.Funcs.ByNameArity(name, len(argTypes))
	if len(candidates) == 0 {
		a.Sink.Error(diag.StageAnalyzer, call.Pos, "no function '%s' takes %d argument%s", name, len(argTypes), plural(len(argTypes)))
		return nil
	}

	var matches []*ast.FuncSignature
	for _, cand := range candidates {
		if signatureMatchesArgs(cand, argTypes) {
			matches = append(matches, cand)
		}
	}

	if len(matches) == 0 {
		a.Sink.Error(diag.StageAnalyzer, call.Pos, "no matching overload for '%s'", name)
		a.Sink.Note(diag.StageAnalyzer, call.Pos, "argument types: %s", typeListString(argTypes))
		for _, cand := range candidates {
			a.Sink.Note(diag.StageAnalyzer, cand.Pos, "candidate: %s", signatureString(cand))
		}
		return nil
	}

	// spec.md §4.3 step 3: "If more than one matches, the first in
	// registration order wins" — candidates is already in registration
	// order (FunctionRegistry.ByNameArity preserves it), so matches[0] is
	// correct even though duplicate-signature registration should make this
	// unreachable in practice.
	sig := matches[0]

	for i, param := range sig.Params {
		if param.Ownership != ast.OwnOwn {
			continue
		}
		argExpr := call.Args[i]
		if argExpr.Kind != ast.VarUse {
			a.Sink.Error(diag.StageAnalyzer, argExpr.Pos, "can only move an 'own' variable to an 'own' parameter, not an expression")
			continue
		}
		sym := scope.Lookup(argExpr.Name)
		if sym == nil {
			continue // already reported by the argument's own VarUse analysis
		}
		if sym.Ownership != ast.OwnOwn {
			a.Sink.Error(diag.StageAnalyzer, argExpr.Pos, "cannot move non-owned variable '%s' to an 'own' parameter", sym.Name)
			continue
		}
		if sym.State != Alive {
			a.Sink.Error(diag.StageAnalyzer, argExpr.Pos, "cannot move '%s', it has already been %s", sym.Name, sym.State)
			continue
		}
		sym.State = Moved
	}

	call.Resolved = sig
	return sig
}

func signatureMatchesArgs(sig *ast.FuncSignature, argTypes []ast.TypeTag) bool {
	for i, p := range sig.Params {
		if p.Type != argTypes[i] {
			return false
		}
	}
	return true
}

func signatureString(sig *ast.FuncSignature) string {
	var parts []string
	for _, p := range sig.Params {
		if p.Ownership != ast.OwnNone {
			parts = append(parts, fmt.Sprintf("%s %s", p.Ownership, p.Type))
		} else {
			parts = append(parts, p.Type.String())
		}
	}
	return fmt.Sprintf("%s(%s) -> %s", sig.Name, strings.Join(parts, ", "), sig.ReturnType)
}

func typeListString(types []ast.TypeTag) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
