// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
)

// analyzeMatchExpr implements spec.md §4.5's expression-form match: each
// branch runs in its own scope (a some(b) pattern's binder is visible only
// in that branch — unwrap facts are scoped, never merged back into the
// parent at the join point), and every branch's body must produce the same
// type.
func (a *Analyzer) analyzeMatchExpr(scope *Scope, e *ast.Expr) ast.TypeTag {
	subjType := a.AnalyzeExpr(scope, e.Subject)
	subjNullable := e.Subject.Nullable

	var sawSome, sawNull, sawWildcard bool
	resultType := ast.TypeInvalid
	resultSet := false

	for i := range e.Branches {
		br := &e.Branches[i]
		branchScope := NewScope(scope)

		switch br.Pattern.Kind {
		case ast.PatSome:
			sawSome = true
			if !subjNullable {
				a.Sink.Error(diag.StageAnalyzer, br.Pattern.Pos, "'some(...)' pattern is not allowed: subject is not nullable")
			}
			sym := &Symbol{
				Name: br.Pattern.Binder, Type: subjType, Ownership: bindingOwnership(e.Subject.Ownership),
				Const: e.Subject.Const, State: Alive, Unwrapped: true, DeclaredAt: br.Pattern.Pos,
			}
			if e.Subject.Kind == ast.VarUse {
				sym.Owner = e.Subject.Name
			}
			a.declare(branchScope, sym)
			br.UnwrappedType = subjType

		case ast.PatNull:
			sawNull = true
			if !subjNullable {
				a.Sink.Error(diag.StageAnalyzer, br.Pattern.Pos, "'null' pattern is not allowed: subject is not nullable")
			}

		case ast.PatWildcard:
			sawWildcard = true

		case ast.PatValue:
			if subjNullable {
				a.Sink.Error(diag.StageAnalyzer, br.Pattern.Pos, "a nullable subject must be matched with 'some(...)' and 'null', not a value pattern")
			}
			vt := a.AnalyzeExpr(scope, br.Pattern.Value)
			if vt != ast.TypeInvalid && vt != subjType {
				a.Sink.Error(diag.StageAnalyzer, br.Pattern.Value.Pos, "match pattern type %s does not match subject type %s", vt, subjType)
			}
		}

		bodyType := a.AnalyzeExpr(branchScope, br.Body)
		a.checkFunctionCleanup(branchScope)

		if !resultSet {
			resultType, resultSet = bodyType, true
		} else if bodyType != ast.TypeInvalid && resultType != ast.TypeInvalid && bodyType != resultType {
			a.Sink.Error(diag.StageAnalyzer, br.Body.Pos, "match arms must all produce the same type: expected %s, got %s", resultType, bodyType)
		}
	}

	if subjNullable {
		if !(sawSome && sawNull) && !sawWildcard {
			a.Sink.Error(diag.StageAnalyzer, e.Pos, "match on a nullable value must handle both 'some(...)' and 'null'")
		}
	} else if !sawWildcard {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "match must include a wildcard '_' arm to be exhaustive")
	}

	return resultType
}

// bindingOwnership implements spec.md §4.5's some(b) binder rule exactly:
// "ownership is ref when the subject was own or ref, otherwise none" — the
// binder only ever borrows, even when the subject itself was own, since the
// match doesn't consume the subject's allocation.
func bindingOwnership(subjectOwn ast.Ownership) ast.Ownership {
	if subjectOwn == ast.OwnOwn || subjectOwn == ast.OwnRef {
		return ast.OwnRef
	}
	return ast.OwnNone
}
