// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
)

// analyzeStmt implements spec.md §4.6/§4.7's statement rules. Block-shaped
// statements (Block, If's arms, While/DoWhile/ForCounted bodies, each
// MatchStmt branch) each get their own child Scope and run
// checkFunctionCleanup at the end of it, per spec.md §4.6's end-of-scope
// leak rule.
func (a *Analyzer) analyzeStmt(scope *Scope, s *ast.Stmt) {
	switch s.Kind {
	case ast.VarDecl:
		a.analyzeVarDecl(scope, s)
	case ast.Assign:
		a.analyzeAssign(scope, s)
	case ast.IndexAssign:
		a.analyzeIndexAssign(scope, s)
	case ast.If:
		a.analyzeIf(scope, s)
	case ast.While:
		a.analyzeWhile(scope, s)
	case ast.DoWhile:
		a.analyzeDoWhile(scope, s)
	case ast.ForCounted:
		a.analyzeForCounted(scope, s)
	case ast.Block:
		a.analyzeBlock(scope, s)
	case ast.MatchStmt:
		a.analyzeMatchStmt(scope, s)
	case ast.Free:
		a.analyzeFree(scope, s)
	case ast.ExprStmt:
		a.AnalyzeExpr(scope, s.Expr)
	default:
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "unknown statement form")
	}
}

func (a *Analyzer) analyzeVarDecl(scope *Scope, s *ast.Stmt) {
	if s.Init != nil {
		initType := a.AnalyzeExpr(scope, s.Init)

		if s.Init.Kind == ast.NullLit {
			if !s.Nullable {
				a.Sink.Error(diag.StageAnalyzer, s.Pos, "cannot initialize non-nullable variable '%s' with null", s.Name)
			}
		} else if initType != ast.TypeInvalid && initType != s.DeclType {
			a.Sink.Error(diag.StageAnalyzer, s.Pos, "variable '%s' declared as %s but initialized with %s", s.Name, s.DeclType, initType)
		}

		// A nullable `own` may start out null; the non-nullable case was
		// reported above.
		if s.DeclOwn == ast.OwnOwn && !s.Array.IsArray && !(s.Nullable && s.Init.Kind == ast.NullLit) {
			a.applyOwnInit(scope, s.Name, s.Init)
		}
		if s.Array.IsArray && s.Array.ElementOwnership == ast.OwnOwn {
			a.applyOwnArrayInit(s.Name, s.Init)
		}
	}

	sym := &Symbol{
		Name: s.Name, Type: s.DeclType, Ownership: s.DeclOwn,
		Nullable: s.Nullable, Const: s.Const, Array: s.Array,
		State: Alive, DeclaredAt: s.Pos,
	}
	if s.Init != nil && s.Init.Kind != ast.NullLit {
		sym.Unwrapped = true
	}
	// A `ref` borrows from the `own` variable it was initialized from
	// (spec.md §4.2); remembering Owner here is what lets a later free of
	// that owner mark this ref dangling via Scope.MarkDangling.
	if s.DeclOwn == ast.OwnRef && s.Init != nil && s.Init.Kind == ast.VarUse {
		sym.Owner = s.Init.Name
	}
	a.declare(scope, sym)
	s.TargetOwnership = s.DeclOwn
}

// applyOwnInit implements spec.md §4.6's rule for initializing an `own`
// variable: the value must come from 'alloc', a call returning 'own', or a
// move out of another 'own' variable — never a bare literal, which would
// have no allocation to own.
func (a *Analyzer) applyOwnInit(scope *Scope, name string, init *ast.Expr) {
	switch init.Kind {
	case ast.Alloc:
		return
	case ast.Call:
		// Built-in readers carry no signature, and a call that failed to
		// resolve has already been reported.
		if init.Resolved == nil || init.Resolved.ReturnOwn == ast.OwnOwn {
			return
		}
		a.Sink.Error(diag.StageAnalyzer, init.Pos, "'own' variable '%s' cannot be initialized from a call to '%s', which does not return 'own'", name, init.Name)
	case ast.VarUse:
		src := scope.Lookup(init.Name)
		if src == nil {
			return
		}
		if src.Ownership != ast.OwnOwn {
			a.Sink.Error(diag.StageAnalyzer, init.Pos, "cannot move non-owned variable '%s' into 'own' variable '%s'", src.Name, name)
			return
		}
		if src.State != Alive {
			a.Sink.Error(diag.StageAnalyzer, init.Pos, "cannot move '%s' into '%s': it has already been %s", src.Name, name, src.State)
			return
		}
		src.State = Moved
	default:
		a.Sink.Error(diag.StageAnalyzer, init.Pos, "'own' variable '%s' must be initialized from 'alloc' or a move from another 'own' variable", name)
	}
}

// applyOwnArrayInit implements the array counterpart of applyOwnInit: an
// `own T[]` declares a heap-backed array of individually heap-allocated
// elements (the cascading-free pairing spec.md §4.8 describes — free first
// walks the elements, then frees the backing store), so every element of
// the initializing array literal must itself be an `alloc` expression.
func (a *Analyzer) applyOwnArrayInit(name string, init *ast.Expr) {
	if init.Kind != ast.ArrayLit {
		a.Sink.Error(diag.StageAnalyzer, init.Pos, "'own' array '%s' must be initialized from an array literal of 'alloc' expressions", name)
		return
	}
	for _, el := range init.Elements {
		if el.Kind != ast.Alloc {
			a.Sink.Error(diag.StageAnalyzer, el.Pos, "every element of 'own' array '%s' must be an 'alloc' expression", name)
		}
	}
}

func (a *Analyzer) analyzeAssign(scope *Scope, s *ast.Stmt) {
	sym := scope.Lookup(s.Target)
	if sym == nil {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "variable '%s' is not declared", s.Target)
		a.AnalyzeExpr(scope, s.Value)
		return
	}
	if sym.Const {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "cannot assign to const variable '%s'", sym.Name)
	}

	if sym.Array.IsArray {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "cannot reassign array '%s' as a whole; assign to individual elements instead", sym.Name)
		a.AnalyzeExpr(scope, s.Value)
		return
	}

	valType := a.AnalyzeExpr(scope, s.Value)
	if s.Value.Kind == ast.NullLit {
		if !sym.Nullable {
			a.Sink.Error(diag.StageAnalyzer, s.Pos, "cannot assign null to non-nullable variable '%s'", sym.Name)
		}
	} else if valType != ast.TypeInvalid && valType != sym.Type {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "cannot assign %s to '%s' of type %s", valType, sym.Name, sym.Type)
	}

	if sym.Ownership == ast.OwnOwn && sym.State == Alive {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "Memory leak: reassigning '%s' without freeing its current value", sym.Name)
	}

	if sym.Ownership == ast.OwnOwn {
		a.applyOwnInit(scope, sym.Name, s.Value)
	}

	sym.State = Alive
	sym.Unwrapped = s.Value.Kind != ast.NullLit
	s.TargetOwnership = sym.Ownership
}

func (a *Analyzer) analyzeIndexAssign(scope *Scope, s *ast.Stmt) {
	sym := scope.Lookup(s.Target)
	if sym == nil {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "variable '%s' is not declared", s.Target)
		a.AnalyzeExpr(scope, s.IndexExpr)
		a.AnalyzeExpr(scope, s.Value)
		return
	}
	if !sym.Array.IsArray {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "'%s' is not an array", sym.Name)
	}

	idxType := a.AnalyzeExpr(scope, s.IndexExpr)
	if idxType != ast.TypeInt {
		a.Sink.Error(diag.StageAnalyzer, s.IndexExpr.Pos, "array index must be int, got %s", idxType)
	}

	valType := a.AnalyzeExpr(scope, s.Value)
	if valType != ast.TypeInvalid && sym.Array.IsArray && valType != sym.Type {
		a.Sink.Error(diag.StageAnalyzer, s.Value.Pos, "cannot assign %s to an element of '%s' (element type %s)", valType, sym.Name, sym.Type)
	}

	s.TargetOwnership = sym.Array.ElementOwnership
}

// shadowUnwrapped declares a copy of sym in scope with Unwrapped set, so a
// `some(name)` test's flow-sensitive fact is visible only inside the branch
// it guards — the original symbol in the outer scope is left untouched
// (spec.md §4.5's "scoped, not merged at control-flow joins").
func shadowUnwrapped(scope *Scope, sym *Symbol) {
	cp := *sym
	cp.Unwrapped = true
	scope.Declare(&cp)
}

func (a *Analyzer) analyzeIf(scope *Scope, s *ast.Stmt) {
	condType := a.AnalyzeExpr(scope, s.Cond)
	if condType != ast.TypeBool {
		a.Sink.Error(diag.StageAnalyzer, s.Cond.Pos, "'if' condition must be bool, got %s", condType)
	}

	thenScope := NewScope(scope)
	if s.Cond.Kind == ast.SomeTest {
		if sym := scope.Lookup(s.Cond.SomeName); sym != nil {
			shadowUnwrapped(thenScope, sym)
		}
	}
	a.analyzeStmt(thenScope, s.Then)
	a.checkFunctionCleanup(thenScope)

	if s.Else != nil {
		elseScope := NewScope(scope)
		a.analyzeStmt(elseScope, s.Else)
		a.checkFunctionCleanup(elseScope)
	}
}

func (a *Analyzer) analyzeWhile(scope *Scope, s *ast.Stmt) {
	condType := a.AnalyzeExpr(scope, s.Cond)
	if condType != ast.TypeBool {
		a.Sink.Error(diag.StageAnalyzer, s.Cond.Pos, "'while' condition must be bool, got %s", condType)
	}

	bodyScope := NewScope(scope)
	if s.Cond.Kind == ast.SomeTest {
		if sym := scope.Lookup(s.Cond.SomeName); sym != nil {
			shadowUnwrapped(bodyScope, sym)
		}
	}
	a.analyzeStmt(bodyScope, s.Body)
	a.checkFunctionCleanup(bodyScope)
}

func (a *Analyzer) analyzeDoWhile(scope *Scope, s *ast.Stmt) {
	bodyScope := NewScope(scope)
	a.analyzeStmt(bodyScope, s.Body)
	a.checkFunctionCleanup(bodyScope)

	condType := a.AnalyzeExpr(scope, s.Cond)
	if condType != ast.TypeBool {
		a.Sink.Error(diag.StageAnalyzer, s.Cond.Pos, "'while' condition must be bool, got %s", condType)
	}
}

func (a *Analyzer) analyzeForCounted(scope *Scope, s *ast.Stmt) {
	minType := a.AnalyzeExpr(scope, s.Min)
	if minType != ast.TypeInt {
		a.Sink.Error(diag.StageAnalyzer, s.Min.Pos, "'for' range start must be int, got %s", minType)
	}
	maxType := a.AnalyzeExpr(scope, s.Max)
	if maxType != ast.TypeInt {
		a.Sink.Error(diag.StageAnalyzer, s.Max.Pos, "'for' range end must be int, got %s", maxType)
	}

	loopScope := NewScope(scope)
	a.declare(loopScope, &Symbol{
		Name: s.InductionVar, Type: ast.TypeInt, State: Alive, DeclaredAt: s.Pos,
	})
	a.analyzeStmt(loopScope, s.Body)
	a.checkFunctionCleanup(loopScope)
}

func (a *Analyzer) analyzeBlock(scope *Scope, s *ast.Stmt) {
	blockScope := NewScope(scope)
	for _, sub := range s.Stmts {
		a.analyzeStmt(blockScope, sub)
	}
	a.checkFunctionCleanup(blockScope)
}

// analyzeMatchStmt mirrors analyzeMatchExpr's per-branch scoping (spec.md
// §4.5) but branches are statement lists, not value-producing bodies, so
// there is no result-type unification to perform.
func (a *Analyzer) analyzeMatchStmt(scope *Scope, s *ast.Stmt) {
	subjType := a.AnalyzeExpr(scope, s.Subject)
	subjNullable := s.Subject.Nullable

	var sawSome, sawNull, sawWildcard bool

	for i := range s.Branches {
		br := &s.Branches[i]
		branchScope := NewScope(scope)

		switch br.Pattern.Kind {
		case ast.PatSome:
			sawSome = true
			if !subjNullable {
				a.Sink.Error(diag.StageAnalyzer, br.Pattern.Pos, "'some(...)' pattern is not allowed: subject is not nullable")
			}
			bindSym := &Symbol{
				Name: br.Pattern.Binder, Type: subjType, Ownership: bindingOwnership(s.Subject.Ownership),
				Const: s.Subject.Const, State: Alive, Unwrapped: true, DeclaredAt: br.Pattern.Pos,
			}
			if s.Subject.Kind == ast.VarUse {
				bindSym.Owner = s.Subject.Name
			}
			a.declare(branchScope, bindSym)
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

		for _, sub := range br.Stmts {
			a.analyzeStmt(branchScope, sub)
		}
		a.checkFunctionCleanup(branchScope)
	}

	if subjNullable {
		if !(sawSome && sawNull) && !sawWildcard {
			a.Sink.Error(diag.StageAnalyzer, s.Pos, "match on a nullable value must handle both 'some(...)' and 'null'")
		}
	} else if !sawWildcard {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "match must include a wildcard '_' arm to be exhaustive")
	}
}

// analyzeFree implements spec.md §4.6's free statement: only an alive `own`
// variable may be freed; freeing marks every `ref` that borrowed from it
// dangling (spec.md §4.2) and, for an array of owned elements, records
// cascading-free metadata for the emitter (spec.md §4.8).
func (a *Analyzer) analyzeFree(scope *Scope, s *ast.Stmt) {
	sym := scope.Lookup(s.FreeName)
	if sym == nil {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "variable '%s' is not declared", s.FreeName)
		return
	}
	if sym.Ownership != ast.OwnOwn {
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "can only free an 'own' variable, '%s' is not 'own'", sym.Name)
		return
	}
	switch sym.State {
	case Freed:
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "double free: '%s' has already been freed", sym.Name)
		return
	case Moved:
		a.Sink.Error(diag.StageAnalyzer, s.Pos, "cannot free '%s': it has already been moved", sym.Name)
		return
	}

	sym.State = Freed
	scope.MarkDangling(sym.Name)

	if sym.Array.IsArray && sym.Array.ElementOwnership == ast.OwnOwn {
		s.FreeIsArrayOfOwned = true
		s.FreeArraySize = sym.Array.ArraySize
	}
}
