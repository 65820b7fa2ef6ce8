// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/diag"
	"github.com/mdhender/lync/internal/token"
)

// AnalyzeExpr implements spec.md §4.4's expression-analysis table. It
// returns the expression's resolved type tag and writes that tag, plus
// nullability/ownership/const facts, back onto e for the emitter
// (spec.md §6.3).
func (a *Analyzer) AnalyzeExpr(scope *Scope, e *ast.Expr) ast.TypeTag {
	t := a.analyzeExprKind(scope, e)
	e.ResolvedType = t
	return t
}

func (a *Analyzer) analyzeExprKind(scope *Scope, e *ast.Expr) ast.TypeTag {
	switch e.Kind {
	case ast.IntLit:
		return ast.TypeInt
	case ast.BoolLit:
		return ast.TypeBool
	case ast.StrLit:
		return ast.TypeStr
	case ast.NullLit:
		e.Nullable = true
		return ast.TypeNullLiteral
	case ast.VarUse:
		return a.analyzeVarUse(scope, e)
	case ast.Index:
		return a.analyzeIndex(scope, e)
	case ast.ArrayLit:
		return a.analyzeArrayLit(scope, e)
	case ast.UnaryOp:
		return a.analyzeUnary(scope, e)
	case ast.BinaryOp:
		return a.analyzeBinary(scope, e)
	case ast.Call:
		return a.analyzeCall(scope, e)
	case ast.Return:
		return a.analyzeReturn(scope, e)
	case ast.Match:
		return a.analyzeMatchExpr(scope, e)
	case ast.SomeTest:
		return a.analyzeSomeTest(scope, e)
	case ast.Alloc:
		return a.analyzeAlloc(scope, e)
	case ast.Void:
		return ast.TypeVoid
	default:
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "unknown expression form")
		return ast.TypeInvalid
	}
}

// lookupVarForUse performs every spec.md §3.3/§4.4 rule that applies to
// reading a plain variable by name: existence, moved/freed/dangling state,
// and the nullable-without-unwrap rule. It writes the resolved
// ownership/const facts onto e. Used directly for VarUse and reused by
// Index and length() for their array variables.
func (a *Analyzer) lookupVarForUse(scope *Scope, e *ast.Expr) *Symbol {
	sym := scope.Lookup(e.Name)
	if sym == nil {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "variable '%s' is not declared", e.Name)
		return nil
	}

	if sym.Ownership == ast.OwnRef && sym.Dangling {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "use after owner no longer in scope: owner '%s' of '%s' is out of scope", sym.Owner, sym.Name)
	} else if sym.Ownership == ast.OwnOwn {
		switch sym.State {
		case Freed:
			a.Sink.Error(diag.StageAnalyzer, e.Pos, "use after free: variable '%s' has been freed", sym.Name)
		case Moved:
			a.Sink.Error(diag.StageAnalyzer, e.Pos, "use after move: variable '%s' has been moved", sym.Name)
		}
	}

	if sym.Nullable && !sym.Unwrapped {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "use of nullable variable '%s' without unwrapping", sym.Name)
		a.Sink.Note(diag.StageAnalyzer, e.Pos, "unwrap it first with a 'match %s { some(v): ... null: ... }' or 'if (some(%s)) { ... }'", sym.Name, sym.Name)
	}

	e.Ownership = sym.Ownership
	e.Const = sym.Const
	e.Nullable = sym.Nullable
	return sym
}

func (a *Analyzer) analyzeVarUse(scope *Scope, e *ast.Expr) ast.TypeTag {
	sym := a.lookupVarForUse(scope, e)
	if sym == nil {
		return ast.TypeInvalid
	}
	return sym.Type
}

func (a *Analyzer) analyzeIndex(scope *Scope, e *ast.Expr) ast.TypeTag {
	idxType := a.AnalyzeExpr(scope, e.IndexExpr)
	if idxType != ast.TypeInt {
		a.Sink.Error(diag.StageAnalyzer, e.IndexExpr.Pos, "array index must be int, got %s", idxType)
	}

	if e.Array.Kind != ast.VarUse {
		a.Sink.Error(diag.StageAnalyzer, e.Array.Pos, "can only index a variable")
		return ast.TypeInvalid
	}
	sym := a.lookupVarForUse(scope, e.Array)
	if sym == nil {
		return ast.TypeInvalid
	}
	if !sym.Array.IsArray {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "'%s' is not an array", sym.Name)
		return ast.TypeInvalid
	}
	e.Ownership = sym.Array.ElementOwnership
	return sym.Type
}

func (a *Analyzer) analyzeArrayLit(scope *Scope, e *ast.Expr) ast.TypeTag {
	if len(e.Elements) == 0 {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "array literal must have at least one element")
		return ast.TypeInvalid
	}
	elemType := a.AnalyzeExpr(scope, e.Elements[0])
	for _, el := range e.Elements[1:] {
		t := a.AnalyzeExpr(scope, el)
		if t != elemType {
			a.Sink.Error(diag.StageAnalyzer, el.Pos, "array literal elements must share one type: expected %s, got %s", elemType, t)
		}
	}
	return elemType
}

func (a *Analyzer) analyzeUnary(scope *Scope, e *ast.Expr) ast.TypeTag {
	operand := a.AnalyzeExpr(scope, e.Right)
	switch e.Op {
	case token.MINUS:
		if operand != ast.TypeInt {
			a.Sink.Error(diag.StageAnalyzer, e.Pos, "unary '-' requires int, got %s", operand)
		}
		return ast.TypeInt
	case token.BANG:
		if operand != ast.TypeBool {
			a.Sink.Error(diag.StageAnalyzer, e.Pos, "'!' requires bool, got %s", operand)
		}
		return ast.TypeBool
	default:
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "unknown unary operator %s", e.Op)
		return ast.TypeInvalid
	}
}

func (a *Analyzer) analyzeBinary(scope *Scope, e *ast.Expr) ast.TypeTag {
	left := a.AnalyzeExpr(scope, e.Left)
	right := a.AnalyzeExpr(scope, e.Right)

	switch e.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		if left != ast.TypeInt {
			a.Sink.Error(diag.StageAnalyzer, e.Left.Pos, "left side of '%s' must be int, got %s", e.Op, left)
		}
		if right != ast.TypeInt {
			a.Sink.Error(diag.StageAnalyzer, e.Right.Pos, "right side of '%s' must be int, got %s", e.Op, right)
		}
		return ast.TypeInt

	case token.LT, token.GT, token.LE, token.GE:
		if left != ast.TypeInt {
			a.Sink.Error(diag.StageAnalyzer, e.Left.Pos, "left side of '%s' must be int, got %s", e.Op, left)
		}
		if right != ast.TypeInt {
			a.Sink.Error(diag.StageAnalyzer, e.Right.Pos, "right side of '%s' must be int, got %s", e.Op, right)
		}
		return ast.TypeBool

	case token.EQ, token.NE:
		if left != right {
			a.Sink.Error(diag.StageAnalyzer, e.Pos, "cannot compare %s with %s using '%s'", left, right, e.Op)
		}
		return ast.TypeBool

	case token.AND_AND, token.OR_OR:
		if left != ast.TypeBool {
			a.Sink.Error(diag.StageAnalyzer, e.Left.Pos, "left side of '%s' must be bool, got %s", e.Op, left)
		}
		if right != ast.TypeBool {
			a.Sink.Error(diag.StageAnalyzer, e.Right.Pos, "right side of '%s' must be bool, got %s", e.Op, right)
		}
		return ast.TypeBool

	default:
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "unknown binary operator %s", e.Op)
		return ast.TypeInvalid
	}
}

func (a *Analyzer) analyzeReturn(scope *Scope, e *ast.Expr) ast.TypeTag {
	fn := a.currentFunc

	if e.RetValue == nil || e.RetValue.Kind == ast.Void {
		if fn.ReturnType != ast.TypeVoid {
			a.Sink.Error(diag.StageAnalyzer, e.Pos, "function '%s' must return %s, got void", fn.Name, fn.ReturnType)
		}
		return ast.TypeVoid
	}

	if e.RetValue.Kind == ast.Alloc && fn.ReturnOwn != ast.OwnOwn {
		a.Sink.Error(diag.StageAnalyzer, e.RetValue.Pos, "'alloc' as a return expression requires the function's return ownership to be 'own'")
	}

	t := a.AnalyzeExpr(scope, e.RetValue)

	if e.RetValue.Kind == ast.VarUse {
		sym := scope.Lookup(e.RetValue.Name)
		if sym != nil {
			switch {
			case sym.Ownership == ast.OwnOwn && fn.ReturnOwn == ast.OwnOwn:
				sym.State = Moved
			case sym.Ownership == ast.OwnOwn && fn.ReturnOwn == ast.OwnRef:
				a.Sink.Error(diag.StageAnalyzer, e.RetValue.Pos, "returning 'own' variable '%s' as 'ref' would dangle the caller's reference", sym.Name)
			case sym.Ownership == ast.OwnOwn && fn.ReturnOwn == ast.OwnNone:
				a.Sink.Error(diag.StageAnalyzer, e.RetValue.Pos, "returning 'own' variable '%s' by value would leak it", sym.Name)
			case sym.Ownership != ast.OwnOwn && fn.ReturnOwn == ast.OwnOwn:
				a.Sink.Error(diag.StageAnalyzer, e.RetValue.Pos, "cannot return non-'own' variable '%s' from a function whose return ownership is 'own'", sym.Name)
			}
		}
	} else if fn.ReturnOwn == ast.OwnOwn && e.RetValue.Kind != ast.Alloc {
		a.Sink.Error(diag.StageAnalyzer, e.RetValue.Pos, "function returns 'own' but this expression does not produce an owned value")
	}

	if t != ast.TypeInvalid && t != fn.ReturnType {
		if !(t == ast.TypeNullLiteral && fn.ReturnNullable) {
			a.Sink.Error(diag.StageAnalyzer, e.RetValue.Pos, "function '%s' must return %s, got %s", fn.Name, fn.ReturnType, t)
		}
	}

	return t
}

func (a *Analyzer) analyzeSomeTest(scope *Scope, e *ast.Expr) ast.TypeTag {
	sym := scope.Lookup(e.SomeName)
	if sym == nil {
		a.Sink.Error(diag.StageAnalyzer, e.Pos, "variable '%s' is not declared", e.SomeName)
	} else if !sym.Nullable {
		a.Sink.Warning(diag.StageAnalyzer, e.Pos, "'some(%s)' is always true: '%s' is not nullable", e.SomeName, e.SomeName)
	}
	return ast.TypeBool
}

func (a *Analyzer) analyzeAlloc(scope *Scope, e *ast.Expr) ast.TypeTag {
	t := a.AnalyzeExpr(scope, e.AllocValue)
	return t
}
