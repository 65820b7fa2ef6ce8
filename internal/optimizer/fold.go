// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package optimizer

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/token"
)

// foldStmt recursively folds constant subexpressions throughout s,
// mirroring original_source/optimizer.h's constant_folding walking every
// statement of every function body.
func foldStmt(s *ast.Stmt) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.VarDecl:
		foldExprField(&s.Init)
	case ast.Assign, ast.IndexAssign:
		foldExprField(&s.IndexExpr)
		foldExprField(&s.Value)
	case ast.If:
		foldExprField(&s.Cond)
		foldStmt(s.Then)
		foldStmt(s.Else)
	case ast.While, ast.DoWhile:
		foldExprField(&s.Cond)
		foldStmt(s.Body)
	case ast.ForCounted:
		foldExprField(&s.Min)
		foldExprField(&s.Max)
		foldStmt(s.Body)
	case ast.Block:
		for _, sub := range s.Stmts {
			foldStmt(sub)
		}
	case ast.MatchStmt:
		foldExprField(&s.Subject)
		for i := range s.Branches {
			for _, sub := range s.Branches[i].Stmts {
				foldStmt(sub)
			}
		}
	case ast.ExprStmt:
		foldExprField(&s.Expr)
	}
}

// foldExprField folds *e in place, replacing it with a literal node when the
// whole subexpression reduces to a constant.
func foldExprField(e *ast.Exprp) {
	if e == nil || *e == nil {
		return
	}
	*e = foldExpr(*e)
}

// foldExpr returns e with every constant-foldable subexpression reduced,
// matching original_source/optimizer.h's is_constant_expr/eval_constant_expr
// pairing: an expression whose operands are all literals after recursing is
// replaced by its literal result.
func foldExpr(e *ast.Expr) *ast.Expr {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.UnaryOp:
		e.Right = foldExpr(e.Right)
		if v, ok := constInt(e.Right); ok {
			switch e.Op {
			case token.MINUS:
				return &ast.Expr{Kind: ast.IntLit, Pos: e.Pos, IntVal: -v, ResolvedType: ast.TypeInt}
			}
		}
		if v, ok := constBool(e.Right); ok && e.Op == token.BANG {
			return &ast.Expr{Kind: ast.BoolLit, Pos: e.Pos, BoolVal: !v, ResolvedType: ast.TypeBool}
		}

	case ast.BinaryOp:
		e.Left = foldExpr(e.Left)
		e.Right = foldExpr(e.Right)

		if lv, lok := constInt(e.Left); lok {
			if rv, rok := constInt(e.Right); rok {
				if folded, ok := foldIntOp(e.Op, lv, rv, e.Pos); ok {
					return folded
				}
			}
		}
		if lv, lok := constBool(e.Left); lok {
			if rv, rok := constBool(e.Right); rok {
				if folded, ok := foldBoolOp(e.Op, lv, rv, e.Pos); ok {
					return folded
				}
			}
		}

	case ast.Call:
		for i, a := range e.Args {
			e.Args[i] = foldExpr(a)
		}

	case ast.ArrayLit:
		for i, el := range e.Elements {
			e.Elements[i] = foldExpr(el)
		}

	case ast.Index:
		e.Array = foldExpr(e.Array)
		e.IndexExpr = foldExpr(e.IndexExpr)

	case ast.Alloc:
		e.AllocValue = foldExpr(e.AllocValue)

	case ast.Return:
		e.RetValue = foldExpr(e.RetValue)

	case ast.Match:
		e.Subject = foldExpr(e.Subject)
		for i := range e.Branches {
			e.Branches[i].Body = foldExpr(e.Branches[i].Body)
		}
	}
	return e
}

func constInt(e *ast.Expr) (int, bool) {
	if e != nil && e.Kind == ast.IntLit {
		return e.IntVal, true
	}
	return 0, false
}

func constBool(e *ast.Expr) (bool, bool) {
	if e != nil && e.Kind == ast.BoolLit {
		return e.BoolVal, true
	}
	return false, false
}

func foldIntOp(op token.Kind, l, r int, pos token.Position) (*ast.Expr, bool) {
	intLit := func(v int) *ast.Expr {
		return &ast.Expr{Kind: ast.IntLit, Pos: pos, IntVal: v, ResolvedType: ast.TypeInt}
	}
	boolLit := func(v bool) *ast.Expr {
		return &ast.Expr{Kind: ast.BoolLit, Pos: pos, BoolVal: v, ResolvedType: ast.TypeBool}
	}
	switch op {
	case token.PLUS:
		return intLit(l + r), true
	case token.MINUS:
		return intLit(l - r), true
	case token.STAR:
		return intLit(l * r), true
	case token.SLASH:
		if r == 0 {
			return nil, false
		}
		return intLit(l / r), true
	case token.EQ:
		return boolLit(l == r), true
	case token.NE:
		return boolLit(l != r), true
	case token.LT:
		return boolLit(l < r), true
	case token.GT:
		return boolLit(l > r), true
	case token.LE:
		return boolLit(l <= r), true
	case token.GE:
		return boolLit(l >= r), true
	}
	return nil, false
}

func foldBoolOp(op token.Kind, l, r bool, pos token.Position) (*ast.Expr, bool) {
	boolLit := func(v bool) *ast.Expr {
		return &ast.Expr{Kind: ast.BoolLit, Pos: pos, BoolVal: v, ResolvedType: ast.TypeBool}
	}
	switch op {
	case token.AND_AND:
		return boolLit(l && r), true
	case token.OR_OR:
		return boolLit(l || r), true
	case token.EQ:
		return boolLit(l == r), true
	case token.NE:
		return boolLit(l != r), true
	}
	return nil, false
}
