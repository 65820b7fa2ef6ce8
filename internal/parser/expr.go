// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/token"
)

// parseExpr..parseFactor mirror original_source/parser.c's
// parseExpr/parseAnd/parseComparison/parseAdd/parseTerm/parseFactor
// precedence chain exactly (||, then &&, then comparisons, then +/-, then
// */, then unary/primary).
func (p *Parser) parseExpr() *ast.Expr {
	e := p.parseAnd()
	for p.at(token.OR_OR) {
		op := p.consume()
		right := p.parseAnd()
		e = &ast.Expr{Kind: ast.BinaryOp, Pos: op.Pos, Op: op.Kind, Left: e, Right: right}
	}
	return e
}

func (p *Parser) parseAnd() *ast.Expr {
	e := p.parseComparison()
	for p.at(token.AND_AND) {
		op := p.consume()
		right := p.parseComparison()
		e = &ast.Expr{Kind: ast.BinaryOp, Pos: op.Pos, Op: op.Kind, Left: e, Right: right}
	}
	return e
}

func (p *Parser) parseComparison() *ast.Expr {
	e := p.parseAdd()
	for isComparisonOp(p.peek(0).Kind) {
		op := p.consume()
		right := p.parseAdd()
		e = &ast.Expr{Kind: ast.BinaryOp, Pos: op.Pos, Op: op.Kind, Left: e, Right: right}
	}
	return e
}

func isComparisonOp(k token.Kind) bool {
	switch k {
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAdd() *ast.Expr {
	e := p.parseTerm()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.consume()
		right := p.parseTerm()
		e = &ast.Expr{Kind: ast.BinaryOp, Pos: op.Pos, Op: op.Kind, Left: e, Right: right}
	}
	return e
}

func (p *Parser) parseTerm() *ast.Expr {
	e := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) {
		op := p.consume()
		right := p.parseUnary()
		e = &ast.Expr{Kind: ast.BinaryOp, Pos: op.Pos, Op: op.Kind, Left: e, Right: right}
	}
	return e
}

func (p *Parser) parseUnary() *ast.Expr {
	if p.at(token.MINUS) || p.at(token.BANG) {
		op := p.consume()
		operand := p.parseUnary()
		return &ast.Expr{Kind: ast.UnaryOp, Pos: op.Pos, Op: op.Kind, Right: operand}
	}
	return p.parsePostfix()
}

// parsePostfix handles `name[index]` array indexing following a primary
// expression (spec.md §3.6's Index form — absent from original_source, this
// repository's array support).
func (p *Parser) parsePostfix() *ast.Expr {
	e := p.parseFactor()
	for p.at(token.LBRACKET) {
		lb := p.consume()
		idx := p.parseExpr()
		p.expect(token.RBRACKET)
		e = &ast.Expr{Kind: ast.Index, Pos: lb.Pos, Array: e, IndexExpr: idx}
	}
	return e
}

func (p *Parser) parseFactor() *ast.Expr {
	t := p.peek(0)

	switch t.Kind {
	case token.INT:
		p.consume()
		return &ast.Expr{Kind: ast.IntLit, Pos: t.Pos, IntVal: parseIntLiteral(t.Literal)}

	case token.KW_TRUE, token.KW_FALSE:
		p.consume()
		return &ast.Expr{Kind: ast.BoolLit, Pos: t.Pos, BoolVal: t.Kind == token.KW_TRUE}

	case token.STRING:
		p.consume()
		return &ast.Expr{Kind: ast.StrLit, Pos: t.Pos, StrVal: t.Literal}

	case token.KW_NULL:
		p.consume()
		return &ast.Expr{Kind: ast.NullLit, Pos: t.Pos}

	case token.KW_SOME:
		p.consume()
		p.expect(token.LPAREN)
		name := p.expect(token.IDENT)
		p.expect(token.RPAREN)
		return &ast.Expr{Kind: ast.SomeTest, Pos: t.Pos, SomeName: name.Literal}

	case token.IDENT:
		name := p.consume()
		if p.at(token.LPAREN) {
			p.consume()
			var args []*ast.Expr
			for !p.at(token.RPAREN) {
				if len(args) > 0 {
					p.expect(token.COMMA)
				}
				args = append(args, p.parseExpr())
			}
			p.expect(token.RPAREN)
			return &ast.Expr{Kind: ast.Call, Pos: name.Pos, Name: name.Literal, Args: args}
		}
		return &ast.Expr{Kind: ast.VarUse, Pos: name.Pos, Name: name.Literal}

	case token.UNDERSCORE:
		p.consume()
		return &ast.Expr{Kind: ast.Void, Pos: t.Pos}

	case token.LPAREN:
		p.consume()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e

	case token.LBRACKET:
		return p.parseArrayLit()

	case token.KW_MATCH:
		return p.parseMatchExpr()

	case token.KW_RETURN:
		p.consume()
		if p.at(token.SEMI) {
			return &ast.Expr{Kind: ast.Return, Pos: t.Pos}
		}
		return &ast.Expr{Kind: ast.Return, Pos: t.Pos, RetValue: p.parseExpr()}

	case token.KW_ALLOC:
		p.consume()
		return &ast.Expr{Kind: ast.Alloc, Pos: t.Pos, AllocValue: p.parseExpr()}

	default:
		p.fatalf(t.Pos, "unexpected token %s in expression", t.Kind)
		return nil
	}
}

// parseArrayLit implements `[e1, e2, ...]` (spec.md §3.6's ArrayLit form).
func (p *Parser) parseArrayLit() *ast.Expr {
	lb := p.expect(token.LBRACKET)
	var elems []*ast.Expr
	for !p.at(token.RBRACKET) {
		if len(elems) > 0 {
			p.expect(token.COMMA)
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.RBRACKET)
	return &ast.Expr{Kind: ast.ArrayLit, Pos: lb.Pos, Elements: elems}
}

// parsePattern implements spec.md §4.5's four pattern forms: `some(b)`,
// `null`, `_` (wildcard), and a plain value expression.
func (p *Parser) parsePattern() ast.Pattern {
	t := p.peek(0)
	switch t.Kind {
	case token.KW_SOME:
		p.consume()
		p.expect(token.LPAREN)
		binder := p.expect(token.IDENT)
		p.expect(token.RPAREN)
		return ast.Pattern{Kind: ast.PatSome, Pos: t.Pos, Binder: binder.Literal}
	case token.KW_NULL:
		p.consume()
		return ast.Pattern{Kind: ast.PatNull, Pos: t.Pos}
	case token.UNDERSCORE:
		p.consume()
		return ast.Pattern{Kind: ast.PatWildcard, Pos: t.Pos}
	default:
		return ast.Pattern{Kind: ast.PatValue, Pos: t.Pos, Value: p.parseExpr()}
	}
}

// parseMatchExpr implements the expression form of match: `match subject {
// pattern: bodyExpr; ... }` (spec.md §4.5). original_source/parser.c's
// MATCH_T case in parseFactor is the direct model; patterns there were a
// plain expression, generalized here to parsePattern's four forms.
func (p *Parser) parseMatchExpr() *ast.Expr {
	matchTok := p.expect(token.KW_MATCH)
	subject := p.parseExpr()
	p.expect(token.LBRACE)

	var branches []ast.ExprBranch
	for !p.at(token.RBRACE) {
		pat := p.parsePattern()
		p.expect(token.COLON)
		body := p.parseExpr()
		p.expect(token.SEMI)
		branches = append(branches, ast.ExprBranch{Pattern: pat, Body: body})
	}
	p.expect(token.RBRACE)

	return &ast.Expr{Kind: ast.Match, Pos: matchTok.Pos, Subject: subject, Branches: branches}
}

func parseIntLiteral(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
