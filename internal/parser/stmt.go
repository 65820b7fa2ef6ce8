// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/token"
)

// parseStatement mirrors original_source/parser.c's parseStatement switch on
// the leading token, generalized with IndexAssign (`name[i] = e;`) and
// MatchStmt's pattern forms that original_source has no equivalent for.
func (p *Parser) parseStatement() *ast.Stmt {
	t := p.peek(0)

	switch t.Kind {
	case token.IDENT:
		return p.parseIdentLedStatement()
	case token.KW_IF:
		return p.parseIf()
	case token.KW_WHILE:
		return p.parseWhile()
	case token.KW_DO:
		return p.parseDoWhile()
	case token.KW_FOR:
		return p.parseFor()
	case token.KW_RETURN:
		e := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.Stmt{Kind: ast.ExprStmt, Pos: e.Pos, Expr: e}
	case token.KW_MATCH:
		return p.parseMatchStmt()
	case token.KW_FREE:
		return p.parseFree()
	default:
		p.fatalf(t.Pos, "unexpected token %s at start of statement", t.Kind)
		return nil
	}
}

// parseIdentLedStatement disambiguates the four statement forms that start
// with an identifier: `name: type = e;` (VarDecl), `name = e;` (Assign),
// `name[i] = e;` (IndexAssign), or a bare call expression statement — the
// same one-token-of-lookahead dispatch original_source/parser.c's VAR_T case
// uses.
func (p *Parser) parseIdentLedStatement() *ast.Stmt {
	name := p.peek(0)

	switch p.peek(1).Kind {
	case token.COLON:
		return p.parseVarDecl()
	case token.ASSIGN:
		p.consume()
		p.consume()
		value := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.Stmt{Kind: ast.Assign, Pos: name.Pos, Target: name.Literal, Value: value}
	case token.LBRACKET:
		p.consume()
		p.consume()
		idx := p.parseExpr()
		p.expect(token.RBRACKET)
		p.expect(token.ASSIGN)
		value := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.Stmt{Kind: ast.IndexAssign, Pos: name.Pos, Target: name.Literal, IndexExpr: idx, Value: value}
	case token.LPAREN:
		e := p.parseExpr()
		p.expect(token.SEMI)
		return &ast.Stmt{Kind: ast.ExprStmt, Pos: e.Pos, Expr: e}
	default:
		p.fatalf(p.peek(1).Pos, "unexpected token after identifier: %s", p.peek(1).Kind)
		return nil
	}
}

func (p *Parser) parseVarDecl() *ast.Stmt {
	name := p.consume()
	p.expect(token.COLON)
	own, nullable, isConst, typ := p.parseAnnotation()

	s := &ast.Stmt{Kind: ast.VarDecl, Pos: name.Pos, Name: name.Literal, DeclType: typ, DeclOwn: own, Nullable: nullable, Const: isConst}

	if p.at(token.LBRACKET) {
		p.consume()
		p.expect(token.RBRACKET)
		s.Array = ast.ArrayInfo{IsArray: true, ElementOwnership: own, ArraySize: ast.UnknownSize}
	}

	p.expect(token.ASSIGN)
	s.Init = p.parseExpr()
	p.expect(token.SEMI)

	if s.Array.IsArray && s.Init.Kind == ast.ArrayLit {
		s.Array.ArraySize = len(s.Init.Elements)
	}
	return s
}

func (p *Parser) parseIf() *ast.Stmt {
	ifTok := p.expect(token.KW_IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlock()

	s := &ast.Stmt{Kind: ast.If, Pos: ifTok.Pos, Cond: cond, Then: &then}
	if p.at(token.KW_ELSE) {
		p.consume()
		els := p.parseBlock()
		s.Else = &els
	}
	return s
}

func (p *Parser) parseWhile() *ast.Stmt {
	whileTok := p.expect(token.KW_WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.Stmt{Kind: ast.While, Pos: whileTok.Pos, Cond: cond, Body: &body}
}

func (p *Parser) parseDoWhile() *ast.Stmt {
	doTok := p.expect(token.KW_DO)
	body := p.parseBlock()
	p.expect(token.KW_WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.SEMI)
	return &ast.Stmt{Kind: ast.DoWhile, Pos: doTok.Pos, Cond: cond, Body: &body}
}

// parseFor implements spec.md's counted for: `for (name: min..=max) body`
// (inclusive range, DOTDOTEQ — original_source's TO_T).
func (p *Parser) parseFor() *ast.Stmt {
	forTok := p.expect(token.KW_FOR)
	p.expect(token.LPAREN)
	name := p.expect(token.IDENT)
	p.expect(token.COLON)
	min := p.parseExpr()
	p.expect(token.DOTDOTEQ)
	max := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return &ast.Stmt{Kind: ast.ForCounted, Pos: forTok.Pos, InductionVar: name.Literal, Min: min, Max: max, Body: &body}
}

// parseBlock implements `{ stmt* }`.
func (p *Parser) parseBlock() ast.Stmt {
	lb := p.expect(token.LBRACE)
	var stmts []*ast.Stmt
	for !p.at(token.RBRACE) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return ast.Stmt{Kind: ast.Block, Pos: lb.Pos, Stmts: stmts}
}

// parseMatchStmt implements the statement form of match: `match subject {
// pattern: { stmt* } ... };` — note the trailing semicolon after the closing
// brace, matching original_source/parser.c's MATCH_S handling exactly.
func (p *Parser) parseMatchStmt() *ast.Stmt {
	matchTok := p.expect(token.KW_MATCH)
	subject := p.parseExpr()
	p.expect(token.LBRACE)

	var branches []ast.StmtBranch
	for !p.at(token.RBRACE) {
		pat := p.parsePattern()
		p.expect(token.COLON)
		p.expect(token.LBRACE)
		var stmts []*ast.Stmt
		for !p.at(token.RBRACE) {
			stmts = append(stmts, p.parseStatement())
		}
		p.expect(token.RBRACE)
		branches = append(branches, ast.StmtBranch{Pattern: pat, Stmts: stmts})
	}
	p.expect(token.RBRACE)
	p.expect(token.SEMI)

	return &ast.Stmt{Kind: ast.MatchStmt, Pos: matchTok.Pos, Subject: subject, Branches: branches}
}

func (p *Parser) parseFree() *ast.Stmt {
	freeTok := p.expect(token.KW_FREE)
	name := p.expect(token.IDENT)
	p.expect(token.SEMI)
	return &ast.Stmt{Kind: ast.Free, Pos: freeTok.Pos, FreeName: name.Literal}
}
