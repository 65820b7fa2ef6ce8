// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package ast

import "github.com/mdhender/lync/internal/token"

// StmtKind discriminates the statement forms of spec.md §3.6/§4.7.
type StmtKind int

const (
	VarDecl StmtKind = iota
	Assign
	IndexAssign
	If
	While
	DoWhile
	ForCounted
	Block
	MatchStmt
	Free
	ExprStmt
)

// Stmt is every statement node. See Expr's doc comment for why this is one
// struct with a Kind discriminant instead of per-kind types.
type Stmt struct {
	Kind StmtKind
	Pos  token.Position

	// --- VarDecl ---
	Name      string
	DeclType  TypeTag
	DeclOwn   Ownership
	Nullable  bool
	Const     bool
	Array     ArrayInfo
	Init      Exprp

	// --- Assign / IndexAssign ---
	Target     string  // variable being assigned (or array being indexed)
	IndexExpr  Exprp   // IndexAssign only: the index expression
	Value      Exprp

	// --- If ---
	Cond      Exprp
	Then      *Stmt
	Else      *Stmt // nil if no else branch

	// --- While / DoWhile ---
	Body *Stmt

	// --- ForCounted ---
	InductionVar string
	Min          Exprp
	Max          Exprp
	// (Body above is reused for the loop body.)

	// --- Block ---
	Stmts []*Stmt

	// --- MatchStmt ---
	Subject  Exprp
	Branches []StmtBranch

	// --- Free ---
	FreeName string

	// --- ExprStmt ---
	Expr Exprp

	// ==== facts attached by the analyzer (spec.md §6.3) ====

	// Assign/VarDecl: the resolved ownership of the target symbol, used by
	// the emitter to decide whether an assignment writes through a pointer.
	TargetOwnership Ownership

	// Free: cascading-free metadata (spec.md §4.6/§4.8/§9).
	FreeIsArrayOfOwned bool
	FreeArraySize      int
}

// StmtBranch is one arm of a statement-form match (spec.md §4.5).
type StmtBranch struct {
	Pattern       Pattern
	Stmts         []*Stmt
	UnwrappedType TypeTag
}
