// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package ast

import "github.com/mdhender/lync/internal/token"

// ExprKind discriminates the expression forms of spec.md §3.6.
type ExprKind int

const (
	IntLit ExprKind = iota
	BoolLit
	StrLit
	NullLit
	VarUse
	Index
	ArrayLit
	UnaryOp
	BinaryOp
	Call
	Return
	Match
	SomeTest
	Alloc
	Void
)

// BuiltinCall tags a call node that resolves to a compiler built-in rather
// than a user-defined FuncSignature (spec.md §6.3).
type BuiltinCall int

const (
	NotBuiltin BuiltinCall = iota
	BuiltinPrint
	BuiltinLength
	BuiltinReadInt
	BuiltinReadStr
	BuiltinReadBool
	BuiltinReadChar
	BuiltinReadKey
)

// Operator identifies the operator of a Unary/Binary
// expression by the token kind that spelled it.
type Operator = token.Kind

// Expr is every expression node in the tree. A single struct with a Kind
// discriminant (rather than an interface per node type) keeps analysis
// facts attachable uniformly and keeps the analyzer/emitter switches flat —
// the same shape the teacher's grammar.Directive/Alt structs use for their
// own small sum types (internal/grammar/api.go).
type Expr struct {
	Kind ExprKind
	Pos  token.Position

	// --- literal payloads ---
	IntVal  int
	BoolVal bool
	StrVal  string

	// --- VarUse ---
	Name string

	// --- Index ---
	Array Exprp
	IndexExpr Exprp

	// --- ArrayLit ---
	Elements []Exprp

	// --- UnaryOp / BinaryOp ---
	Op    Operator
	Left  Exprp
	Right Exprp // operand of UnaryOp is stored here

	// --- Call ---
	Args       []Exprp
	Builtin    BuiltinCall
	Resolved   *FuncSignature // set by the analyzer on success (spec.md §4.3)

	// --- Return ---
	RetValue Exprp

	// --- Match (expression form) ---
	Subject  Exprp
	Branches []ExprBranch

	// --- SomeTest: some(v) ---
	SomeName string

	// --- Alloc ---
	AllocValue Exprp

	// ==== facts attached by the analyzer (spec.md §6.3) ====
	ResolvedType TypeTag
	Nullable     bool
	// Ownership/Const mirror the resolved symbol for VarUse nodes, used by
	// the emitter to decide whether a read needs a dereference.
	Ownership Ownership
	Const     bool
}

// Exprp is a pointer to an expression node; the alias exists purely so the
// struct field declarations above read as "pointer to a sub-expression"
// without repeating `*Expr` everywhere.
type Exprp = *Expr

// ExprBranch is one arm of an expression-form match (spec.md §4.5).
type ExprBranch struct {
	Pattern Pattern
	Body    Exprp
	// UnwrappedType is set by the analyzer for some(b) branches: the type
	// the binder b was given (spec.md §6.3).
	UnwrappedType TypeTag
}
