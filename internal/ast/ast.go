// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package ast is the syntax tree shared by the parser, analyzer, optimizer,
// and emitter (spec.md §3, §6.2). Nodes carry source locations; after
// analysis they also carry the semantic facts described in spec.md §6.3
// (resolved signatures, type tags, nullability, cascading-free info).
//
// Analysis mutates these structs in place rather than building a parallel
// side table — spec.md §9 ("Mutable state on the tree") allows either, and
// in-place mutation keeps the emitter's walk a straight read of the same
// tree the analyzer just finished with.
package ast

import "github.com/mdhender/lync/internal/token"

// TypeTag is one of the primitive type categories of spec.md §3.1.
type TypeTag int

const (
	TypeInvalid TypeTag = iota
	TypeInt
	TypeBool
	TypeStr
	TypeChar
	TypeVoid
	TypeNullLiteral
)

func (t TypeTag) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeStr:
		return "str"
	case TypeChar:
		return "char"
	case TypeVoid:
		return "void"
	case TypeNullLiteral:
		return "null"
	default:
		return "invalid"
	}
}

// Ownership is one of the qualifiers of spec.md §3.2.
type Ownership int

const (
	OwnNone Ownership = iota
	OwnOwn
	OwnRef
)

func (o Ownership) String() string {
	switch o {
	case OwnOwn:
		return "own"
	case OwnRef:
		return "ref"
	default:
		return "none"
	}
}

// SymbolState is the per-symbol lifecycle state of spec.md §3.3.
type SymbolState int

const (
	StateAlive SymbolState = iota
	StateMoved
	StateFreed
)

func (s SymbolState) String() string {
	switch s {
	case StateMoved:
		return "moved"
	case StateFreed:
		return "freed"
	default:
		return "alive"
	}
}

// ArrayInfo captures spec.md §3.3's array metadata, carried both on
// declaration-site symbols and (after analysis) on declaration statements.
type ArrayInfo struct {
	IsArray          bool
	ElementOwnership Ownership
	// ArraySize is the statically-known element count, or UnknownSize if the
	// array's size cannot be determined at compile time (spec.md §3.3).
	ArraySize int
}

// UnknownSize is the negative sentinel spec.md §3.3 calls for.
const UnknownSize = -1

// Param is one function parameter (spec.md §3.5).
type Param struct {
	Name      string
	Type      TypeTag
	Ownership Ownership
	Nullable  bool
	Const     bool
	Array     ArrayInfo
	Pos       token.Position
}

// FuncSignature is (name, parameters, return type, return ownership) —
// spec.md §3.5. Two signatures are equal iff Equal reports true.
type FuncSignature struct {
	Name          string
	Params        []Param
	ReturnType    TypeTag
	ReturnOwn     Ownership
	ReturnNullable bool
	Pos           token.Position
}

// Equal implements spec.md §3.5's registry equality: same name, arity, and
// each parameter's (type, ownership) — nullability/const/name are NOT part
// of signature identity.
func (f *FuncSignature) Equal(o *FuncSignature) bool {
	if f.Name != o.Name || len(f.Params) != len(o.Params) {
		return false
	}
	for i := range f.Params {
		if f.Params[i].Type != o.Params[i].Type || f.Params[i].Ownership != o.Params[i].Ownership {
			return false
		}
	}
	return true
}

// ReservedNames are identifiers spec.md §3.3/§3.5 forbids user symbols and
// user functions from taking.
var ReservedNames = map[string]bool{
	"print": true, "length": true,
	"read_int": true, "read_str": true, "read_bool": true, "read_char": true, "read_key": true,
}

// Func is a declared function: its signature plus a body statement.
type Func struct {
	Signature *FuncSignature
	Body      Stmt
	Pos       token.Position
}

// Import records one `using std.io(...)` style statement (spec.md §6.4).
type Import struct {
	Module  []string // dotted path segments, e.g. ["std", "io"]
	All     bool     // true for using a.b.(*)
	Names   []string // specific imported names, if !All
	Pos     token.Position
}

// Program is (import list, function list) — spec.md §3.7.
type Program struct {
	Imports []Import
	Funcs   []Func
}
