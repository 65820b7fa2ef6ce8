// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package sema implements the semantic analyzer: scope/symbol resolution,
// ownership/lifetime analysis, null-safety, and overload resolution
// (spec.md §4). It is this repository's core.
//
// Grounded on original_source/analyzer.c for exact rule semantics (scope
// chain via make_scope/lookup, declare's duplicate-name check,
// check_function_cleanup's leak detection) and on the teacher's
// internal/grammar.Builder (internal/grammar/builder.go) for the
// collect-diagnostics-instead-of-panicking shape, generalized here from a
// grammar symbol table to a lexically-nested scope stack per spec.md §3.4,
// §4.2. The scope/parent/kind shape additionally echoes
// other_examples/d3faf07c_vovakirdan-surge__internal-symbols-scope.go.go.
package sema

import (
	"github.com/mdhender/lync/internal/ast"
	"github.com/mdhender/lync/internal/token"
)

// Symbol is one declared name visible in some Scope (spec.md §3.3).
type Symbol struct {
	Name      string
	Type      ast.TypeTag
	Ownership ast.Ownership
	Nullable  bool
	Const     bool
	Array     ast.ArrayInfo

	State SymbolState
	// Owner names the `own` symbol a `ref` borrows from; empty for non-ref
	// symbols.
	Owner string
	// Dangling is set once the symbol's owner has been freed. A move of the
	// owner does not set it.
	Dangling bool
	// Unwrapped is a scoped-flow fact (spec.md §4.4, §4.5): true once this
	// symbol's nullable value has been proven non-null in this scope by a
	// some(...) pattern or if(some(v)) branch. It is also set when the
	// symbol is declared or assigned with a non-null value, so reads after
	// such an initializer or assignment are not reported.
	Unwrapped bool

	DeclaredAt token.Position
}

// SymbolState mirrors ast.SymbolState; kept as a local alias so package
// sema reads naturally without an ast. prefix on every state comparison.
type SymbolState = ast.SymbolState

const (
	Alive = ast.StateAlive
	Moved = ast.StateMoved
	Freed = ast.StateFreed
)

// Scope is a lexically nested sequence of symbols (spec.md §3.4). Symbols
// are kept in insertion order; name lookup walks outward through Parent.
type Scope struct {
	Parent  *Scope
	symbols []*Symbol
	byName  map[string]*Symbol
}

// NewScope creates a child scope of parent (parent may be nil for the
// program-level/global scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, byName: map[string]*Symbol{}}
}

// Declare adds a new symbol to scope. It rejects reserved names and names
// already declared in THIS scope (shadowing a parent's symbol is legal,
// per spec.md §3.4/§8 "a name may shadow in a child scope").
//
// On success it returns the new Symbol and DeclareErrorNone. On failure it
// returns nil and DeclareErrorReserved or DeclareErrorDuplicate, and the caller is expected to have already reported (or to report)
// the appropriate diagnostic — Declare itself does not know about the
// diagnostic sink so that it stays reusable from contexts (like parameter
// binding) that want slightly different wording per spec.md's error
// catalogue.
func (s *Scope) Declare(sym *Symbol) (*Symbol, DeclareError) {
	if ast.ReservedNames[sym.Name] {
		return nil, DeclareErrorReserved
	}
	if _, exists := s.byName[sym.Name]; exists {
		return nil, DeclareErrorDuplicate
	}
	s.symbols = append(s.symbols, sym)
	s.byName[sym.Name] = sym
	return sym, DeclareErrorNone
}

// DeclareError enumerates Scope.Declare's failure modes.
type DeclareError int

const (
	DeclareErrorNone DeclareError = iota
	DeclareErrorReserved
	DeclareErrorDuplicate
)

// Lookup searches scope, then each parent in turn, for name.
func (s *Scope) Lookup(name string) *Symbol {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.byName[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal searches only this scope, not its parents.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.byName[name]
}

// Symbols returns this scope's own symbols in declaration order (not
// including parents' symbols).
func (s *Scope) Symbols() []*Symbol {
	return append([]*Symbol(nil), s.symbols...)
}

// MarkDangling walks outward from scope, flipping Dangling on every `ref`
// symbol whose Owner matches ownerName (spec.md §4.2's mark_dangling). It
// walks every visible scope, not just the one the owner was declared in,
// because a ref declared in a nested block can still borrow from an outer
// scope's own symbol and must be found from wherever the free/move occurs.
func (s *Scope) MarkDangling(ownerName string) {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, sym := range cur.symbols {
			if sym.Ownership == ast.OwnRef && sym.Owner == ownerName {
				sym.Dangling = true
			}
		}
	}
}
