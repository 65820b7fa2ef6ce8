// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package ast

import "github.com/mdhender/lync/internal/token"

// PatternKind discriminates the match-pattern forms of spec.md §4.5.
type PatternKind int

const (
	PatValue PatternKind = iota
	PatWildcard
	PatNull
	PatSome
)

// Pattern is one arm's match pattern.
type Pattern struct {
	Kind  PatternKind
	Pos   token.Position
	Value Exprp  // PatValue only
	Binder string // PatSome only: the name bound inside the arm
}
