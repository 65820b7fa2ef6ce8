// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sema

import "github.com/mdhender/lync/internal/ast"

// FunctionRegistry holds every declared user function signature in
// registration order (spec.md §3.5). Overload resolution (spec.md §4.3)
// depends on that order being stable and insertion-based — do not
// pre-group by name (spec.md §9).
type FunctionRegistry struct {
	signatures []*ast.FuncSignature
}

// NewFunctionRegistry creates an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{}
}

// Register adds sig to the registry. It reports false if an equal
// signature (spec.md §3.5's equality: same name/arity/parameter
// type+ownership) is already registered; the caller is responsible for
// turning that into a diagnostic.
func (r *FunctionRegistry) Register(sig *ast.FuncSignature) bool {
	for _, existing := range r.signatures {
		if existing.Equal(sig) {
			return false
		}
	}
	r.signatures = append(r.signatures, sig)
	return true
}

// ByNameArity returns every registered signature named name with exactly
// arity parameters, in registration order — the candidate set spec.md
// §4.3 step 1 collects.
func (r *FunctionRegistry) ByNameArity(name string, arity int) []*ast.FuncSignature {
	var out []*ast.FuncSignature
	for _, sig := range r.signatures {
		if sig.Name == name && len(sig.Params) == arity {
			out = append(out, sig)
		}
	}
	return out
}

// All returns every registered signature in registration order.
func (r *FunctionRegistry) All() []*ast.FuncSignature {
	return append([]*ast.FuncSignature(nil), r.signatures...)
}

// ImportRegistry tracks which std.io reader built-ins a program has
// imported via `using std.io(...)` (spec.md §3.7, §6.4) — gating their use
// at call sites.
type ImportRegistry struct {
	imported map[string]bool
}

// NewImportRegistry creates an empty ImportRegistry.
func NewImportRegistry() *ImportRegistry {
	return &ImportRegistry{imported: map[string]bool{}}
}

// StdIOBuiltins names every function std.io exposes (spec.md §6.4).
var StdIOBuiltins = []string{"read_int", "read_str", "read_bool", "read_char", "read_key"}

// Import records that name was explicitly imported from std.io; the
// wildcard `using std.io(*)` goes through ImportAll instead.
func (r *ImportRegistry) Import(name string) {
	r.imported[name] = true
}

// ImportAll records every std.io built-in as imported (the `(*)` form).
func (r *ImportRegistry) ImportAll() {
	for _, name := range StdIOBuiltins {
		r.imported[name] = true
	}
}

// Allows reports whether name has been imported and may be called.
func (r *ImportRegistry) Allows(name string) bool {
	return r.imported[name]
}
