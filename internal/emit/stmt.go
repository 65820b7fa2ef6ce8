// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package emit

import "github.com/mdhender/lync/internal/ast"

// emitStmt writes s with indentation and newlines, mirroring
// original_source/codegen.c's emit_stmt structure one-for-one, extended
// with IndexAssign and the array-of-owned cascading free this repository
// adds.
func (e *Emitter) emitStmt(s *ast.Stmt, indent int) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.VarDecl:
		e.emitVarDecl(s, indent)
	case ast.Assign:
		if s.Value.Kind == ast.Alloc {
			e.emitIndent(indent)
			e.printf("%s = malloc(sizeof(%s));\n", s.Target, cBaseType(s.Value.ResolvedType))
			e.emitAssignExprToVar(s.Value.AllocValue, s.Target, s.TargetOwnership, indent)
			break
		}
		e.emitIndent(indent)
		e.emitAssignExprToVar(s.Value, s.Target, s.TargetOwnership, indent)
	case ast.IndexAssign:
		e.emitIndent(indent)
		e.emitExprNoDeref(&ast.Expr{Kind: ast.VarUse, Name: s.Target})
		e.printf("[")
		e.emitExpr(s.IndexExpr)
		e.printf("] = ")
		e.emitExpr(s.Value)
		e.printf(";\n")
	case ast.If:
		e.emitIf(s, indent)
	case ast.While:
		e.emitIndent(indent)
		e.printf("while (")
		e.emitExpr(s.Cond)
		e.printf(") ")
		e.emitStmt(s.Body, indent)
	case ast.DoWhile:
		e.emitIndent(indent)
		e.printf("do ")
		e.emitStmt(s.Body, indent)
		e.emitIndent(indent)
		e.printf("while (")
		e.emitExpr(s.Cond)
		e.printf(");\n")
	case ast.ForCounted:
		e.emitIndent(indent)
		e.printf("for (int64_t %s = ", s.InductionVar)
		e.emitExpr(s.Min)
		e.printf("; %s <= ", s.InductionVar)
		e.emitExpr(s.Max)
		e.printf("; %s++) ", s.InductionVar)
		e.emitStmt(s.Body, indent)
	case ast.Block:
		e.emitIndent(indent)
		e.printf("{\n")
		for _, sub := range s.Stmts {
			e.emitStmt(sub, indent+1)
		}
		e.emitIndent(indent)
		e.printf("}\n")
	case ast.MatchStmt:
		e.emitMatchStmt(s, indent)
	case ast.Free:
		e.emitFree(s, indent)
	case ast.ExprStmt:
		e.emitExprStmt(s, indent)
	}
}

func (e *Emitter) emitIndent(level int) {
	e.printf("%s", indentStr(level))
}

// emitVarDecl handles the three declaration shapes: a plain/pointer scalar,
// an `alloc` initializer (malloc + assign, original_source's VAR_DECL_S
// case), and this repository's array extension (own arrays heap-allocated
// element by element, plain/ref arrays as a brace-initialized C array).
func (e *Emitter) emitVarDecl(s *ast.Stmt, indent int) {
	if s.Array.IsArray {
		e.emitArrayDecl(s, indent)
		return
	}

	e.emitIndent(indent)
	e.printf("%s %s", cType(s.DeclType, s.DeclOwn), s.Name)

	if s.Init != nil && s.Init.Kind == ast.Alloc {
		e.printf(" = malloc(sizeof(%s));\n", cBaseType(s.DeclType))
		e.emitAssignExprToVar(s.Init.AllocValue, s.Name, s.DeclOwn, indent)
		return
	}

	// An own/ref declaration from another variable or from null takes the
	// pointer value itself rather than writing through an unset pointer.
	if s.DeclOwn != ast.OwnNone && s.Init != nil && (s.Init.Kind == ast.VarUse || s.Init.Kind == ast.NullLit) {
		e.printf(" = ")
		e.emitExprNoDeref(s.Init)
		e.printf(";\n")
		return
	}

	e.printf(";\n")
	if s.Init != nil {
		e.emitAssignExprToVar(s.Init, s.Name, s.DeclOwn, indent)
	}
}

// emitArrayDecl lowers an array declaration. An `own` array of owned
// elements is a backing store of pointers: the store itself is malloc'd as
// T*[n], and every element (each one an `alloc` expression) is malloc'd and
// populated individually, so each slot is independently freeable — the
// cascading free's mirror image. Any other array is a brace-initialized
// local C array.
func (e *Emitter) emitArrayDecl(s *ast.Stmt, indent int) {
	elemType := cBaseType(s.DeclType)
	if s.DeclOwn == ast.OwnOwn {
		e.emitIndent(indent)
		e.printf("%s** %s = malloc(sizeof(%s*) * %d);\n", elemType, s.Name, elemType, s.Array.ArraySize)
		if s.Init != nil && s.Init.Kind == ast.ArrayLit {
			for i, el := range s.Init.Elements {
				e.emitIndent(indent)
				e.printf("%s[%d] = malloc(sizeof(%s));\n", s.Name, i, elemType)
				e.emitIndent(indent)
				e.printf("*%s[%d] = ", s.Name, i)
				if el.Kind == ast.Alloc {
					e.emitExpr(el.AllocValue)
				} else {
					e.emitExpr(el)
				}
				e.printf(";\n")
			}
		}
		return
	}

	e.emitIndent(indent)
	e.printf("%s %s[%d]", elemType, s.Name, s.Array.ArraySize)
	if s.Init != nil && s.Init.Kind == ast.ArrayLit {
		e.printf(" = ")
		e.emitExpr(s.Init)
	}
	e.printf(";\n")
}

// emitAssignExprToVar writes `target = value;`, except when value is a
// Match expression: then it lowers via a chained if/else-if/else that
// assigns target in every branch — original_source/codegen.c's
// emit_assign_expr_to_var, the scratch-variable pattern spec.md §4.8 calls
// for on "expression-returning match that appears as a return or as a
// declaration initializer".
func (e *Emitter) emitAssignExprToVar(value *ast.Expr, target string, targetOwn ast.Ownership, indent int) {
	if value.Kind == ast.Match {
		e.emitMatchAssign(value, target, targetOwn, indent)
		return
	}

	e.emitIndent(indent)
	if targetOwn != ast.OwnNone {
		e.printf("*%s = ", target)
	} else {
		e.printf("%s = ", target)
	}
	e.emitExpr(value)
	e.printf(";\n")
}

func (e *Emitter) emitMatchAssign(m *ast.Expr, target string, targetOwn ast.Ownership, indent int) {
	var wildcard *ast.ExprBranch
	first := true
	for i := range m.Branches {
		br := &m.Branches[i]
		if br.Pattern.Kind == ast.PatWildcard {
			wildcard = br
			continue
		}

		e.emitIndent(indent)
		if first {
			e.printf("if (")
			first = false
		} else {
			e.printf("else if (")
		}
		e.emitMatchCond(m.Subject, &br.Pattern)
		e.printf(") {\n")
		e.emitAssignBranchBody(br, m.Subject, target, targetOwn, indent+1)
		e.emitIndent(indent)
		e.printf("}\n")
	}

	if wildcard != nil {
		e.emitIndent(indent)
		e.printf("else {\n")
		e.emitAssignBranchBody(wildcard, m.Subject, target, targetOwn, indent+1)
		e.emitIndent(indent)
		e.printf("}\n")
	}
}

// emitAssignBranchBody writes a some(b) branch's binder alias — b aliases
// subject itself (never dereferenced, spec.md §4.5), not its own name.
func (e *Emitter) emitAssignBranchBody(br *ast.ExprBranch, subject *ast.Expr, target string, targetOwn ast.Ownership, indent int) {
	if br.Pattern.Kind == ast.PatSome {
		e.emitIndent(indent)
		e.printf("%s %s = ", cType(br.UnwrappedType, ast.OwnRef), br.Pattern.Binder)
		e.emitExprNoDeref(subject)
		e.printf(";\n")
	}
	e.emitAssignExprToVar(br.Body, target, targetOwn, indent)
}

// emitMatchCond writes the boolean C test for one pattern against subject:
// some/null compare the subject directly to NULL (never dereferenced —
// spec.md §4.8's pattern-test exception), a value pattern compares by
// equality.
func (e *Emitter) emitMatchCond(subject *ast.Expr, pat *ast.Pattern) {
	switch pat.Kind {
	case ast.PatSome:
		e.emitExprNoDeref(subject)
		e.printf(" != NULL")
	case ast.PatNull:
		e.emitExprNoDeref(subject)
		e.printf(" == NULL")
	case ast.PatValue:
		e.emitExpr(subject)
		e.printf(" == ")
		e.emitExpr(pat.Value)
	}
}

func (e *Emitter) emitIf(s *ast.Stmt, indent int) {
	e.emitIndent(indent)
	e.printf("if (")
	e.emitExpr(s.Cond)
	e.printf(") ")
	e.emitBranchBody(s.Then, indent)
	if s.Else != nil {
		e.printf(" else ")
		e.emitBranchBody(s.Else, indent)
	}
	e.printf("\n")
}

// emitBranchBody writes a then/else arm: a block prints its own braces, a
// bare statement gets braces synthesized around it (original_source's
// IF_S handling of a non-BLOCK_S branch).
func (e *Emitter) emitBranchBody(s *ast.Stmt, indent int) {
	if s.Kind == ast.Block {
		e.emitStmt(s, indent)
		return
	}
	e.printf("{\n")
	e.emitStmt(s, indent+1)
	e.emitIndent(indent)
	e.printf("}")
}

// emitMatchStmt lowers a statement-form match to a chained if/else-if/else
// (spec.md §4.8), the wildcard arm always emitted last regardless of its
// position in source.
func (e *Emitter) emitMatchStmt(s *ast.Stmt, indent int) {
	var wildcard *ast.StmtBranch
	first := true
	for i := range s.Branches {
		br := &s.Branches[i]
		if br.Pattern.Kind == ast.PatWildcard {
			wildcard = br
			continue
		}

		e.emitIndent(indent)
		if first {
			e.printf("if (")
			first = false
		} else {
			e.printf("else if (")
		}
		e.emitMatchCond(s.Subject, &br.Pattern)
		e.printf(") {\n")
		e.emitMatchStmtBranchBody(br, s.Subject, indent+1)
		e.emitIndent(indent)
		e.printf("}\n")
	}

	if wildcard != nil {
		e.emitIndent(indent)
		e.printf("else {\n")
		e.emitMatchStmtBranchBody(wildcard, s.Subject, indent+1)
		e.emitIndent(indent)
		e.printf("}\n")
	}
}

// emitMatchStmtBranchBody writes a some(b) branch's binder alias — b
// aliases subject itself (never dereferenced, spec.md §4.5), not its own
// name.
func (e *Emitter) emitMatchStmtBranchBody(br *ast.StmtBranch, subject *ast.Expr, indent int) {
	if br.Pattern.Kind == ast.PatSome {
		e.emitIndent(indent)
		e.printf("%s %s = ", cType(br.UnwrappedType, ast.OwnRef), br.Pattern.Binder)
		e.emitExprNoDeref(subject)
		e.printf(";\n")
	}
	for _, sub := range br.Stmts {
		e.emitStmt(sub, indent)
	}
}

// emitFree lowers `free x;`. When the analyzer flagged the target as an
// array of owned elements, it first frees every element, then the backing
// store — spec.md §4.8's cascading free.
func (e *Emitter) emitFree(s *ast.Stmt, indent int) {
	if s.FreeIsArrayOfOwned {
		e.emitIndent(indent)
		e.printf("for (int64_t i = 0; i < %d; i++) {\n", s.FreeArraySize)
		e.emitIndent(indent + 1)
		e.printf("free(%s[i]);\n", s.FreeName)
		e.emitIndent(indent)
		e.printf("}\n")
	}
	e.emitIndent(indent)
	e.printf("free(%s);\n", s.FreeName)
}

// emitExprStmt handles the ExprStmt wrapper, including the Return case
// (which needs statement-level context for the scratch-variable match
// lowering spec.md §4.8 calls for) and a bare void return.
func (e *Emitter) emitExprStmt(s *ast.Stmt, indent int) {
	x := s.Expr
	if x.Kind != ast.Return {
		e.emitIndent(indent)
		e.emitExpr(x)
		e.printf(";\n")
		return
	}

	switch {
	case x.RetValue == nil:
		e.emitIndent(indent)
		e.printf("return;\n")
	case x.RetValue.Kind == ast.Match:
		e.emitIndent(indent)
		e.printf("{\n")
		e.emitIndent(indent + 1)
		e.printf("%s _ret;\n", cType(x.RetValue.ResolvedType, ast.OwnNone))
		e.emitAssignExprToVar(x.RetValue, "_ret", ast.OwnNone, indent+1)
		e.emitIndent(indent + 1)
		e.printf("return _ret;\n")
		e.emitIndent(indent)
		e.printf("}\n")
	case x.RetValue.Kind == ast.Alloc:
		e.emitIndent(indent)
		e.printf("{\n")
		e.emitIndent(indent + 1)
		e.printf("%s _ret = malloc(sizeof(%s));\n", cType(x.RetValue.ResolvedType, ast.OwnOwn), cBaseType(x.RetValue.ResolvedType))
		e.emitAssignExprToVar(x.RetValue.AllocValue, "_ret", ast.OwnOwn, indent+1)
		e.emitIndent(indent + 1)
		e.printf("return _ret;\n")
		e.emitIndent(indent)
		e.printf("}\n")
	default:
		e.emitIndent(indent)
		e.printf("return ")
		e.emitExpr(x.RetValue)
		e.printf(";\n")
	}
}
