// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mdhender/lync/internal/diag"
	"github.com/mdhender/lync/internal/lexer"
	"github.com/mdhender/lync/internal/parser"
	"github.com/mdhender/lync/internal/sema"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	toks, _ := lexer.Tokenize("<test>", []byte(src))
	sink := diag.NewSink()
	var perr bytes.Buffer
	p := parser.New(sink, &perr, toks)
	prog := p.ParseProgram()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", sink.Messages())
	}

	a := sema.New(sink)
	a.AnalyzeProgram(prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected analysis errors: %v", sink.Messages())
	}

	var out bytes.Buffer
	New(&out).Emit(prog)
	return out.String()
}

func TestEmitMainReturningZero(t *testing.T) {
	c := compile(t, `def main(): int { return 0; }`)
	if !strings.Contains(c, "int main(void)") {
		t.Fatalf("expected unmangled int main(void), got:\n%s", c)
	}
	if !strings.Contains(c, "return 0;") {
		t.Fatalf("expected 'return 0;', got:\n%s", c)
	}
}

func TestEmitAllocAndFreeLowersToMallocAndFree(t *testing.T) {
	c := compile(t, `def main(): int {
		p: own int = alloc 7;
		free p;
		return 0;
	}`)
	if !strings.Contains(c, "malloc(sizeof(int64_t))") {
		t.Fatalf("expected malloc lowering, got:\n%s", c)
	}
	if !strings.Contains(c, "*p = 7;") {
		t.Fatalf("expected alloc initial-value assignment, got:\n%s", c)
	}
	if !strings.Contains(c, "free(p);") {
		t.Fatalf("expected free lowering, got:\n%s", c)
	}
}

func TestEmitPrintBuildsFormatString(t *testing.T) {
	c := compile(t, `
		using std.io(*);
		def main(): int {
			print(1, true);
			return 0;
		}
	`)
	if !strings.Contains(c, "printf(\"%lld %s\\n\"") {
		t.Fatalf("expected assembled printf format string, got:\n%s", c)
	}
	if !strings.Contains(c, "? \"true\" : \"false\"") {
		t.Fatalf("expected bool ternary wrapping, got:\n%s", c)
	}
}

func TestEmitNullableMatchLowersToNullCheck(t *testing.T) {
	c := compile(t, `def main(): int {
		p: own? int = null;
		match p {
			some(v): { print(v); }
			null: { }
		};
		return 0;
	}`)
	if !strings.Contains(c, "p != NULL") {
		t.Fatalf("expected a null-check lowering for the some(...) branch, got:\n%s", c)
	}
	if !strings.Contains(c, "p == NULL") {
		t.Fatalf("expected a null-check lowering for the null branch, got:\n%s", c)
	}
	if !strings.Contains(c, "v = p;") {
		t.Fatalf("expected the some(v) binder to alias the subject 'p', got:\n%s", c)
	}
}

func TestEmitNullableMatchStmtBinderAliasesSubjectNotItself(t *testing.T) {
	c := compile(t, `def main(): int {
		p: own? int = null;
		match p {
			some(v): { print(v); }
			null: { }
		};
		return 0;
	}`)
	if strings.Contains(c, "v = v;") {
		t.Fatalf("binder must alias the match subject, not itself, got:\n%s", c)
	}
}

func TestEmitNullableMatchExprBinderAliasesSubject(t *testing.T) {
	c := compile(t, `def main(): int {
		p: own? int = alloc 3;
		x: int = match p {
			some(v): 1;
			null: 0;
		};
		free p;
		return x;
	}`)
	if !strings.Contains(c, "v = p;") {
		t.Fatalf("expected the some(v) binder in an expression-form match to alias the subject 'p', got:\n%s", c)
	}
	if strings.Contains(c, "v = v;") {
		t.Fatalf("binder must alias the match subject, not itself, got:\n%s", c)
	}
}

func TestEmitOverloadsGetDistinctMangledNames(t *testing.T) {
	c := compile(t, `
		def add(a: int, b: int): int { return a + b; }
		def add(a: bool, b: bool): bool { return a && b; }
		def main(): int { return 0; }
	`)
	if !strings.Contains(c, "add_int_int_int") {
		t.Fatalf("expected int overload's mangled name, got:\n%s", c)
	}
	if !strings.Contains(c, "add_bool_bool_bool") {
		t.Fatalf("expected bool overload's mangled name, got:\n%s", c)
	}
}

func TestEmitArrayOfOwnedCascadesFree(t *testing.T) {
	c := compile(t, `def main(): int {
		xs: own int[] = [alloc 1, alloc 2];
		free xs;
		return 0;
	}`)
	if !strings.Contains(c, "for (int64_t i = 0; i < 2; i++)") {
		t.Fatalf("expected a cascading per-element free loop, got:\n%s", c)
	}
	if !strings.Contains(c, "free(xs[i]);") {
		t.Fatalf("expected each element freed, got:\n%s", c)
	}
	if !strings.Contains(c, "free(xs);") {
		t.Fatalf("expected the backing array freed, got:\n%s", c)
	}
}
