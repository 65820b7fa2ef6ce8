// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package lexer

import (
	"testing"

	"github.com/mdhender/lync/internal/token"
)

func TestTokenize_SimpleDecl(t *testing.T) {
	input := `x: own int = alloc 7;`
	expected := []token.Kind{
		token.IDENT, token.COLON, token.KW_OWN, token.KW_INT_TYPE, token.ASSIGN,
		token.KW_ALLOC, token.INT, token.SEMI, token.EOF,
	}
	toks, diags := Tokenize("<test>", []byte(input))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(toks) != len(expected) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(expected), toks)
	}
	for i, k := range expected {
		if toks[i].Kind != k {
			t.Fatalf("token %d: want %s, got %s", i, k, toks[i].Kind)
		}
	}
}

func TestTokenize_SingleAmpWarns(t *testing.T) {
	_, diags := Tokenize("<test>", []byte("a & b"))
	if len(diags) != 1 || !diags[0].Warn {
		t.Fatalf("expected one warning diagnostic, got %v", diags)
	}
}

func TestTokenize_StringEscapes(t *testing.T) {
	toks, diags := Tokenize("<test>", []byte(`"a\nb"`))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if toks[0].Kind != token.STRING || toks[0].Literal != "a\nb" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestTokenize_DotDotEqRange(t *testing.T) {
	toks, _ := Tokenize("<test>", []byte("0..=10"))
	if toks[0].Kind != token.INT || toks[1].Kind != token.DOTDOTEQ || toks[2].Kind != token.INT {
		t.Fatalf("got %v", toks)
	}
}

func TestTokenize_UnknownCharRecovers(t *testing.T) {
	toks, diags := Tokenize("<test>", []byte("x @ y"))
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	// scanning should still recover and run through to EOF.
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected EOF at end, got %v", toks)
	}
}
