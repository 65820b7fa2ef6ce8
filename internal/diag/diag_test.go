// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mdhender/lync/internal/token"
)

func TestSink_ErrorCapTruncatesErrorsOnly(t *testing.T) {
	s := NewSinkWithCap(2)
	for i := 0; i < 5; i++ {
		s.Error(StageAnalyzer, token.Position{}, "error %d", i)
	}
	s.Warning(StageAnalyzer, token.Position{}, "a warning")
	s.Note(StageAnalyzer, token.Position{}, "a note")

	if s.ErrorCount() != 2 {
		t.Fatalf("ErrorCount() = %d, want 2", s.ErrorCount())
	}
	if s.Truncated() != 3 {
		t.Fatalf("Truncated() = %d, want 3", s.Truncated())
	}
	if s.WarningCount() != 1 {
		t.Fatalf("WarningCount() = %d, want 1", s.WarningCount())
	}
	msgs := s.Messages()
	if len(msgs) != 4 { // 2 errors + 1 warning + 1 note, none of those capped
		t.Fatalf("len(Messages()) = %d, want 4", len(msgs))
	}
}

func TestSink_HasErrors(t *testing.T) {
	s := NewSink()
	if s.HasErrors() {
		t.Fatal("fresh sink reports errors")
	}
	s.Warning(StageLexer, token.Position{}, "just a warning")
	if s.HasErrors() {
		t.Fatal("warnings alone should not count as errors")
	}
	s.Error(StageLexer, token.Position{}, "boom")
	if !s.HasErrors() {
		t.Fatal("expected HasErrors() after an Error call")
	}
}

func TestSink_PrintAllSummary(t *testing.T) {
	s := NewSink()
	s.Error(StageAnalyzer, token.Position{File: "a.lync", Line: 3, Column: 5}, "use after move: variable 'x' has been moved")
	var buf bytes.Buffer
	s.PrintAll(&buf)
	out := buf.String()
	if !strings.Contains(out, "a.lync:3:5") {
		t.Fatalf("expected position in output, got %q", out)
	}
	if !strings.Contains(out, "1 error generated.") {
		t.Fatalf("expected singular summary line, got %q", out)
	}
}

func TestSink_NotesAreNeverCapped(t *testing.T) {
	s := NewSinkWithCap(1)
	s.Error(StageAnalyzer, token.Position{}, "first error")
	s.Note(StageAnalyzer, token.Position{}, "explains the first error")
	s.Error(StageAnalyzer, token.Position{}, "second error, should be truncated")
	s.Note(StageAnalyzer, token.Position{}, "this note still gets through")

	if s.ErrorCount() != 1 {
		t.Fatalf("ErrorCount() = %d, want 1", s.ErrorCount())
	}
	noteCount := 0
	for _, m := range s.Messages() {
		if m.Severity == Note {
			noteCount++
		}
	}
	if noteCount != 2 {
		t.Fatalf("note count = %d, want 2", noteCount)
	}
}
