// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package diag implements the compiler's diagnostic sink (spec.md §4.1):
// errors, warnings, and notes buffered with source locations, a bounded
// error cap, and a summary line. It never aborts analysis on its own —
// fatal reporting is a separate, explicit path used only for parser
// desynchronization and catastrophic internal states (spec.md §7).
//
// Grounded on the teacher's internal/grammar.Builder/Diagnostic
// (collect-instead-of-panic shape) and original_source/error.c's
// ErrorCollector (buffer + counts + summary wording).
package diag

import (
	"fmt"
	"io"

	"github.com/mdhender/lync/internal/token"
)

// Stage identifies which pipeline stage raised a diagnostic.
type Stage int

const (
	StageLexer Stage = iota
	StageParser
	StageAnalyzer
	StageOptimizer
	StageCodegen
	StageInternal
)

func (s Stage) String() string {
	switch s {
	case StageLexer:
		return "lexer"
	case StageParser:
		return "parser"
	case StageAnalyzer:
		return "analyzer"
	case StageOptimizer:
		return "optimizer"
	case StageCodegen:
		return "codegen"
	default:
		return "internal"
	}
}

// Severity is one of spec.md §4.1's three levels.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "note"
	}
}

// Message is one buffered diagnostic.
type Message struct {
	Severity Severity
	Stage    Stage
	Pos      token.Position
	Text     string
}

func (m Message) String() string {
	if m.Pos.IsZero() {
		return fmt.Sprintf("%s: %s: %s", m.Stage, m.Severity, m.Text)
	}
	return fmt.Sprintf("%s: %s: %s: %s", m.Pos, m.Stage, m.Severity, m.Text)
}

// DefaultErrorCap is the default bound on reported errors (spec.md §4.1).
// It truncates only errors; warnings and notes are never capped.
const DefaultErrorCap = 20

// Sink accumulates diagnostics in issue order.
type Sink struct {
	messages   []Message
	errorCap   int
	errorCount int
	warnCount  int
	truncated  int
}

// NewSink creates a Sink with the default error cap.
func NewSink() *Sink {
	return &Sink{errorCap: DefaultErrorCap}
}

// NewSinkWithCap creates a Sink with an explicit error cap; a cap <= 0
// means unbounded.
func NewSinkWithCap(cap int) *Sink {
	return &Sink{errorCap: cap}
}

// Error records an error-severity diagnostic, subject to the error cap.
func (s *Sink) Error(stage Stage, pos token.Position, format string, args ...any) {
	if s.errorCap > 0 && s.errorCount >= s.errorCap {
		s.truncated++
		return
	}
	s.errorCount++
	s.messages = append(s.messages, Message{Severity: Error, Stage: stage, Pos: pos, Text: fmt.Sprintf(format, args...)})
}

// Warning records a warning-severity diagnostic. Never capped.
func (s *Sink) Warning(stage Stage, pos token.Position, format string, args ...any) {
	s.warnCount++
	s.messages = append(s.messages, Message{Severity: Warning, Stage: stage, Pos: pos, Text: fmt.Sprintf(format, args...)})
}

// Note records a note, normally attached context immediately following the
// error/warning it explains. Never capped.
func (s *Sink) Note(stage Stage, pos token.Position, format string, args ...any) {
	s.messages = append(s.messages, Message{Severity: Note, Stage: stage, Pos: pos, Text: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (s *Sink) HasErrors() bool { return s.errorCount > 0 }

// ErrorCount and WarningCount report the counts of buffered errors and
// warnings. Errors dropped beyond the cap are not included in ErrorCount;
// Truncated reports how many were dropped.
func (s *Sink) ErrorCount() int   { return s.errorCount }
func (s *Sink) WarningCount() int { return s.warnCount }
func (s *Sink) Truncated() int    { return s.truncated }

// Messages returns all buffered diagnostics in issue order.
func (s *Sink) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

// PrintAll writes every buffered diagnostic followed by a summary line,
// matching original_source/error.c's "N error(s) generated." wording.
func (s *Sink) PrintAll(w io.Writer) {
	for _, m := range s.messages {
		fmt.Fprintln(w, m.String())
	}
	if s.truncated > 0 {
		fmt.Fprintf(w, "(%d additional error%s suppressed)\n", s.truncated, plural(s.truncated))
	}
	if s.errorCount > 0 || s.warnCount > 0 {
		fmt.Fprintln(w)
	}
	if s.errorCount > 0 {
		fmt.Fprintf(w, "%d error%s generated.\n", s.errorCount, plural(s.errorCount))
	}
	if s.warnCount > 0 {
		fmt.Fprintf(w, "%d warning%s generated.\n", s.warnCount, plural(s.warnCount))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Fatal prints every buffered diagnostic plus the given fatal message, then
// terminates the process. Reserved for parser desynchronization and
// catastrophic internal states (spec.md §4.1, §7) — callers outside the
// parser/driver should prefer Error.
func (s *Sink) Fatal(w io.Writer, stage Stage, pos token.Position, format string, args ...any) {
	s.Error(stage, pos, format, args...)
	s.PrintAll(w)
	fatalExit()
}
