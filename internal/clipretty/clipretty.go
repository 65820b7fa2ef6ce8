// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package clipretty renders diag.Message slices for the CLI, coloring
// severities when the destination is a terminal (spec.md §4.1: "Color
// output is enabled only when the destination is a terminal").
package clipretty

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/mdhender/lync/internal/diag"
)

// Printer renders diagnostics to an io.Writer, optionally in color.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter builds a Printer. forceNoColor mirrors the -no-color/--no-color
// CLI flag; when false, color is auto-detected via whether w is a terminal.
func NewPrinter(w io.Writer, forceNoColor bool) *Printer {
	useColor := !forceNoColor && isTerminal(w)
	return &Printer{w: w, color: useColor}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (p *Printer) paint(sev diag.Severity, text string) string {
	if !p.color {
		return text
	}
	switch sev {
	case diag.Error:
		return color.New(color.FgRed, color.Bold).Sprint(text)
	case diag.Warning:
		return color.New(color.FgYellow, color.Bold).Sprint(text)
	default:
		return color.New(color.FgCyan).Sprint(text)
	}
}

// Print renders one diagnostic message.
func (p *Printer) Print(m diag.Message) {
	sev := p.paint(m.Severity, m.Severity.String())
	if m.Pos.IsZero() {
		fmt.Fprintf(p.w, "%s: %s: %s\n", m.Stage, sev, m.Text)
		return
	}
	fmt.Fprintf(p.w, "%s: %s: %s: %s\n", m.Pos, m.Stage, sev, m.Text)
}

// PrintAll renders every message in s, followed by the sink's own summary
// lines (colored red/yellow when color is enabled).
func (p *Printer) PrintAll(s *diag.Sink) {
	for _, m := range s.Messages() {
		p.Print(m)
	}
	p.printSummary(s)
}

func (p *Printer) printSummary(s *diag.Sink) {
	if s.Truncated() > 0 {
		fmt.Fprintf(p.w, "(%d additional error%s suppressed)\n", s.Truncated(), pluralSuffix(s.Truncated()))
	}
	if s.ErrorCount() > 0 || s.WarningCount() > 0 {
		fmt.Fprintln(p.w)
	}
	if s.ErrorCount() > 0 {
		line := fmt.Sprintf("%d error%s generated.", s.ErrorCount(), pluralSuffix(s.ErrorCount()))
		if p.color {
			line = color.New(color.FgRed, color.Bold).Sprint(line)
		}
		fmt.Fprintln(p.w, line)
	}
	if s.WarningCount() > 0 {
		line := fmt.Sprintf("%d warning%s generated.", s.WarningCount(), pluralSuffix(s.WarningCount()))
		if p.color {
			line = color.New(color.FgYellow, color.Bold).Sprint(line)
		}
		fmt.Fprintln(p.w, line)
	}
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
