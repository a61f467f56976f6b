// Package diagnostics formats and emits the compiler's user-facing messages.
//
// DESIGN PHILOSOPHY:
// The analyzer collects errors and warnings as it walks the tree; it never
// prints directly. A Sink is the single place that turns a position and a
// message into the stable "error(line:col): message" text the rest of the
// toolchain (and any scripts wrapping it) can depend on. Color is purely
// cosmetic and only touches what gets written to an io.Writer - the
// underlying text recorded in Errors/Warnings is always plain.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hassandahiru/compiler/internal/lexer"
	"github.com/hassandahiru/compiler/internal/semantic/types"
)

// Sink accumulates diagnostics produced during analysis and optionally
// streams them to a writer (stdout, a file, a test buffer, ...).
type Sink struct {
	Writer io.Writer

	// Errors and Warnings hold the plain, color-free message text, in the
	// order they were reported. Errors()/Warnings() on the analyzer expose
	// these as the stable public result of a run.
	Errors   []string
	Warnings []string

	// color enables ANSI coloring of what's written to Writer. Forced off
	// when Writer isn't a terminal, so redirected output stays plain text.
	color bool
}

// NewSink creates a Sink that writes to w, colorizing output only when w is
// an *os.File attached to a terminal.
func NewSink(w io.Writer) *Sink {
	s := &Sink{Writer: w}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		s.color = term.IsTerminal(int(f.Fd()))
	}
	return s
}

func (s *Sink) report(bucket *[]string, prefix string, colorize func(string) string, pos lexer.Position, message string) {
	text := fmt.Sprintf("%s: %s", prefix, message)
	if pos.IsValid() {
		text = fmt.Sprintf("%s(%d:%d): %s", prefix, pos.Line, pos.Column, message)
	}
	*bucket = append(*bucket, text)

	if s.Writer == nil {
		return
	}
	out := text
	if s.color {
		out = colorize(text)
	}
	fmt.Fprintln(s.Writer, out)
}

func colorizeRed(text string) string    { return color.RedString("%s", text) }
func colorizeYellow(text string) string { return color.YellowString("%s", text) }

// Errorf records a free-form error at pos.
func (s *Sink) Errorf(pos lexer.Position, format string, args ...interface{}) {
	s.report(&s.Errors, "error", colorizeRed, pos, fmt.Sprintf(format, args...))
}

// Warnf records a free-form warning at pos.
func (s *Sink) Warnf(pos lexer.Position, format string, args ...interface{}) {
	s.report(&s.Warnings, "warning", colorizeYellow, pos, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any error has been recorded.
func (s *Sink) HasErrors() bool {
	return len(s.Errors) > 0
}

// The helpers below mirror the original analyzer's error-formatting helpers
// one for one, so the produced text matches word for word.

// Expected reports "<where> expected <expected>, found <found>".
func (s *Sink) Expected(pos lexer.Position, where, expected string, found types.Type) {
	s.Errorf(pos, "%s expected %s, found %s", where, expected, found.String())
}

// ExpectedType reports "<where> expected <expected>, found <found>" using a
// type, rather than a free-form description, as what was expected.
func (s *Sink) ExpectedType(pos lexer.Position, where string, expected, found types.Type) {
	s.Expected(pos, where, expected.String(), found)
}

// Op reports "<operator> requires <desc>, found <found>".
func (s *Sink) Op(pos lexer.Position, operator, desc string, found types.Type) {
	s.Errorf(pos, "%s requires %s, found %s", operator, desc, found.String())
}

// Mismatch reports "type mismatch between <l> and <r> for <operator>".
func (s *Sink) Mismatch(pos lexer.Position, operator string, l, r types.Type) {
	s.Errorf(pos, "type mismatch between %s and %s for %s", l.String(), r.String(), operator)
}

// Degree reports "<expected> <thing> expected, <found> given to <where>".
func (s *Sink) Degree(pos lexer.Position, thing string, expected, found int, where string) {
	s.Errorf(pos, "%d %s expected, %d given to %s", expected, thing, found, where)
}

// ParamMismatch reports "type mismatch at parameter <n> of <fn>: expected <expected>, found <found>".
func (s *Sink) ParamMismatch(pos lexer.Position, n int, fn string, expected, found types.Type) {
	s.Errorf(pos, "type mismatch at parameter %d of %s: expected %s, found %s",
		n, fn, expected.String(), found.String())
}

// Member reports "<operator> expected field of <record>, found <name>".
func (s *Sink) Member(pos lexer.Position, operator string, record types.Type, name string) {
	s.Errorf(pos, "%s expected field of %s, found %s", operator, record.String(), name)
}
