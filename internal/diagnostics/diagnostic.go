// Package diagnostics runs the structural and lint checks over a built
// document.
package diagnostics

import (
	"fmt"
)

// Severity ranks a diagnostic; values match the LSP severities.
type Severity int

const (
	Error Severity = iota + 1
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	}
	return "unknown"
}

// Codes identifying each kind of finding.
const (
	CodeExpectedIndent   = "expected-indent"
	CodeMalformedHeader  = "malformed-header"
	CodeMissingParen     = "missing-paren"
	CodeMissingColon     = "missing-colon"
	CodeOrphanedElif     = "orphaned-elif"
	CodeOrphanedElse     = "orphaned-else"
	CodeUnmatchedParen   = "unmatched-paren"
	CodeUnmatchedBracket = "unmatched-bracket"
	CodeUndefinedFunc    = "undefined-function"
)

var codes = []string{
	CodeExpectedIndent,
	CodeMalformedHeader,
	CodeMissingParen,
	CodeMissingColon,
	CodeOrphanedElif,
	CodeOrphanedElse,
	CodeUnmatchedParen,
	CodeUnmatchedBracket,
	CodeUndefinedFunc,
}

// Codes returns every diagnostic code the engine can emit.
func Codes() []string {
	return append([]string(nil), codes...)
}

// IsCode reports whether code names a known check.
func IsCode(code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// Range is a single-line span in UTF-16 columns, End exclusive.
type Range struct {
	Line  int
	Start int
	End   int
}

// Diagnostic is one finding of a check, located on a single line.
type Diagnostic struct {
	Range    Range
	Severity Severity
	Code     string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s [%s]", d.Range.Line+1, d.Range.Start+1, d.Severity, d.Message, d.Code)
}

// Filter drops diagnostics whose code is listed in disabled.
func Filter(diags []Diagnostic, disabled []string) []Diagnostic {
	if len(disabled) == 0 {
		return diags
	}
	skip := make(map[string]struct{}, len(disabled))
	for _, c := range disabled {
		skip[c] = struct{}{}
	}
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if _, ok := skip[d.Code]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
