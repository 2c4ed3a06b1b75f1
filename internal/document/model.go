// Package document builds the per-document model the language features read:
// tokens per line, indentation, and the function and variable tables.
package document

import (
	"sansls/internal/lexer"
)

// Parameter is one formal parameter of a function header.
type Parameter struct {
	Name   string
	Line   int
	Column int
}

// Function is a recognized `कार्यम् name(params):` definition. EndLine is
// the last line of its body.
type Function struct {
	Name    string
	Line    int
	Column  int
	EndLine int
	Params  []Parameter
}

// Scope names the function owning a variable. The zero value is the global
// scope.
type Scope struct {
	Function string
}

// IsGlobal reports whether s is the global scope.
func (s Scope) IsGlobal() bool {
	return s.Function == ""
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return s.Function
}

// Variable is the first assignment of a name within a scope, or a function
// parameter.
type Variable struct {
	Name   string
	Line   int
	Column int
	Scope  Scope
}

// VariableKey identifies a variable entry.
type VariableKey struct {
	Scope Scope
	Name  string
}

// Document is the immutable analysis result for one text. Every slice is
// indexed by line number.
type Document struct {
	Lines     []string
	Tokens    [][]lexer.Token
	Indents   []int
	Functions map[string]*Function
	Variables map[VariableKey]*Variable
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Significant returns the significant tokens of line, or nil when the line
// is out of range.
func (d *Document) Significant(line int) []lexer.Token {
	if line < 0 || line >= len(d.Tokens) {
		return nil
	}
	return lexer.Significant(d.Tokens[line])
}
