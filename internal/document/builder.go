package document

import (
	"strings"

	"sansls/internal/language"
	"sansls/internal/lexer"
)

type builderState int

const (
	stateGlobal builderState = iota
	stateInFunction
)

type builder struct {
	doc *Document

	state  builderState
	fn     *Function
	indent int // header indentation of fn
}

// SplitLines splits text on "\n", trimming one trailing "\r" per line. A
// final line terminator does not produce an extra empty line, and empty
// text yields a single empty line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Build analyzes text from scratch. It never fails: malformed constructs
// are simply not recorded.
func Build(text string) *Document {
	lines := SplitLines(text)

	doc := &Document{
		Lines:     lines,
		Tokens:    make([][]lexer.Token, len(lines)),
		Indents:   make([]int, len(lines)),
		Functions: make(map[string]*Function),
		Variables: make(map[VariableKey]*Variable),
	}
	for i, line := range lines {
		doc.Tokens[i] = lexer.Tokenize(line, i)
		doc.Indents[i] = lexer.MeasureIndent(line)
	}

	b := &builder{doc: doc}
	for i := range lines {
		b.line(i)
	}
	if b.state == stateInFunction {
		b.fn.EndLine = len(lines) - 1
	}
	return doc
}

func (b *builder) line(n int) {
	sig := lexer.Significant(b.doc.Tokens[n])
	if len(sig) == 0 {
		return
	}
	indent := b.doc.Indents[n]

	if b.state == stateInFunction {
		if indent > b.indent {
			b.fn.EndLine = n
		} else {
			b.fn.EndLine = n - 1
			b.leave()
		}
	}

	if sig[0].Kind == lexer.Keyword && sig[0].Text == language.Function {
		if fn, ok := parseHeader(sig, n); ok {
			b.enter(fn, indent)
			return
		}
	}

	b.assignment(sig, n)
}

func (b *builder) enter(fn *Function, indent int) {
	b.doc.Functions[fn.Name] = fn
	b.state = stateInFunction
	b.fn = fn
	b.indent = indent

	scope := Scope{Function: fn.Name}
	for _, p := range fn.Params {
		b.record(&Variable{Name: p.Name, Line: p.Line, Column: p.Column, Scope: scope})
	}
}

func (b *builder) leave() {
	b.state = stateGlobal
	b.fn = nil
	b.indent = 0
}

func (b *builder) scope() Scope {
	if b.state == stateInFunction {
		return Scope{Function: b.fn.Name}
	}
	return Scope{}
}

// record keeps only the first entry per scope and name.
func (b *builder) record(v *Variable) {
	key := VariableKey{Scope: v.Scope, Name: v.Name}
	if _, ok := b.doc.Variables[key]; ok {
		return
	}
	b.doc.Variables[key] = v
}

func (b *builder) assignment(sig []lexer.Token, n int) {
	if len(sig) < 3 {
		return
	}
	if sig[0].Kind != lexer.Identifier || sig[1].Kind != lexer.Operator || sig[1].Text != "=" {
		return
	}
	b.record(&Variable{Name: sig[0].Text, Line: n, Column: sig[0].Start, Scope: b.scope()})
}

// parseHeader reads `कार्यम् name ( params... )` from the significant tokens
// of a line. The closing parenthesis and colon are not required here; the
// diagnostics engine reports them.
func parseHeader(sig []lexer.Token, n int) (*Function, bool) {
	if len(sig) < 4 || sig[1].Kind != lexer.Identifier {
		return nil, false
	}

	open := -1
	for i := 2; i < len(sig); i++ {
		if sig[i].Kind == lexer.ParenOpen {
			open = i
			break
		}
	}
	if open < 0 {
		return nil, false
	}

	fn := &Function{
		Name:    sig[1].Text,
		Line:    n,
		Column:  sig[1].Start,
		EndLine: n,
		Params:  []Parameter{},
	}
	for _, t := range sig[open+1:] {
		if t.Kind == lexer.ParenClose {
			break
		}
		if t.Kind == lexer.Identifier {
			fn.Params = append(fn.Params, Parameter{Name: t.Text, Line: n, Column: t.Start})
		}
	}
	return fn, true
}
