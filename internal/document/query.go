package document

import (
	"sort"
	"unicode/utf16"

	"sansls/internal/lexer"
)

// TokenAt returns the first non-whitespace token on line whose span
// contains col.
func (d *Document) TokenAt(line, col int) (lexer.Token, bool) {
	if line < 0 || line >= len(d.Tokens) {
		return lexer.Token{}, false
	}
	for _, t := range d.Tokens[line] {
		if t.Kind != lexer.Whitespace && t.Contains(col) {
			return t, true
		}
	}
	return lexer.Token{}, false
}

// Function looks up a function by name.
func (d *Document) Function(name string) (*Function, bool) {
	fn, ok := d.Functions[name]
	return fn, ok
}

// EnclosingFunction returns the function whose body contains line. When
// several bodies overlap the latest header wins.
func (d *Document) EnclosingFunction(line int) (*Function, bool) {
	var best *Function
	for _, fn := range d.Functions {
		if fn.Line < line && line <= fn.EndLine {
			if best == nil || fn.Line > best.Line {
				best = fn
			}
		}
	}
	return best, best != nil
}

// ScopeAt returns the scope in effect on line.
func (d *Document) ScopeAt(line int) Scope {
	if fn, ok := d.EnclosingFunction(line); ok {
		return Scope{Function: fn.Name}
	}
	return Scope{}
}

// ResolveVariable finds the definition of name as seen from line: the
// enclosing function's entry first, then the global one.
func (d *Document) ResolveVariable(name string, line int) (*Variable, bool) {
	if scope := d.ScopeAt(line); !scope.IsGlobal() {
		if v, ok := d.Variables[VariableKey{Scope: scope, Name: name}]; ok {
			return v, true
		}
	}
	v, ok := d.Variables[VariableKey{Name: name}]
	return v, ok
}

// SortedFunctions returns the functions in source order.
func (d *Document) SortedFunctions() []*Function {
	fns := make([]*Function, 0, len(d.Functions))
	for _, fn := range d.Functions {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool {
		if fns[i].Line != fns[j].Line {
			return fns[i].Line < fns[j].Line
		}
		return fns[i].Name < fns[j].Name
	})
	return fns
}

// SortedVariables returns the variables in source order.
func (d *Document) SortedVariables() []*Variable {
	vars := make([]*Variable, 0, len(d.Variables))
	for _, v := range d.Variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool {
		a, b := vars[i], vars[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Scope.Function < b.Scope.Function
	})
	return vars
}

// ParameterNames returns the set of parameter names across all functions.
func (d *Document) ParameterNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, fn := range d.Functions {
		for _, p := range fn.Params {
			names[p.Name] = struct{}{}
		}
	}
	return names
}

// WordBefore returns the identifier characters immediately left of col on
// line, the partial word being typed at a cursor.
func (d *Document) WordBefore(line, col int) string {
	if line < 0 || line >= len(d.Lines) {
		return ""
	}
	runes := []rune(d.Lines[line])

	// Convert the UTF-16 column into a rune index, clamped to the line.
	end, w := 0, 0
	for end < len(runes) {
		n := utf16.RuneLen(runes[end])
		if n < 0 {
			n = 1
		}
		if w+n > col {
			break
		}
		w += n
		end++
	}

	start := end
	for start > 0 && lexer.IsIdentChar(runes[start-1]) {
		start--
	}
	return string(runes[start:end])
}

// LineWidth returns the width of line in UTF-16 columns.
func (d *Document) LineWidth(line int) int {
	if line < 0 || line >= len(d.Lines) {
		return 0
	}
	return lexer.Width(d.Lines[line])
}
