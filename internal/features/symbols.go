package features

import (
	"fmt"
	"strings"

	"sansls/internal/document"
	"sansls/internal/lexer"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func span(line, start int, name string) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start + lexer.Width(name))},
	}
}

// Definition locates the function or variable named by the identifier at
// line/col. Builtins have no location in the document.
func Definition(doc *document.Document, uri protocol.DocumentUri, line, col int) (*protocol.Location, bool) {
	tok, ok := doc.TokenAt(line, col)
	if !ok || (tok.Kind != lexer.Identifier && tok.Kind != lexer.Builtin) {
		return nil, false
	}

	if fn, ok := doc.Function(tok.Text); ok {
		return &protocol.Location{URI: uri, Range: span(fn.Line, fn.Column, fn.Name)}, true
	}
	if v, ok := doc.ResolveVariable(tok.Text, line); ok {
		return &protocol.Location{URI: uri, Range: span(v.Line, v.Column, v.Name)}, true
	}
	return nil, false
}

// FunctionDetail renders the parameter list shown next to a function.
func FunctionDetail(fn *document.Function) string {
	return fmt.Sprintf("(%s)", strings.Join(paramNames(fn), ", "))
}

// DocumentSymbols outlines the functions, then the global variables, each
// group in source order.
func DocumentSymbols(doc *document.Document) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	for _, fn := range doc.SortedFunctions() {
		detail := FunctionDetail(fn)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:   fn.Name,
			Detail: &detail,
			Kind:   protocol.SymbolKindFunction,
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(fn.Line)},
				End:   protocol.Position{Line: protocol.UInteger(fn.EndLine), Character: protocol.UInteger(doc.LineWidth(fn.EndLine))},
			},
			SelectionRange: span(fn.Line, fn.Column, fn.Name),
		})
	}

	for _, v := range doc.SortedVariables() {
		if !v.Scope.IsGlobal() {
			continue
		}
		r := span(v.Line, v.Column, v.Name)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           v.Name,
			Kind:           protocol.SymbolKindVariable,
			Range:          r,
			SelectionRange: r,
		})
	}
	return symbols
}
