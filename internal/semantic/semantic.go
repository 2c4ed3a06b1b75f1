// Package semantic encodes a document's tokens into the relative
// quintuple array used by semantic highlighting.
package semantic

import (
	"sansls/internal/document"
	"sansls/internal/lexer"
)

// Indexes into TokenTypes.
const (
	TypeKeyword uint32 = iota
	TypeFunction
	TypeVariable
	TypeNumber
	TypeString
	TypeComment
	TypeOperator
	TypeParameter
	TypeEnumMember
)

// TokenTypes is the legend of token types, in index order.
var TokenTypes = []string{
	"keyword",
	"function",
	"variable",
	"number",
	"string",
	"comment",
	"operator",
	"parameter",
	"enumMember",
}

// TokenModifiers is advertised but no modifier is ever set.
var TokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
}

var typeOf = map[lexer.Kind]uint32{
	lexer.Keyword:    TypeKeyword,
	lexer.Builtin:    TypeFunction,
	lexer.Identifier: TypeVariable,
	lexer.Number:     TypeNumber,
	lexer.String:     TypeString,
	lexer.Comment:    TypeComment,
	lexer.Operator:   TypeOperator,
	lexer.LogicalOp:  TypeOperator,
	lexer.Constant:   TypeEnumMember,
}

// Encode walks doc's tokens line by line and emits one (Δline, Δcol,
// length, type, modifiers) group per highlighted token. Δcol is relative
// to the previous token's start on the same line and absolute after a line
// change.
func Encode(doc *document.Document) []uint32 {
	params := doc.ParameterNames()
	data := make([]uint32, 0, 5*len(doc.Tokens))

	prevLine, prevCol := 0, 0
	for line, toks := range doc.Tokens {
		for _, t := range toks {
			typ, ok := typeOf[t.Kind]
			if !ok {
				continue
			}
			if t.Kind == lexer.Identifier {
				if _, isFn := doc.Function(t.Text); isFn {
					typ = TypeFunction
				} else if _, isParam := params[t.Text]; isParam {
					typ = TypeParameter
				}
			}

			deltaLine := line - prevLine
			deltaCol := t.Start
			if deltaLine == 0 {
				deltaCol = t.Start - prevCol
			}
			data = append(data, uint32(deltaLine), uint32(deltaCol), uint32(t.Len()), typ, 0)
			prevLine, prevCol = line, t.Start
		}
	}
	return data
}
