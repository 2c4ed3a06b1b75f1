package features

import (
	"fmt"
	"strings"

	"sansls/internal/document"
	"sansls/internal/language"
	"sansls/internal/lexer"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func tokenRange(t lexer.Token) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(t.Line), Character: protocol.UInteger(t.Start)},
		End:   protocol.Position{Line: protocol.UInteger(t.Line), Character: protocol.UInteger(t.End)},
	}
}

// HoverText returns the markdown describing the token at line/col, or
// false when nothing is known about it.
func HoverText(doc *document.Document, line, col int) (string, lexer.Token, bool) {
	tok, ok := doc.TokenAt(line, col)
	if !ok {
		return "", tok, false
	}

	var b strings.Builder
	switch tok.Kind {
	case lexer.Keyword:
		kw, ok := language.LookupKeyword(tok.Text)
		if !ok {
			return "", tok, false
		}
		fmt.Fprintf(&b, "**%s** (`%s`)\n\n%s", kw.Name, kw.English, kw.Doc)

	case lexer.Builtin:
		bi, ok := language.LookupBuiltin(tok.Text)
		if !ok {
			return "", tok, false
		}
		fmt.Fprintf(&b, "**%s** (`%s`)\n\n```\n%s\n```\n\n%s\n\nReturns: `%s`",
			bi.Name, bi.English, signature(bi.Name, bi.Params), bi.Doc, bi.ReturnType)

	case lexer.Constant:
		c, ok := language.LookupConstant(tok.Text)
		if !ok {
			return "", tok, false
		}
		fmt.Fprintf(&b, "**%s**: %s", c.Name, c.Doc)

	case lexer.LogicalOp:
		op, ok := language.LookupLogicalOp(tok.Text)
		if !ok {
			return "", tok, false
		}
		fmt.Fprintf(&b, "**%s**: %s", op.Name, op.Doc)

	case lexer.Identifier:
		if fn, ok := doc.Function(tok.Text); ok {
			fmt.Fprintf(&b, "**function** `%s`\n\nDefined at line %d", signature(fn.Name, paramNames(fn)), fn.Line+1)
			break
		}
		v, ok := doc.ResolveVariable(tok.Text, line)
		if !ok {
			return "", tok, false
		}
		fmt.Fprintf(&b, "**variable** `%s`\n\nScope: %s  \nFirst assigned: line %d", v.Name, v.Scope, v.Line+1)

	case lexer.String:
		fmt.Fprintf(&b, "String literal: `%s`", tok.Text)

	case lexer.Number:
		fmt.Fprintf(&b, "Number: `%s`", tok.Text)

	default:
		return "", tok, false
	}
	return b.String(), tok, true
}

// Hover wraps HoverText for the protocol.
func Hover(doc *document.Document, line, col int) *protocol.Hover {
	text, tok, ok := HoverText(doc, line, col)
	if !ok {
		return nil
	}
	r := tokenRange(tok)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &r,
	}
}
