// Package features answers editor requests from a built document. Nothing
// here mutates the document.
package features

import (
	"fmt"
	"strings"

	"sansls/internal/document"
	"sansls/internal/language"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/text/unicode/norm"
)

// matchesPrefix compares in NFC so that precomposed and decomposed input
// select the same Devanagari names.
func matchesPrefix(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(norm.NFC.String(name), norm.NFC.String(prefix))
}

func snippetCall(name string, params []string) string {
	placeholders := make([]string, len(params))
	for i, p := range params {
		placeholders[i] = fmt.Sprintf("${%d:%s}", i+1, p)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(placeholders, ", "))
}

func signature(name string, params []string) string {
	return fmt.Sprintf("%s(%s)", name, strings.Join(params, ", "))
}

func paramNames(fn *document.Function) []string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	return names
}

// Complete lists the candidates for the identifier being typed at line/col:
// keywords, builtins, constants, logical operators, document functions and
// the variables visible from the cursor's scope.
func Complete(doc *document.Document, line, col int) []protocol.CompletionItem {
	prefix := doc.WordBefore(line, col)
	scope := doc.ScopeAt(line)
	snippet := protocol.InsertTextFormatSnippet

	var items []protocol.CompletionItem
	add := func(item protocol.CompletionItem) {
		if matchesPrefix(item.Label, prefix) {
			items = append(items, item)
		}
	}

	for _, kw := range language.Keywords() {
		item := protocol.CompletionItem{
			Label:         kw.Name,
			Kind:          kindPtr(protocol.CompletionItemKindKeyword),
			Detail:        strPtr(fmt.Sprintf("(%s)", kw.English)),
			Documentation: kw.Doc,
		}
		if kw.Snippet != "" {
			item.InsertText = strPtr(kw.Snippet)
			item.InsertTextFormat = &snippet
		}
		add(item)
	}

	for _, b := range language.Builtins() {
		add(protocol.CompletionItem{
			Label:            b.Name,
			Kind:             kindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr(fmt.Sprintf("%s: %s", b.English, signature(b.Name, b.Params))),
			Documentation:    b.Doc,
			InsertText:       strPtr(snippetCall(b.Name, b.Params)),
			InsertTextFormat: &snippet,
		})
	}

	for _, c := range language.Constants() {
		add(protocol.CompletionItem{
			Label:  c.Name,
			Kind:   kindPtr(protocol.CompletionItemKindConstant),
			Detail: strPtr(c.Doc),
		})
	}

	for _, op := range language.LogicalOps() {
		add(protocol.CompletionItem{
			Label:  op.Name,
			Kind:   kindPtr(protocol.CompletionItemKindOperator),
			Detail: strPtr(op.Doc),
		})
	}

	for _, fn := range doc.SortedFunctions() {
		params := paramNames(fn)
		add(protocol.CompletionItem{
			Label:            fn.Name,
			Kind:             kindPtr(protocol.CompletionItemKindFunction),
			Detail:           strPtr("function " + signature(fn.Name, params)),
			InsertText:       strPtr(snippetCall(fn.Name, params)),
			InsertTextFormat: &snippet,
		})
	}

	seen := make(map[string]struct{})
	for _, v := range doc.SortedVariables() {
		if !v.Scope.IsGlobal() && v.Scope != scope {
			continue
		}
		if _, ok := seen[v.Name]; ok {
			continue
		}
		seen[v.Name] = struct{}{}
		add(protocol.CompletionItem{
			Label:  v.Name,
			Kind:   kindPtr(protocol.CompletionItemKindVariable),
			Detail: strPtr(fmt.Sprintf("variable (%s)", v.Scope)),
		})
	}

	return items
}

func strPtr(s string) *string {
	return &s
}

func kindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}
