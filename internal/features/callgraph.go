package features

import (
	"sort"

	"sansls/internal/document"
	"sansls/internal/language"
	"sansls/internal/lexer"
)

// Call is one caller to callee edge between document functions.
type Call struct {
	Caller string
	Callee string
}

// CallGraph returns the document's functions in source order and the
// distinct calls made from inside their bodies. Only callees defined in
// the same document are linked.
func CallGraph(doc *document.Document) ([]string, []Call) {
	fns := doc.SortedFunctions()
	names := make([]string, len(fns))
	for i, fn := range fns {
		names[i] = fn.Name
	}

	seen := make(map[Call]struct{})
	for line, toks := range doc.Tokens {
		caller, ok := doc.EnclosingFunction(line)
		if !ok {
			continue
		}
		sig := lexer.Significant(toks)
		if len(sig) > 0 && sig[0].Kind == lexer.Keyword && sig[0].Text == language.Function {
			continue
		}
		for i := 0; i+1 < len(sig); i++ {
			if sig[i].Kind != lexer.Identifier || sig[i+1].Kind != lexer.ParenOpen {
				continue
			}
			if _, ok := doc.Function(sig[i].Text); !ok {
				continue
			}
			seen[Call{Caller: caller.Name, Callee: sig[i].Text}] = struct{}{}
		}
	}

	calls := make([]Call, 0, len(seen))
	for c := range seen {
		calls = append(calls, c)
	}
	sort.Slice(calls, func(i, j int) bool {
		if calls[i].Caller != calls[j].Caller {
			return calls[i].Caller < calls[j].Caller
		}
		return calls[i].Callee < calls[j].Callee
	})
	return names, calls
}
