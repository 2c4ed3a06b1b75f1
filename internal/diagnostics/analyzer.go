package diagnostics

import (
	"fmt"

	"sansls/internal/document"
	"sansls/internal/language"
	"sansls/internal/lexer"
)

type check func(doc *document.Document) []Diagnostic

// Checks run in this order and each covers the whole document, so the
// result is grouped by check, then by line.
var checks = []check{
	checkIndentation,
	checkBlockHeaders,
	checkOrphanedBranches,
	checkUnmatchedPairs,
	checkUndefinedCalls,
}

// Analyze runs every check over doc.
func Analyze(doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	for _, c := range checks {
		diags = append(diags, c(doc)...)
	}
	return diags
}

func wholeLine(doc *document.Document, line int) Range {
	return Range{Line: line, Start: 0, End: doc.LineWidth(line)}
}

func startsWithKeyword(sig []lexer.Token, keyword string) bool {
	return len(sig) > 0 && sig[0].Kind == lexer.Keyword && sig[0].Text == keyword
}

func endsWithColon(sig []lexer.Token) bool {
	return len(sig) > 0 && sig[len(sig)-1].Kind == lexer.Colon
}

func opensBlock(sig []lexer.Token) bool {
	return len(sig) > 0 &&
		sig[0].Kind == lexer.Keyword &&
		language.IsBlockOpener(sig[0].Text) &&
		endsWithColon(sig)
}

func checkIndentation(doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	prevIndent, prevOpens := 0, false

	for line := range doc.Lines {
		sig := doc.Significant(line)
		if len(sig) == 0 {
			continue
		}
		indent := doc.Indents[line]
		if prevOpens && indent <= prevIndent {
			diags = append(diags, Diagnostic{
				Range:    wholeLine(doc, line),
				Severity: Warning,
				Code:     CodeExpectedIndent,
				Message:  "Expected indented block after previous statement.",
			})
		}
		prevIndent, prevOpens = indent, opensBlock(sig)
	}
	return diags
}

func hasKind(sig []lexer.Token, kind lexer.Kind) bool {
	for _, t := range sig {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

func checkBlockHeaders(doc *document.Document) []Diagnostic {
	var diags []Diagnostic

	for line := range doc.Lines {
		sig := doc.Significant(line)
		if len(sig) == 0 || sig[0].Kind != lexer.Keyword {
			continue
		}

		switch kw := sig[0].Text; kw {
		case language.Function:
			if !hasKind(sig, lexer.ParenOpen) || !endsWithColon(sig) {
				diags = append(diags, Diagnostic{
					Range:    wholeLine(doc, line),
					Severity: Error,
					Code:     CodeMalformedHeader,
					Message:  fmt.Sprintf("Function definition must be: %s name(params):", language.Function),
				})
			} else if !hasKind(sig, lexer.ParenClose) {
				diags = append(diags, Diagnostic{
					Range:    wholeLine(doc, line),
					Severity: Error,
					Code:     CodeMissingParen,
					Message:  "Missing closing parenthesis in function definition.",
				})
			}

		case language.If, language.Elif, language.While, language.Else:
			if !endsWithColon(sig) {
				diags = append(diags, Diagnostic{
					Range:    wholeLine(doc, line),
					Severity: Error,
					Code:     CodeMissingColon,
					Message:  fmt.Sprintf("'%s' statement must end with ':'", kw),
				})
			}
		}
	}
	return diags
}

// checkOrphanedBranches tracks, per indentation, the line of the last open
// if chain.
func checkOrphanedBranches(doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	open := make(map[int]int)

	for line := range doc.Lines {
		sig := doc.Significant(line)
		if len(sig) == 0 {
			continue
		}
		indent := doc.Indents[line]

		switch {
		case startsWithKeyword(sig, language.If) && endsWithColon(sig):
			open[indent] = line

		case startsWithKeyword(sig, language.Elif):
			if _, ok := open[indent]; !ok {
				diags = append(diags, Diagnostic{
					Range:    wholeLine(doc, line),
					Severity: Error,
					Code:     CodeOrphanedElif,
					Message:  fmt.Sprintf("Orphaned '%s' without a preceding '%s' at the same indentation.", language.Elif, language.If),
				})
			} else {
				open[indent] = line
			}

		case startsWithKeyword(sig, language.Else) && endsWithColon(sig):
			if _, ok := open[indent]; !ok {
				diags = append(diags, Diagnostic{
					Range:    wholeLine(doc, line),
					Severity: Error,
					Code:     CodeOrphanedElse,
					Message:  fmt.Sprintf("Orphaned '%s' without a preceding '%s' at the same indentation.", language.Else, language.If),
				})
			} else {
				delete(open, indent)
			}

		default:
			delete(open, indent)
		}
	}
	return diags
}

func checkUnmatchedPairs(doc *document.Document) []Diagnostic {
	var diags []Diagnostic

	for line, toks := range doc.Tokens {
		parens, brackets := 0, 0
		for _, t := range toks {
			switch t.Kind {
			case lexer.ParenOpen:
				parens++
			case lexer.ParenClose:
				parens--
			case lexer.BracketOpen:
				brackets++
			case lexer.BracketClose:
				brackets--
			}
		}
		if parens != 0 {
			diags = append(diags, Diagnostic{
				Range:    wholeLine(doc, line),
				Severity: Error,
				Code:     CodeUnmatchedParen,
				Message:  "Unmatched parentheses on this line.",
			})
		}
		if brackets != 0 {
			diags = append(diags, Diagnostic{
				Range:    wholeLine(doc, line),
				Severity: Error,
				Code:     CodeUnmatchedBracket,
				Message:  "Unmatched brackets on this line.",
			})
		}
	}
	return diags
}

// nextNonSpace returns the first token after i that is not whitespace.
func nextNonSpace(toks []lexer.Token, i int) (lexer.Token, bool) {
	for _, t := range toks[i+1:] {
		if t.Kind != lexer.Whitespace {
			return t, true
		}
	}
	return lexer.Token{}, false
}

func checkUndefinedCalls(doc *document.Document) []Diagnostic {
	var diags []Diagnostic

	for line, toks := range doc.Tokens {
		for i, t := range toks {
			if t.Kind != lexer.Identifier {
				continue
			}
			next, ok := nextNonSpace(toks, i)
			if !ok || next.Kind != lexer.ParenOpen {
				continue
			}
			if _, ok := doc.Function(t.Text); ok {
				continue
			}
			if language.IsBuiltin(t.Text) || language.IsKeyword(t.Text) {
				continue
			}
			diags = append(diags, Diagnostic{
				Range:    Range{Line: line, Start: t.Start, End: t.End},
				Severity: Warning,
				Code:     CodeUndefinedFunc,
				Message:  fmt.Sprintf("Undefined function '%s'.", t.Text),
			})
		}
	}
	return diags
}
