package diagnostics_test

import (
	"testing"

	"sansls/internal/diagnostics"
	"sansls/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(text string) []diagnostics.Diagnostic {
	return diagnostics.Analyze(document.Build(text))
}

func withCode(diags []diagnostics.Diagnostic, code string) []diagnostics.Diagnostic {
	var out []diagnostics.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestCleanDocument(t *testing.T) {
	text := `कार्यम् योग(a, b):
    यदि a > b:
        प्रतिददाति a
    अथवा_यदि a == b:
        प्रतिददाति 0
    अन्यथा:
        प्रतिददाति b
x = [1, 2]
मुद्रय(योग(x, 3))
`
	assert.Empty(t, analyze(text))
}

func TestExpectedIndent(t *testing.T) {
	t.Run("block opener followed by unindented line", func(t *testing.T) {
		diags := analyze("यदि x:\nमुद्रय(x)")
		require.Len(t, diags, 1)
		d := diags[0]
		assert.Equal(t, diagnostics.CodeExpectedIndent, d.Code)
		assert.Equal(t, diagnostics.Warning, d.Severity)
		assert.Contains(t, d.Message, "Expected indented block")
		assert.Equal(t, diagnostics.Range{Line: 1, Start: 0, End: len([]rune("मुद्रय(x)"))}, d.Range)
	})

	t.Run("blank and comment lines are skipped", func(t *testing.T) {
		diags := analyze("यावत् x:\n\n    # body\n    x = x - 1")
		assert.Empty(t, withCode(diags, diagnostics.CodeExpectedIndent))
	})

	t.Run("trailing comment after colon still opens a block", func(t *testing.T) {
		diags := analyze("यदि x:  # test\nx = 1")
		assert.Len(t, withCode(diags, diagnostics.CodeExpectedIndent), 1)
	})

	t.Run("identifier prefixed by keyword is not an opener", func(t *testing.T) {
		diags := analyze("यदिx = 1\ny = 2")
		assert.Empty(t, diags)
	})
}

func TestBlockHeaders(t *testing.T) {
	tests := []struct {
		name string
		text string
		code string
	}{
		{"function without parens", "कार्यम् f:\n    x = 1", diagnostics.CodeMalformedHeader},
		{"function without colon", "कार्यम् f()\n    x = 1", diagnostics.CodeMalformedHeader},
		{"function without close paren", "कार्यम् f(a:\n    x = 1", diagnostics.CodeMissingParen},
		{"if without colon", "यदि x\n    x = 1", diagnostics.CodeMissingColon},
		{"while without colon", "यावत् x\n    x = 1", diagnostics.CodeMissingColon},
		{"else without colon", "यदि x:\n    x = 1\nअन्यथा\n    x = 2", diagnostics.CodeMissingColon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := withCode(analyze(tt.text), tt.code)
			require.Len(t, found, 1)
			assert.Equal(t, diagnostics.Error, found[0].Severity)
		})
	}

	t.Run("missing colon names the keyword", func(t *testing.T) {
		found := withCode(analyze("यावत् x\n    x = 1"), diagnostics.CodeMissingColon)
		require.Len(t, found, 1)
		assert.Contains(t, found[0].Message, "यावत्")
	})
}

func TestOrphanedBranches(t *testing.T) {
	t.Run("elif without if", func(t *testing.T) {
		diags := analyze("x = 1\nअथवा_यदि x:\n    x = 2")
		found := withCode(diags, diagnostics.CodeOrphanedElif)
		require.Len(t, found, 1)
		assert.Equal(t, 1, found[0].Range.Line)
		assert.Contains(t, found[0].Message, "Orphaned")
	})

	t.Run("else after an intervening statement", func(t *testing.T) {
		diags := analyze("यदि x:\n    x = 1\ny = 2\nअन्यथा:\n    x = 2")
		assert.Len(t, withCode(diags, diagnostics.CodeOrphanedElse), 1)
	})

	t.Run("second else is orphaned", func(t *testing.T) {
		diags := analyze("यदि x:\n    x = 1\nअन्यथा:\n    x = 2\nअन्यथा:\n    x = 3")
		found := withCode(diags, diagnostics.CodeOrphanedElse)
		require.Len(t, found, 1)
		assert.Equal(t, 4, found[0].Range.Line)
	})

	t.Run("nested chains are tracked per indentation", func(t *testing.T) {
		text := "यदि a:\n    यदि b:\n        x = 1\n    अन्यथा:\n        x = 2\nअथवा_यदि c:\n    x = 3\nअन्यथा:\n    x = 4"
		diags := analyze(text)
		assert.Empty(t, withCode(diags, diagnostics.CodeOrphanedElif))
		assert.Empty(t, withCode(diags, diagnostics.CodeOrphanedElse))
	})

	t.Run("if at another indentation does not count", func(t *testing.T) {
		diags := analyze("कार्यम् f():\n    यदि a:\n        x = 1\nअन्यथा:\n    x = 2")
		assert.Len(t, withCode(diags, diagnostics.CodeOrphanedElse), 1)
	})
}

func TestUnmatchedPairs(t *testing.T) {
	t.Run("open paren", func(t *testing.T) {
		diags := analyze("कार्यम् f(a, b):\n    प्रतिददाति a\nx = f(1, 2")
		assert.Len(t, withCode(diags, diagnostics.CodeUnmatchedParen), 1)
		assert.Empty(t, withCode(diags, diagnostics.CodeUnmatchedBracket))
		assert.Contains(t, withCode(diags, diagnostics.CodeUnmatchedParen)[0].Message, "Unmatched parentheses")
	})

	t.Run("brackets are independent", func(t *testing.T) {
		diags := analyze("x = [1, (2]")
		assert.Len(t, withCode(diags, diagnostics.CodeUnmatchedParen), 1)
		assert.Len(t, withCode(diags, diagnostics.CodeUnmatchedBracket), 0)
	})

	t.Run("extra close bracket", func(t *testing.T) {
		diags := analyze("x = 1]")
		found := withCode(diags, diagnostics.CodeUnmatchedBracket)
		require.Len(t, found, 1)
		assert.Contains(t, found[0].Message, "Unmatched brackets")
	})

	t.Run("parens inside strings and comments are ignored", func(t *testing.T) {
		assert.Empty(t, analyze(`x = "(" # )`))
	})
}

func TestUndefinedCalls(t *testing.T) {
	t.Run("span covers the identifier", func(t *testing.T) {
		diags := analyze("x = गणय (1)")
		require.Len(t, diags, 1)
		d := diags[0]
		assert.Equal(t, diagnostics.CodeUndefinedFunc, d.Code)
		assert.Equal(t, diagnostics.Warning, d.Severity)
		assert.Equal(t, diagnostics.Range{Line: 0, Start: 4, End: 4 + len([]rune("गणय"))}, d.Range)
		assert.Contains(t, d.Message, "Undefined function")
	})

	t.Run("defined builtin and keyword calls pass", func(t *testing.T) {
		diags := analyze("कार्यम् f(a):\n    प्रतिददाति(a)\nमुद्रय(f(1))")
		assert.Empty(t, withCode(diags, diagnostics.CodeUndefinedFunc))
	})

	t.Run("function defined later still counts", func(t *testing.T) {
		diags := analyze("x = g(1)\nकार्यम् g(a):\n    प्रतिददाति a")
		assert.Empty(t, withCode(diags, diagnostics.CodeUndefinedFunc))
	})
}

func TestAnalyzeOrderAndIdempotence(t *testing.T) {
	text := "x = h(1\nअन्यथा:\nयदि y:\nz = 1"
	first := analyze(text)
	second := analyze(text)
	assert.Equal(t, first, second)

	var order []string
	for _, d := range first {
		order = append(order, d.Code)
	}
	assert.Equal(t, []string{
		diagnostics.CodeExpectedIndent, // line 3
		diagnostics.CodeExpectedIndent, // line 4
		diagnostics.CodeOrphanedElse,
		diagnostics.CodeUnmatchedParen,
		diagnostics.CodeUndefinedFunc,
	}, order)
}

func TestFilter(t *testing.T) {
	diags := analyze("x = h(1")
	require.Len(t, diags, 2)

	assert.Equal(t, diags, diagnostics.Filter(diags, nil))

	kept := diagnostics.Filter(diags, []string{diagnostics.CodeUndefinedFunc})
	require.Len(t, kept, 1)
	assert.Equal(t, diagnostics.CodeUnmatchedParen, kept[0].Code)
	assert.True(t, diagnostics.HasErrors(kept))
	assert.False(t, diagnostics.HasErrors(diagnostics.Filter(diags, []string{diagnostics.CodeUnmatchedParen})))
}

func TestCodes(t *testing.T) {
	assert.True(t, diagnostics.IsCode(diagnostics.CodeOrphanedElse))
	assert.False(t, diagnostics.IsCode("nope"))
	assert.Len(t, diagnostics.Codes(), 9)
}

func TestDiagnosticFormatting(t *testing.T) {
	assert.Equal(t, 1, int(diagnostics.Error))
	assert.Equal(t, 2, int(diagnostics.Warning))
	assert.Equal(t, "error", diagnostics.Error.String())
	assert.Equal(t, "warning", diagnostics.Warning.String())
	assert.Equal(t, "unknown", diagnostics.Severity(9).String())

	d := diagnostics.Diagnostic{
		Range:    diagnostics.Range{Line: 2, Start: 4, End: 7},
		Severity: diagnostics.Warning,
		Code:     diagnostics.CodeUndefinedFunc,
		Message:  "Undefined function 'f'.",
	}
	assert.Equal(t, "3:5: warning: Undefined function 'f'. [undefined-function]", d.String())
}
