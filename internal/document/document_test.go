package document_test

import (
	"testing"

	"sansls/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# योग
कार्यम् योग(a, b):
    फल = a + b
    प्रतिददाति फल

x = योग(1, 2)
x = 5
कार्यम् शून्य():
    प्रतिददाति 0
y = शून्य()
`

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{""}},
		{"single", "a", []string{"a"}},
		{"trailing newline", "a\n", []string{"a"}},
		{"blank final line kept once", "a\n\n", []string{"a", ""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, document.SplitLines(tt.text))
		})
	}
}

func TestBuild(t *testing.T) {
	doc := document.Build(sample)

	t.Run("per-line arrays", func(t *testing.T) {
		assert.Equal(t, 10, doc.LineCount())
		assert.Len(t, doc.Tokens, doc.LineCount())
		assert.Len(t, doc.Indents, doc.LineCount())
		assert.Equal(t, 4, doc.Indents[2])
	})

	t.Run("function header", func(t *testing.T) {
		fn, ok := doc.Function("योग")
		require.True(t, ok)
		assert.Equal(t, 1, fn.Line)
		assert.Equal(t, len([]rune("कार्यम् ")), fn.Column)
		assert.Equal(t, []string{"a", "b"}, paramNames(fn))
		// The blank line before the dedent still belongs to the body.
		assert.Equal(t, 4, fn.EndLine)
	})

	t.Run("function without params", func(t *testing.T) {
		fn, ok := doc.Function("शून्य")
		require.True(t, ok)
		assert.Empty(t, fn.Params)
		assert.Equal(t, 8, fn.EndLine)
	})

	t.Run("parameters are function scoped variables", func(t *testing.T) {
		v, ok := doc.Variables[document.VariableKey{Scope: document.Scope{Function: "योग"}, Name: "a"}]
		require.True(t, ok)
		assert.Equal(t, 1, v.Line)
	})

	t.Run("local variable", func(t *testing.T) {
		v, ok := doc.Variables[document.VariableKey{Scope: document.Scope{Function: "योग"}, Name: "फल"}]
		require.True(t, ok)
		assert.Equal(t, 2, v.Line)
		assert.Equal(t, 4, v.Column)
	})

	t.Run("first global assignment wins", func(t *testing.T) {
		v, ok := doc.Variables[document.VariableKey{Name: "x"}]
		require.True(t, ok)
		assert.Equal(t, 5, v.Line)
		assert.True(t, v.Scope.IsGlobal())
	})
}

func TestBuildEdgeCases(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		doc := document.Build("")
		assert.Equal(t, 1, doc.LineCount())
		assert.Empty(t, doc.Functions)
		assert.Empty(t, doc.Variables)
	})

	t.Run("function runs to end of document", func(t *testing.T) {
		doc := document.Build("कार्यम् f(a):\n    b = a\n    c = b")
		fn, ok := doc.Function("f")
		require.True(t, ok)
		assert.Equal(t, 2, fn.EndLine)
	})

	t.Run("header without body", func(t *testing.T) {
		doc := document.Build("कार्यम् f(a):\nx = 1")
		fn, ok := doc.Function("f")
		require.True(t, ok)
		assert.Equal(t, 0, fn.EndLine)
		_, ok = doc.Variables[document.VariableKey{Name: "x"}]
		assert.True(t, ok)
	})

	t.Run("malformed headers are not registered", func(t *testing.T) {
		doc := document.Build("कार्यम् f:\nकार्यम् (a):\nकार्यम्")
		assert.Empty(t, doc.Functions)
	})

	t.Run("missing close paren still registers", func(t *testing.T) {
		doc := document.Build("कार्यम् f(a, b:")
		fn, ok := doc.Function("f")
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, paramNames(fn))
	})

	t.Run("redefinition keeps the last", func(t *testing.T) {
		doc := document.Build("कार्यम् f(a):\n    प्रतिददाति a\nकार्यम् f(b):\n    प्रतिददाति b")
		fn, ok := doc.Function("f")
		require.True(t, ok)
		assert.Equal(t, 2, fn.Line)
		assert.Len(t, doc.Functions, 1)
	})

	t.Run("assignment needs a right hand side", func(t *testing.T) {
		doc := document.Build("x =\ny == 2\nz = 1")
		assert.Len(t, doc.Variables, 1)
	})

	t.Run("comment lines do not close a function", func(t *testing.T) {
		doc := document.Build("कार्यम् f():\n    a = 1\n# note\n    b = 2")
		fn, _ := doc.Function("f")
		assert.Equal(t, 3, fn.EndLine)
	})
}

func TestBuildIsDeterministic(t *testing.T) {
	a := document.Build(sample)
	b := document.Build(sample)
	assert.Equal(t, a.Functions, b.Functions)
	assert.Equal(t, a.Variables, b.Variables)
	assert.Equal(t, a.Tokens, b.Tokens)
}

func TestQueries(t *testing.T) {
	doc := document.Build(sample)

	t.Run("token at", func(t *testing.T) {
		tok, ok := doc.TokenAt(5, 0)
		require.True(t, ok)
		assert.Equal(t, "x", tok.Text)

		_, ok = doc.TokenAt(5, 1) // whitespace
		assert.False(t, ok)

		_, ok = doc.TokenAt(99, 0)
		assert.False(t, ok)
	})

	t.Run("enclosing function", func(t *testing.T) {
		fn, ok := doc.EnclosingFunction(3)
		require.True(t, ok)
		assert.Equal(t, "योग", fn.Name)

		_, ok = doc.EnclosingFunction(1) // header line itself
		assert.False(t, ok)
		_, ok = doc.EnclosingFunction(5)
		assert.False(t, ok)
	})

	t.Run("resolve variable prefers local scope", func(t *testing.T) {
		d := document.Build("a = 1\nकार्यम् f():\n    a = 2\n    प्रतिददाति a")
		v, ok := d.ResolveVariable("a", 3)
		require.True(t, ok)
		assert.Equal(t, 2, v.Line)

		v, ok = d.ResolveVariable("a", 0)
		require.True(t, ok)
		assert.Equal(t, 0, v.Line)

		_, ok = d.ResolveVariable("missing", 3)
		assert.False(t, ok)
	})

	t.Run("sorted listings", func(t *testing.T) {
		fns := doc.SortedFunctions()
		require.Len(t, fns, 2)
		assert.Equal(t, "योग", fns[0].Name)
		assert.Equal(t, "शून्य", fns[1].Name)

		vars := doc.SortedVariables()
		require.NotEmpty(t, vars)
		for i := 1; i < len(vars); i++ {
			assert.LessOrEqual(t, vars[i-1].Line, vars[i].Line)
		}
	})

	t.Run("parameter names", func(t *testing.T) {
		assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, doc.ParameterNames())
	})

	t.Run("word before cursor", func(t *testing.T) {
		d := document.Build("x = योग(फ")
		assert.Equal(t, "फ", d.WordBefore(0, len([]rune("x = योग(फ"))))
		assert.Equal(t, "यो", d.WordBefore(0, 6))
		assert.Equal(t, "", d.WordBefore(0, 2))
		assert.Equal(t, "", d.WordBefore(3, 0))
		// Columns past the end clamp to the line.
		assert.Equal(t, "फ", d.WordBefore(0, 100))
	})
}

func paramNames(fn *document.Function) []string {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	return names
}
