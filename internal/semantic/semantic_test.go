package semantic_test

import (
	"testing"

	"sansls/internal/document"
	"sansls/internal/semantic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quintuples(data []uint32) [][5]uint32 {
	var out [][5]uint32
	for i := 0; i+5 <= len(data); i += 5 {
		out = append(out, [5]uint32{data[i], data[i+1], data[i+2], data[i+3], data[i+4]})
	}
	return out
}

func TestLegend(t *testing.T) {
	assert.Len(t, semantic.TokenTypes, 9)
	assert.Equal(t, "keyword", semantic.TokenTypes[semantic.TypeKeyword])
	assert.Equal(t, "parameter", semantic.TokenTypes[semantic.TypeParameter])
	assert.Equal(t, "enumMember", semantic.TokenTypes[semantic.TypeEnumMember])
	assert.Equal(t, []string{"declaration", "definition", "readonly"}, semantic.TokenModifiers)
}

func TestEncodeDeltas(t *testing.T) {
	// "ab" ends at column 2; "7" starts three columns later.
	doc := document.Build("ab   7\n  c")
	got := quintuples(semantic.Encode(doc))
	require.Len(t, got, 3)

	assert.Equal(t, [5]uint32{0, 0, 2, semantic.TypeVariable, 0}, got[0])
	assert.Equal(t, [5]uint32{0, 5, 1, semantic.TypeNumber, 0}, got[1])
	// A new line restarts the column at its absolute value.
	assert.Equal(t, [5]uint32{1, 2, 1, semantic.TypeVariable, 0}, got[2])
}

func TestEncodeClassification(t *testing.T) {
	text := "कार्यम् f(p):\n    प्रतिददाति p + 1 # c\nx = f(सत्यम् च \"s\")"
	doc := document.Build(text)
	got := quintuples(semantic.Encode(doc))

	var types []uint32
	for _, q := range got {
		types = append(types, q[3])
		assert.Zero(t, q[4])
	}
	assert.Equal(t, []uint32{
		semantic.TypeKeyword, semantic.TypeFunction, semantic.TypeParameter, // header, punctuation skipped
		semantic.TypeKeyword, semantic.TypeParameter, semantic.TypeOperator, semantic.TypeNumber, semantic.TypeComment,
		semantic.TypeVariable, semantic.TypeOperator, semantic.TypeFunction, semantic.TypeEnumMember, semantic.TypeOperator, semantic.TypeString,
	}, types)
}

func TestEncodeLengthsAreUTF16(t *testing.T) {
	doc := document.Build("मुद्रय")
	got := quintuples(semantic.Encode(doc))
	require.Len(t, got, 1)
	assert.Equal(t, uint32(len([]rune("मुद्रय"))), got[0][2])
	assert.Equal(t, semantic.TypeFunction, got[0][3])
}

func TestEncodeEmpty(t *testing.T) {
	assert.Empty(t, semantic.Encode(document.Build("")))
	assert.Empty(t, semantic.Encode(document.Build("( ) [ ] , : $")))
}
