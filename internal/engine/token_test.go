package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeCategories(t *testing.T) {
	toks := Tokenize("SUM(amount) + 2.5 * revenue >= 10, 'won'")

	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []TokenType{
		TokenFunction, TokenLParen, TokenField, TokenRParen,
		TokenOperator, TokenNumber, TokenOperator, TokenField,
		TokenComparison, TokenNumber, TokenComma, TokenString,
	}, types)

	assert.Equal(t, "SUM", toks[0].Text)
	assert.Equal(t, "amount", toks[2].Text)
	assert.InDelta(t, 2.5, toks[5].Num, 0.0001)
	assert.Equal(t, ">=", toks[8].Text)
	assert.Equal(t, "won", toks[11].Text)
}

func TestTokenizeFunctionNameCanonicalized(t *testing.T) {
	toks := Tokenize("sum(amount)")
	require.NotEmpty(t, toks)
	assert.Equal(t, TokenFunction, toks[0].Type)
	assert.Equal(t, "SUM", toks[0].Text)
}

func TestTokenizeFieldCasePreserved(t *testing.T) {
	toks := Tokenize("Deal_Value + deal_value")
	require.Len(t, toks, 3)
	assert.Equal(t, "Deal_Value", toks[0].Text)
	assert.Equal(t, "deal_value", toks[2].Text)
}

func TestTokenizeUnknownIdentifierStaysField(t *testing.T) {
	// Not in the function-name set, even though a paren follows.
	toks := Tokenize("MEDIAN(amount)")
	require.NotEmpty(t, toks)
	assert.Equal(t, TokenField, toks[0].Type)
	assert.Equal(t, "MEDIAN", toks[0].Text)
}

func TestTokenizeFunctionRequiresParen(t *testing.T) {
	toks := Tokenize("SUM + 1")
	require.Len(t, toks, 3)
	assert.Equal(t, TokenField, toks[0].Type)
}

func TestTokenizeUnterminatedString(t *testing.T) {
	toks := Tokenize("'still open")
	require.Len(t, toks, 1)
	assert.Equal(t, TokenString, toks[0].Type)
	assert.Equal(t, "still open", toks[0].Text)
}

func TestTokenizeDiscardsUnrecognized(t *testing.T) {
	toks := Tokenize("amount @ # $ 2")
	require.Len(t, toks, 2)
	assert.Equal(t, TokenField, toks[0].Type)
	assert.Equal(t, TokenNumber, toks[1].Type)
}

func TestTokenizeComparisons(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a > b", ">"},
		{"a >= b", ">="},
		{"a < b", "<"},
		{"a <= b", "<="},
		{"a = b", "="},
		{"a == b", "=="},
		{"a != b", "!="},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := Tokenize(tt.input)
			require.Len(t, toks, 3)
			assert.Equal(t, TokenComparison, toks[1].Type)
			assert.Equal(t, tt.want, toks[1].Text)
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \t\n"))
}
