package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, formula string) Node {
	t.Helper()
	n, err := Parse(Tokenize(formula), 0)
	require.NoError(t, err)
	return n
}

func TestParsePrecedence(t *testing.T) {
	// 2 + 3 * 4 parses as 2 + (3 * 4).
	n := mustParse(t, "2 + 3 * 4")

	add, ok := n.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)

	mul, ok := add.Right.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseLeftAssociative(t *testing.T) {
	// 10 - 4 - 3 parses as (10 - 4) - 3.
	n := mustParse(t, "10 - 4 - 3")

	outer, ok := n.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", outer.Op)

	inner, ok := outer.Left.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", inner.Op)
}

func TestParseComparisonBindsLoosest(t *testing.T) {
	// a + 1 > b * 2 parses as (a + 1) > (b * 2).
	n := mustParse(t, "a + 1 > b * 2")

	cmp, ok := n.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ">", cmp.Op)
	assert.IsType(t, &BinaryOp{}, cmp.Left)
	assert.IsType(t, &BinaryOp{}, cmp.Right)
}

func TestParseNestedCallCommaBinding(t *testing.T) {
	// The inner commas belong to IF, so SUM gets exactly one argument.
	n := mustParse(t, "SUM(IF(x, 1, 0))")

	sum, ok := n.(*Call)
	require.True(t, ok)
	assert.Equal(t, "SUM", sum.Name)
	require.Len(t, sum.Args, 1)

	ifCall, ok := sum.Args[0].(*Call)
	require.True(t, ok)
	assert.Equal(t, "IF", ifCall.Name)
	assert.Len(t, ifCall.Args, 3)
}

func TestParseParenthesizedArgument(t *testing.T) {
	n := mustParse(t, "ROUND((a + b) * 2)")

	round, ok := n.(*Call)
	require.True(t, ok)
	require.Len(t, round.Args, 1)
	assert.IsType(t, &BinaryOp{}, round.Args[0])
}

func TestParseEmptyInput(t *testing.T) {
	n, err := Parse(nil, 0)
	require.NoError(t, err)
	lit, ok := n.(*Literal)
	require.True(t, ok)
	assert.Nil(t, lit.Value)
}

func TestParseUnaryMinus(t *testing.T) {
	n := mustParse(t, "-5 + 2")

	add, ok := n.(*BinaryOp)
	require.True(t, ok)
	neg, ok := add.Left.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", neg.Op)
}

func TestParseMalformedNeverErrors(t *testing.T) {
	// The only parse failure is depth; junk degrades to a best-effort tree.
	for _, formula := range []string{
		"+ +", "SUM(", "SUM(,)", ") amount (", "a + ", "* 3", "IF(a,)", ", , ,",
	} {
		t.Run(formula, func(t *testing.T) {
			_, err := Parse(Tokenize(formula), 0)
			assert.NoError(t, err)
		})
	}
}

func TestParseUnarySignChainDepthLimit(t *testing.T) {
	// Stacked signs nest like parentheses and must hit the same limit.
	_, err := Parse(Tokenize(strings.Repeat("-", 100)+"1"), 32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting")

	// A chain that fits the limit folds to a plain negation tree.
	n, err := Parse(Tokenize("--5"), 32)
	require.NoError(t, err)
	outer, ok := n.(*BinaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", outer.Op)
	assert.IsType(t, &BinaryOp{}, outer.Right)
}

func TestParseUnarySignChainTerminates(t *testing.T) {
	// Even far past the limit the parser consumes all input and returns,
	// rather than recursing once per sign.
	_, err := Parse(Tokenize(strings.Repeat("-", 100000)+"1"), 32)
	require.Error(t, err)
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("ABS(", 40) + "1" + strings.Repeat(")", 40)
	_, err := Parse(Tokenize(deep), 32)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting")

	shallow := strings.Repeat("ABS(", 10) + "1" + strings.Repeat(")", 10)
	_, err = Parse(Tokenize(shallow), 32)
	assert.NoError(t, err)
}
