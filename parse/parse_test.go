package parse

import (
	"testing"

	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImplicitMultiplication(t *testing.T) {
	n, err := Parse("3x", config.New())
	require.NoError(t, err)
	bin, ok := n.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
	_, ok = bin.LHS.(*ast.Number)
	assert.True(t, ok)
	_, ok = bin.RHS.(*ast.Var)
	assert.True(t, ok)
}

func TestParseImplicitParen(t *testing.T) {
	n, err := Parse("2(x+1)", config.New())
	require.NoError(t, err)
	bin, ok := n.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
}

func TestParsePrecedence(t *testing.T) {
	// 2+3*4 parses as 2+(3*4)
	n, err := Parse("2+3*4", config.New())
	require.NoError(t, err)
	add, ok := n.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.RHS.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParsePowRightAssociative(t *testing.T) {
	// 2^3^2 parses as 2^(3^2)
	n, err := Parse("2^3^2", config.New())
	require.NoError(t, err)
	outer, ok := n.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "^", outer.Op)
	_, ok = outer.LHS.(*ast.Number)
	assert.True(t, ok)
	inner, ok := outer.RHS.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "^", inner.Op)
}

func TestParseUnaryMinusBindsLooserThanPow(t *testing.T) {
	// -2^2 parses as -(2^2), i.e. -4.
	n, err := Parse("-2^2", config.New())
	require.NoError(t, err)
	un, ok := n.(*ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", un.Op)
	pow, ok := un.Arg.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "^", pow.Op)
}

func TestParseVectorLiteral(t *testing.T) {
	n, err := Parse("[1, 2, 3]", config.New())
	require.NoError(t, err)
	vec, ok := n.(*ast.VectorExpr)
	require.True(t, ok)
	assert.Len(t, vec.Elems, 3)
}

func TestParseMatrixColumnMajorDefault(t *testing.T) {
	n, err := Parse("[[3,4,5],[1,2,3],[5,6,7]]", config.New())
	require.NoError(t, err)
	m, ok := n.(*ast.MatrixExpr)
	require.True(t, ok)
	require.Len(t, m.Rows, 3)
	row0 := m.Rows[0]
	require.Len(t, row0, 3)
	assert.Equal(t, 3.0, row0[0].(*ast.Number).Value)
	assert.Equal(t, 1.0, row0[1].(*ast.Number).Value)
	assert.Equal(t, 5.0, row0[2].(*ast.Number).Value)
}

func TestParseMatrixRowMajorOption(t *testing.T) {
	n, err := Parse("[[3,4,5],[1,2,3]]", config.New(config.WithRowMajor()))
	require.NoError(t, err)
	m, ok := n.(*ast.MatrixExpr)
	require.True(t, ok)
	require.Len(t, m.Rows, 2)
	assert.Equal(t, 3.0, m.Rows[0][0].(*ast.Number).Value)
	assert.Equal(t, 4.0, m.Rows[0][1].(*ast.Number).Value)
}

func TestParseRaggedMatrixError(t *testing.T) {
	_, err := Parse("[[1,2],[3,4,5]]", config.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RaggedMatrix")
}

func TestParseEmptyVectorError(t *testing.T) {
	_, err := Parse("[]", config.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EmptyContainer")
}

func TestParseEqCall(t *testing.T) {
	n, err := Parse("eq(x^2=9, x)", config.New())
	require.NoError(t, err)
	call, ok := n.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "eq", call.Name)
	require.Len(t, call.Args, 2)
	eqn, ok := call.Args[0].(*ast.Eqn)
	require.True(t, ok)
	_, ok = eqn.LHS.(*ast.BinOp)
	assert.True(t, ok)
	_, ok = call.Args[1].(*ast.Var)
	assert.True(t, ok)
}

func TestParseEqualsOutsideEqIsError(t *testing.T) {
	_, err := Parse("x = 3", config.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MisplacedEquals")
}

func TestParseUnbalancedBracket(t *testing.T) {
	_, err := Parse("(1+2", config.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnbalancedBracket")
}

func TestParseListLiteral(t *testing.T) {
	n, err := Parse("{1, 2, 3}", config.New())
	require.NoError(t, err)
	list, ok := n.(*ast.ListExpr)
	require.True(t, ok)
	assert.Len(t, list.Elems, 3)
}
