package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   string
		a, b Value
		want Value
	}{
		{"scalar add", "+", Scalar(2), Scalar(3), Scalar(5)},
		{"scalar mul", "*", Scalar(2), Scalar(3), Scalar(6)},
		{"vector add", "+", Vector{1, 2}, Vector{3, 4}, Vector{4, 6}},
		{"dot product", "*", Vector{1, 2, 3}, Vector{4, 5, 6}, Scalar(32)},
		{"scale vector", "*", Scalar(2), Vector{1, 2}, Vector{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Binary(tt.op, tt.a, tt.b)
			require.NoError(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, tt.want, res[0])
		})
	}
}

func TestBinaryPlusMinus(t *testing.T) {
	res, err := Binary("&", Scalar(5), Scalar(3))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, Scalar(8), res[0])
	assert.Equal(t, Scalar(2), res[1])
}

func TestBinaryDimensionMismatch(t *testing.T) {
	_, err := Binary("+", Vector{1, 2}, Vector{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DimensionMismatch")
}

func TestBinaryDivisionByZero(t *testing.T) {
	_, err := Binary("/", Scalar(1), Scalar(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DivisionByZero")
}

func TestCrossProductOrthogonal(t *testing.T) {
	res, err := Binary("#", Vector{1, 0, 0}, Vector{0, 1, 0})
	require.NoError(t, err)
	require.Len(t, res, 1)
	got := res[0].(Vector)
	a := Vector{1, 0, 0}
	dotA, err := Binary("*", a, got)
	require.NoError(t, err)
	assert.InDelta(t, 0, float64(dotA[0].(Scalar)), 1e-6)
}

func TestMatVec(t *testing.T) {
	m, err := NewMatrixFromRows([][]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 1}})
	require.NoError(t, err)
	res, err := Binary("*", m, Vector{3, 5, 8})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, Vector{6, 10, 8}, res[0])
}

func TestPowerNegativeBaseFractionalExponent(t *testing.T) {
	_, err := Binary("^", Scalar(-2), Scalar(0.5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DomainError")
}

func TestBinaryUnknownOperator(t *testing.T) {
	_, err := Binary("@", Scalar(1), Scalar(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnknownOperator")
}

func TestIndex(t *testing.T) {
	res, err := Binary("?", Vector{10, 20, 30}, Scalar(2))
	require.NoError(t, err)
	assert.Equal(t, Scalar(20), res[0])

	_, err = Binary("?", Vector{10, 20, 30}, Scalar(4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IndexOutOfRange")
}
