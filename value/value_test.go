package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarString(t *testing.T) {
	tests := []struct {
		in   Scalar
		want string
	}{
		{3, "3"},
		{3.5, "3.5"},
		{-2, "-2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
}

func TestMatrixFromColumnsTransposesIntoRows(t *testing.T) {
	m, err := NewMatrixFromColumns([][]float64{
		{3, 4, 5},
		{1, 2, 3},
		{5, 6, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, []float64{3, 1, 5}, m.Row(0))
	assert.Equal(t, []float64{4, 2, 6}, m.Row(1))
	assert.Equal(t, []float64{5, 3, 7}, m.Row(2))
}

func TestMatrixFromRowsRagged(t *testing.T) {
	_, err := NewMatrixFromRows([][]float64{{1, 2}, {1, 2, 3}})
	require.Error(t, err)
}

func TestRound(t *testing.T) {
	got := Round(Scalar(1.23456), 3).(Scalar)
	assert.InDelta(t, 1.235, float64(got), 1e-9)

	v := Round(Vector{1.005, 2.004}, 2).(Vector)
	assert.InDelta(t, 1.01, v[0], 1e-9)
	assert.InDelta(t, 2.0, v[1], 1e-9)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Scalar(1), Scalar(1.0000001), 1e-3))
	assert.False(t, Equal(Scalar(1), Scalar(2), 1e-3))
	assert.True(t, Equal(Vector{1, 2}, Vector{1, 2}, 1e-9))
	assert.False(t, Equal(Vector{1, 2}, Vector{1, 2, 3}, 1e-9))
	assert.False(t, Equal(Scalar(1), Vector{1}, 1e-9))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(Scalar(1)))
	assert.False(t, IsFinite(Scalar(math.NaN())))
}
