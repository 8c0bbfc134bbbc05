package eval_test

import (
	"testing"

	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/config"
	"github.com/anthropics/mathexpr/ctx"
	"github.com/anthropics/mathexpr/eval"
	"github.com/anthropics/mathexpr/parse"
	"github.com/anthropics/mathexpr/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickEval(t *testing.T, text string, c *ctx.Context, cfg *config.Config) value.Results {
	t.Helper()
	node, err := parse.Parse(text, cfg)
	require.NoError(t, err)
	res, err := eval.Evaluate(node, c, cfg)
	require.NoError(t, err)
	return res
}

func TestQuickEvalSimpleArithmetic(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "3*3", ctx.New(), cfg)
	require.Len(t, res, 1)
	assert.Equal(t, value.Scalar(9), res[0])
}

func TestQuickEvalColumnMajorMatrix(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "[[3,4,5],[1,2,3],[5,6,7]]", ctx.New(), cfg)
	require.Len(t, res, 1)
	m := res[0].(*value.Matrix)
	assert.Equal(t, []float64{3, 1, 5}, m.Row(0))
	assert.Equal(t, []float64{4, 2, 6}, m.Row(1))
	assert.Equal(t, []float64{5, 3, 7}, m.Row(2))
}

func TestQuickEvalMatrixTimesVector(t *testing.T) {
	cfg := config.New()
	c := ctx.New()
	c.SetVar("A", value.Results{value.Vector{3, 5, 8}})
	m, err := value.NewMatrixFromColumns([][]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 1}})
	require.NoError(t, err)
	c.SetVar("B", value.Results{m})
	res := quickEval(t, "B*A", c, cfg)
	require.Len(t, res, 1)
	assert.Equal(t, value.Vector{6, 10, 8}, res[0])
}

func TestQuickEvalEqQuadratic(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "eq(x^2=9, x)", ctx.New(), cfg)
	res = value.RoundResults(res, 3)
	require.Len(t, res, 2)
	assert.Equal(t, value.Scalar(-3), res[0])
	assert.Equal(t, value.Scalar(3), res[1])
}

func TestQuickEvalLinearSystem(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "eq(2x+5y+2z=-38, 3x-2y+4z=17, -6x+y-7z=-12, x, y, z)", ctx.New(), cfg)
	res = value.RoundResults(res, 3)
	require.Len(t, res, 1)
	assert.Equal(t, value.Vector{3, -8, -2}, res[0])
}

func TestQuickEvalNonlinearSystem(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "eq(y=1-3x, x^2/4+y^2=1, x, y)", ctx.New(), cfg)
	res = value.RoundResults(res, 3)
	require.Len(t, res, 2)
	first := res[0].(value.Vector)
	second := res[1].(value.Vector)
	assert.InDelta(t, 0, first[0], 1e-6)
	assert.InDelta(t, 1, first[1], 1e-6)
	assert.InDelta(t, 0.649, second[0], 1e-3)
	assert.InDelta(t, -0.946, second[1], 1e-3)
}

func TestQuickEvalUserFunction(t *testing.T) {
	cfg := config.New()
	c := ctx.New()
	node, err := parse.Parse("5x^2+2x+x", cfg)
	require.NoError(t, err)
	c.SetFunc(&ctx.Function{Name: "f", Params: []string{"x"}, Body: node})
	res := quickEval(t, "f(5)", c, cfg)
	require.Len(t, res, 1)
	assert.Equal(t, value.Scalar(140), res[0])
}

func TestQuickEvalDerivative(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "D(x^2, x, 3)", ctx.New(), cfg)
	res = value.RoundResults(res, 6)
	require.Len(t, res, 1)
	assert.InDelta(t, 6, float64(res[0].(value.Scalar)), 1e-4)
}

func TestQuickEvalIntegral(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "I(x^2, x, 0, 3)", ctx.New(), cfg)
	require.Len(t, res, 1)
	assert.InDelta(t, 9, float64(res[0].(value.Scalar)), 1e-3)
}

func TestCartesianSizeLaw(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "sqrt(4)+sqrt(9)", ctx.New(), cfg)
	assert.Len(t, res, 4)
}

func TestListConcatenation(t *testing.T) {
	cfg := config.New()
	res := quickEval(t, "{1, sqrt(4), 3}", ctx.New(), cfg)
	assert.Len(t, res, 4) // 1 + 2 (sqrt duality) + 1
}

func TestExplosionCap(t *testing.T) {
	cfg := config.New(config.WithExplosionCap(3))
	c := ctx.New()
	node, err := parse.Parse("sqrt(4)*sqrt(9)*sqrt(16)*sqrt(25)", cfg)
	require.NoError(t, err)
	_, err = eval.Evaluate(node, c, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Explosion")
}

func TestUnknownVariableError(t *testing.T) {
	cfg := config.New()
	node, err := parse.Parse("q+1", cfg)
	require.NoError(t, err)
	_, err = eval.Evaluate(node, ctx.New(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnknownIdentifier")
}

func TestEvaluateEqDiagnosticsNonlinear(t *testing.T) {
	cfg := config.New()
	node, err := parse.Parse("eq(x^2=9, x)", cfg)
	require.NoError(t, err)
	res, diag, err := eval.EvaluateEqDiagnostics(node, ctx.New(), cfg)
	require.NoError(t, err)
	assert.Len(t, res, 2)
	require.NotNil(t, diag)
	assert.Greater(t, diag.SeedsTried, 0)
	assert.Greater(t, diag.Converged, 0)
}

func TestEvaluateEqDiagnosticsLinearFastPathHasNilDiagnostics(t *testing.T) {
	cfg := config.New()
	node, err := parse.Parse("eq(2x+5y=1, 3x-2y=2, x, y)", cfg)
	require.NoError(t, err)
	_, diag, err := eval.EvaluateEqDiagnostics(node, ctx.New(), cfg)
	require.NoError(t, err)
	assert.Nil(t, diag)
}

func TestEvaluateEqDiagnosticsRejectsNonEqCall(t *testing.T) {
	cfg := config.New()
	node, err := parse.Parse("3*3", cfg)
	require.NoError(t, err)
	_, _, err = eval.EvaluateEqDiagnostics(node, ctx.New(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TypeMismatch")
}

func TestUnknownOperatorOnHandBuiltAST(t *testing.T) {
	cfg := config.New()
	node := &ast.BinOp{Op: "@", LHS: &ast.Number{Value: 1}, RHS: &ast.Number{Value: 2}}
	_, err := eval.Evaluate(node, ctx.New(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnknownOperator")
}

func TestRecursionCap(t *testing.T) {
	cfg := config.New(config.WithMaxRecursion(5))
	c := ctx.New()
	node, err := parse.Parse("f(x)", cfg)
	require.NoError(t, err)
	c.SetFunc(&ctx.Function{Name: "f", Params: []string{"x"}, Body: node})
	c.SetVar("x", value.Results{value.Scalar(1)})
	_, err = eval.Evaluate(node, c, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Recursion")
}
