package eval

import (
	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/config"
	"github.com/anthropics/mathexpr/ctx"
	"github.com/anthropics/mathexpr/errs"
	"github.com/anthropics/mathexpr/solver"
	"github.com/anthropics/mathexpr/value"
)

// derivativeStep is the central-difference step for D(expr, var, at).
const derivativeStep = 1e-5

// integralSubintervals is the fixed subinterval count for I(expr, var,
// a, b)'s composite Simpson's rule, chosen over adaptive Simpson's for
// deterministic evaluation.
const integralSubintervals = 1000

// evalDerivative implements D(expr, var, at): the numerical derivative
// of expr with respect to var, evaluated at the scalar point(s) at, via
// central difference. One derivative is produced per value of at, in
// order; expr must be single-valued at each sample point (see
// singleValuedAt). var must be a bare identifier naming the variable to
// perturb.
func evalDerivative(n *ast.Call, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	if len(n.Args) != 3 {
		return nil, errs.New(errs.ArityMismatch, errs.NoPos, "D expects 3 arguments (expr, var, at), got %d", len(n.Args))
	}
	varName, err := requireVarName(n.Args[1], "D")
	if err != nil {
		return nil, err
	}
	atResults, err := eval(n.Args[2], c, cfg, depth)
	if err != nil {
		return nil, err
	}
	var out value.Results
	for _, atVal := range atResults {
		at, ok := atVal.(value.Scalar)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, errs.NoPos, "D's evaluation point must be scalar, got %s", atVal.Kind())
		}
		d, err := derivativeAt(n.Args[0], varName, float64(at), c, cfg, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, value.Scalar(d))
	}
	return out, nil
}

func derivativeAt(expr ast.Node, varName string, at float64, c *ctx.Context, cfg *config.Config, depth int) (float64, error) {
	plus, err := singleValuedAt(expr, varName, at+derivativeStep, c, cfg, depth)
	if err != nil {
		return 0, err
	}
	minus, err := singleValuedAt(expr, varName, at-derivativeStep, c, cfg, depth)
	if err != nil {
		return 0, err
	}
	return (plus - minus) / (2 * derivativeStep), nil
}

// singleValuedAt evaluates expr with varName bound to x and requires
// exactly one scalar Result: D and I operate on a numerical function of
// one real variable, so a multi-valued residual at a sample point (e.g.
// from a bare sqrt inside expr) has no well-defined derivative or area
// contribution, so every sample point is required to be single-valued.
func singleValuedAt(expr ast.Node, varName string, x float64, c *ctx.Context, cfg *config.Config, depth int) (float64, error) {
	child := c.Child()
	child.SetVar(varName, value.Results{value.Scalar(x)})
	r, err := eval(expr, child, cfg, depth)
	if err != nil {
		return 0, err
	}
	if len(r) != 1 {
		return 0, errs.New(errs.ArityMismatch, errs.NoPos, "expression must be single-valued at each sample point, got %d values", len(r))
	}
	s, ok := r[0].(value.Scalar)
	if !ok {
		return 0, errs.New(errs.TypeMismatch, errs.NoPos, "expression must evaluate to a scalar, got %s", r[0].Kind())
	}
	return float64(s), nil
}

// evalIntegral implements I(expr, var, a, b) via composite Simpson's
// rule with a fixed subinterval count.
func evalIntegral(n *ast.Call, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	if len(n.Args) != 4 {
		return nil, errs.New(errs.ArityMismatch, errs.NoPos, "I expects 4 arguments (expr, var, a, b), got %d", len(n.Args))
	}
	varName, err := requireVarName(n.Args[1], "I")
	if err != nil {
		return nil, err
	}
	aResults, err := eval(n.Args[2], c, cfg, depth)
	if err != nil {
		return nil, err
	}
	bResults, err := eval(n.Args[3], c, cfg, depth)
	if err != nil {
		return nil, err
	}
	combos, err := cartesian([]value.Results{aResults, bResults}, cfg)
	if err != nil {
		return nil, err
	}
	var out value.Results
	for _, combo := range combos {
		a, ok := combo[0].(value.Scalar)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, errs.NoPos, "I's lower bound must be scalar, got %s", combo[0].Kind())
		}
		b, ok := combo[1].(value.Scalar)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, errs.NoPos, "I's upper bound must be scalar, got %s", combo[1].Kind())
		}
		area, err := simpson(n.Args[0], varName, float64(a), float64(b), c, cfg, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, value.Scalar(area))
	}
	return out, nil
}

func simpson(expr ast.Node, varName string, a, b float64, c *ctx.Context, cfg *config.Config, depth int) (float64, error) {
	n := integralSubintervals
	h := (b - a) / float64(n)
	fa, err := singleValuedAt(expr, varName, a, c, cfg, depth)
	if err != nil {
		return 0, err
	}
	fb, err := singleValuedAt(expr, varName, b, c, cfg, depth)
	if err != nil {
		return 0, err
	}
	sum := fa + fb
	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		fx, err := singleValuedAt(expr, varName, x, c, cfg, depth)
		if err != nil {
			return 0, err
		}
		if i%2 == 0 {
			sum += 2 * fx
		} else {
			sum += 4 * fx
		}
	}
	return sum * h / 3, nil
}

func requireVarName(node ast.Node, fnName string) (string, error) {
	v, ok := node.(*ast.Var)
	if !ok {
		return "", errs.New(errs.TypeMismatch, errs.NoPos, "%s's variable argument must be a bare identifier", fnName)
	}
	return v.Name, nil
}

// evalEq implements eq(eq1, ..., eqm, x1, ..., xn): the equation solver
// entry point. Arguments are split into the *ast.Eqn nodes (the
// equations) and the *ast.Var nodes (the unknowns), each kept in argument
// order; any other argument is an ArityMismatch error.
func evalEq(n *ast.Call, c *ctx.Context, cfg *config.Config) (value.Results, error) {
	res, _, err := evalEqDiagnostics(n, c, cfg)
	return res, err
}

// evalEqDiagnostics is evalEq plus the solver.Diagnostics produced by the
// multi-start search. diag is nil when the linear fast path handles the
// system instead, since that path has no per-seed search to report on.
func evalEqDiagnostics(n *ast.Call, c *ctx.Context, cfg *config.Config) (value.Results, *solver.Diagnostics, error) {
	var eqns []*ast.Eqn
	var unknowns []string
	for _, arg := range n.Args {
		switch a := arg.(type) {
		case *ast.Eqn:
			eqns = append(eqns, a)
		case *ast.Var:
			unknowns = append(unknowns, a.Name)
		default:
			return nil, nil, errs.New(errs.ArityMismatch, errs.NoPos, "eq arguments must be equations followed by unknown names")
		}
	}
	if len(eqns) == 0 || len(unknowns) == 0 {
		return nil, nil, errs.New(errs.ArityMismatch, errs.NoPos, "eq requires at least one equation and one unknown")
	}

	residual := func(x []float64) ([]float64, error) {
		child := c.Child()
		for i, name := range unknowns {
			child.SetVar(name, value.Results{value.Scalar(x[i])})
		}
		out := make([]float64, len(eqns))
		for i, e := range eqns {
			lhs, err := singleValuedExpr(e.LHS, child, cfg)
			if err != nil {
				return nil, err
			}
			rhs, err := singleValuedExpr(e.RHS, child, cfg)
			if err != nil {
				return nil, err
			}
			out[i] = lhs - rhs
		}
		return out, nil
	}

	if coeffs, consts, ok := linearSystem(eqns, unknowns, c, cfg); ok {
		x, err := solver.SolveLinear(coeffs, consts)
		if err != nil {
			return nil, nil, err
		}
		return []value.Value{toValue(x)}, nil, nil
	}

	sys := solver.System{M: len(eqns), N: len(unknowns), R: residual}
	sols, diag, err := solver.SolveWithDiagnostics(sys, cfg)
	if err != nil {
		return nil, diag, err
	}
	out := make(value.Results, len(sols))
	for i, sol := range sols {
		out[i] = toValue(sol)
	}
	return out, diag, nil
}

func toValue(x []float64) value.Value {
	if len(x) == 1 {
		return value.Scalar(x[0])
	}
	return value.Vector(append([]float64(nil), x...))
}

func singleValuedExpr(expr ast.Node, c *ctx.Context, cfg *config.Config) (float64, error) {
	r, err := eval(expr, c, cfg, 0)
	if err != nil {
		return 0, err
	}
	if len(r) != 1 {
		return 0, errs.New(errs.ArityMismatch, errs.NoPos, "equation side must be single-valued, got %d values", len(r))
	}
	s, ok := r[0].(value.Scalar)
	if !ok {
		return 0, errs.New(errs.TypeMismatch, errs.NoPos, "equation side must be scalar, got %s", r[0].Kind())
	}
	return float64(s), nil
}
