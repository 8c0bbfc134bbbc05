// Package eval implements the multi-value evaluator: AST -> Results,
// applying cartesian expansion at every node with sub-expressions, and
// dispatching eq(...) to the solver package.
//
// Grounded on ivy's value.Expr.Eval(Context) dispatch (value/expr.go) and
// exec.Context's EvalBinary/EvalUnary (exec/context.go), generalized from
// a single Value per node to a Results (a set of candidate Values) per
// node, with the cartesian product as the single rule that ties sub-
// expression Results back together.
package eval

import (
	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/config"
	"github.com/anthropics/mathexpr/ctx"
	"github.com/anthropics/mathexpr/errs"
	"github.com/anthropics/mathexpr/solver"
	"github.com/anthropics/mathexpr/value"
	"go.uber.org/zap"
)

// Evaluate reduces node to a Results under Context c and Config cfg,
// applying cartesian expansion at every sub-expression. It is the outermost
// entry point: internal helpers return explicit errors, except for the
// recursion-depth cap in evalUserCall, which panics via errs.Errorf from
// an arbitrary stack depth; this function's deferred errs.Recover turns
// that panic back into a normal error return.
func Evaluate(node ast.Node, c *ctx.Context, cfg *config.Config) (res value.Results, err error) {
	defer errs.Recover(&err)
	return eval(node, c, cfg, 0)
}

// EvaluateEqDiagnostics evaluates node, which must be an eq(...) call, and
// additionally returns the solver.Diagnostics from its multi-start search
// (nil if the linear fast path was used instead).
func EvaluateEqDiagnostics(node ast.Node, c *ctx.Context, cfg *config.Config) (res value.Results, diag *solver.Diagnostics, err error) {
	defer errs.Recover(&err)
	call, ok := node.(*ast.Call)
	if !ok || call.Name != "eq" {
		return nil, nil, errs.New(errs.TypeMismatch, errs.NoPos, "diagnostics are only available for an eq(...) call")
	}
	return evalEqDiagnostics(call, c, cfg)
}

func eval(node ast.Node, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	switch n := node.(type) {
	case *ast.Number:
		return value.Results{value.Scalar(n.Value)}, nil
	case *ast.Var:
		return evalVar(n, c)
	case *ast.VectorExpr:
		return evalVector(n, c, cfg, depth)
	case *ast.MatrixExpr:
		return evalMatrix(n, c, cfg, depth)
	case *ast.ListExpr:
		return evalList(n, c, cfg, depth)
	case *ast.UnaryOp:
		return evalUnary(n, c, cfg, depth)
	case *ast.BinOp:
		return evalBinOp(n, c, cfg, depth)
	case *ast.Call:
		return evalCall(n, c, cfg, depth)
	case *ast.Eqn:
		return nil, errs.New(errs.MisplacedEquals, errs.NoPos, "'=' is only valid as a direct argument of eq(...)")
	}
	return nil, errs.New(errs.UnknownIdentifier, errs.NoPos, "unrecognized AST node %T", node)
}

func evalVar(n *ast.Var, c *ctx.Context) (value.Results, error) {
	if r, ok := c.Var(n.Name); ok {
		return r, nil
	}
	return nil, errs.New(errs.UnknownIdentifier, errs.NoPos, "undefined variable %q", n.Name)
}

func evalVector(n *ast.VectorExpr, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	perElem, err := evalAll(n.Elems, c, cfg, depth)
	if err != nil {
		return nil, err
	}
	combos, err := cartesian(perElem, cfg)
	if err != nil {
		return nil, err
	}
	out := make(value.Results, len(combos))
	for i, combo := range combos {
		vec := make(value.Vector, len(combo))
		for j, v := range combo {
			s, ok := v.(value.Scalar)
			if !ok {
				return nil, errs.New(errs.TypeMismatch, errs.NoPos, "vector elements must be scalar, got %s", v.Kind())
			}
			vec[j] = float64(s)
		}
		out[i] = vec
	}
	return out, nil
}

func evalMatrix(n *ast.MatrixExpr, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	var flat []ast.Node
	rows, cols := len(n.Rows), 0
	if rows > 0 {
		cols = len(n.Rows[0])
	}
	for _, row := range n.Rows {
		flat = append(flat, row...)
	}
	perElem, err := evalAll(flat, c, cfg, depth)
	if err != nil {
		return nil, err
	}
	combos, err := cartesian(perElem, cfg)
	if err != nil {
		return nil, err
	}
	out := make(value.Results, len(combos))
	for i, combo := range combos {
		data := make([][]float64, rows)
		k := 0
		for r := 0; r < rows; r++ {
			data[r] = make([]float64, cols)
			for cIdx := 0; cIdx < cols; cIdx++ {
				s, ok := combo[k].(value.Scalar)
				if !ok {
					return nil, errs.New(errs.TypeMismatch, errs.NoPos, "matrix elements must be scalar, got %s", combo[k].Kind())
				}
				data[r][cIdx] = float64(s)
				k++
			}
		}
		m, err := value.NewMatrixFromRows(data)
		if err != nil {
			return nil, errs.New(errs.RaggedMatrix, errs.NoPos, "%s", err.Error())
		}
		out[i] = m
	}
	return out, nil
}

func evalList(n *ast.ListExpr, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	var out value.Results
	for _, elem := range n.Elems {
		r, err := eval(elem, c, cfg, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func evalUnary(n *ast.UnaryOp, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	r, err := eval(n.Arg, c, cfg, depth)
	if err != nil {
		return nil, err
	}
	out := make(value.Results, len(r))
	for i, v := range r {
		neg, err := value.Neg(v)
		if err != nil {
			return nil, err
		}
		out[i] = neg
	}
	return out, nil
}

func evalBinOp(n *ast.BinOp, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	left, err := eval(n.LHS, c, cfg, depth)
	if err != nil {
		return nil, err
	}
	right, err := eval(n.RHS, c, cfg, depth)
	if err != nil {
		return nil, err
	}
	combos, err := cartesian([]value.Results{left, right}, cfg)
	if err != nil {
		return nil, err
	}
	var out value.Results
	for _, combo := range combos {
		r, err := value.Binary(n.Op, combo[0], combo[1])
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func evalCall(n *ast.Call, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	switch n.Name {
	case "eq":
		return evalEq(n, c, cfg)
	case "D":
		return evalDerivative(n, c, cfg, depth)
	case "I":
		return evalIntegral(n, c, cfg, depth)
	case "root":
		return evalBuiltinArgs(n, c, cfg, depth, func(args []value.Value) (value.Results, error) {
			v, err := value.Root(args[0], args[1])
			if err != nil {
				return nil, err
			}
			return value.Results{v}, nil
		})
	case "sin", "cos", "tan", "arcsin", "arccos", "arctan", "ln", "sqrt", "abs":
		return evalBuiltinArgs(n, c, cfg, depth, func(args []value.Value) (value.Results, error) {
			return value.Func1(n.Name, args[0])
		})
	}
	if fn, ok := c.Func(n.Name); ok {
		return evalUserCall(n, fn, c, cfg, depth)
	}
	return nil, errs.New(errs.UnknownIdentifier, errs.NoPos, "unknown function %q", n.Name)
}

// evalBuiltinArgs evaluates n's arguments, cartesian-expands them, and
// applies fn to every combination, concatenating the per-combination
// Results in cartesian order.
func evalBuiltinArgs(n *ast.Call, c *ctx.Context, cfg *config.Config, depth int, fn func([]value.Value) (value.Results, error)) (value.Results, error) {
	perArg, err := evalAll(n.Args, c, cfg, depth)
	if err != nil {
		return nil, err
	}
	combos, err := cartesian(perArg, cfg)
	if err != nil {
		return nil, err
	}
	var out value.Results
	for _, combo := range combos {
		r, err := fn(combo)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func evalAll(nodes []ast.Node, c *ctx.Context, cfg *config.Config, depth int) ([]value.Results, error) {
	out := make([]value.Results, len(nodes))
	for i, node := range nodes {
		r, err := eval(node, c, cfg, depth)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// cartesian forms the cartesian product of the given Results slices in
// leftmost-varies-slowest order, guarding against the configured
// combinatorial explosion cap.
func cartesian(results []value.Results, cfg *config.Config) ([][]value.Value, error) {
	total := 1
	for _, r := range results {
		total *= len(r)
		if total > cfg.ExplosionCap() {
			return nil, errs.New(errs.Explosion, errs.NoPos, "cartesian expansion exceeds cap of %d combinations", cfg.ExplosionCap())
		}
	}
	combos := make([][]value.Value, total)
	for i := range combos {
		combos[i] = make([]value.Value, len(results))
	}
	stride := total
	for argIdx, r := range results {
		stride /= len(r)
		for i := 0; i < total; i++ {
			combos[i][argIdx] = r[(i/stride)%len(r)]
		}
	}
	if cfg.Debug("cartesian") {
		cfg.Logger().Debug("cartesian expansion", zap.Int("operands", len(results)), zap.Int("combinations", total))
	}
	return combos, nil
}

func evalUserCall(n *ast.Call, fn *ctx.Function, c *ctx.Context, cfg *config.Config, depth int) (value.Results, error) {
	if depth >= cfg.MaxRecursion() {
		// Raised via Errorf rather than a plain return: this check fires
		// from an arbitrary depth inside a chain of nested evalUserCall
		// frames, so unwinding it as a panic caught by the deferred
		// Recover in Evaluate avoids threading a distinct error return
		// through every frame in between.
		errs.Errorf(errs.Recursion, errs.NoPos, "recursion depth exceeds cap of %d calling %q", cfg.MaxRecursion(), n.Name)
	}
	if len(n.Args) != len(fn.Params) {
		return nil, errs.New(errs.ArityMismatch, errs.NoPos, "%q expects %d argument(s), got %d", n.Name, len(fn.Params), len(n.Args))
	}
	perArg, err := evalAll(n.Args, c, cfg, depth)
	if err != nil {
		return nil, err
	}
	combos, err := cartesian(perArg, cfg)
	if err != nil {
		return nil, err
	}
	var out value.Results
	for _, combo := range combos {
		child := c.Child()
		for i, p := range fn.Params {
			child.SetVar(p, value.Results{combo[i]})
		}
		r, err := eval(fn.Body, child, cfg, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}
