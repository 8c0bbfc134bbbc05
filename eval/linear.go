package eval

import (
	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/config"
	"github.com/anthropics/mathexpr/ctx"
	"github.com/anthropics/mathexpr/value"
)

// linForm is an affine function of the unknowns: coeffs[i]*x[i] + constant.
type linForm struct {
	coeffs   []float64
	constant float64
}

func zeroForm(n int) linForm { return linForm{coeffs: make([]float64, n)} }

func (f linForm) isConstant() bool {
	for _, c := range f.coeffs {
		if c != 0 {
			return false
		}
	}
	return true
}

func addForm(a, b linForm) linForm {
	out := zeroForm(len(a.coeffs))
	for i := range out.coeffs {
		out.coeffs[i] = a.coeffs[i] + b.coeffs[i]
	}
	out.constant = a.constant + b.constant
	return out
}

func subForm(a, b linForm) linForm {
	out := zeroForm(len(a.coeffs))
	for i := range out.coeffs {
		out.coeffs[i] = a.coeffs[i] - b.coeffs[i]
	}
	out.constant = a.constant - b.constant
	return out
}

func scaleForm(f linForm, s float64) linForm {
	out := zeroForm(len(f.coeffs))
	for i := range out.coeffs {
		out.coeffs[i] = f.coeffs[i] * s
	}
	out.constant = f.constant * s
	return out
}

// linearSystem attempts to read every equation's (lhs - rhs) as an
// affine function of unknowns, restricted to +, -, unary -, * with at
// most one unknown-dependent factor, and / by a non-zero constant (the
// linear fast path). It returns the
// assembled A*x = b system, or ok=false if any equation is not linear in
// this restricted sense, in which case the caller falls back to
// Newton's method.
func linearSystem(eqns []*ast.Eqn, unknowns []string, c *ctx.Context, cfg *config.Config) (a [][]float64, b []float64, ok bool) {
	idx := make(map[string]int, len(unknowns))
	for i, name := range unknowns {
		idx[name] = i
	}
	a = make([][]float64, len(eqns))
	b = make([]float64, len(eqns))
	for i, e := range eqns {
		combined := &ast.BinOp{Op: "-", LHS: e.LHS, RHS: e.RHS}
		form, ok := linearForm(combined, idx, c, cfg)
		if !ok {
			return nil, nil, false
		}
		a[i] = form.coeffs
		b[i] = -form.constant
	}
	return a, b, true
}

func linearForm(node ast.Node, idx map[string]int, c *ctx.Context, cfg *config.Config) (linForm, bool) {
	n := len(idx)
	switch v := node.(type) {
	case *ast.Number:
		f := zeroForm(n)
		f.constant = v.Value
		return f, true
	case *ast.Var:
		if i, isUnknown := idx[v.Name]; isUnknown {
			f := zeroForm(n)
			f.coeffs[i] = 1
			return f, true
		}
		return constantForm(node, idx, c, cfg)
	case *ast.UnaryOp:
		if v.Op != "-" {
			return linForm{}, false
		}
		inner, ok := linearForm(v.Arg, idx, c, cfg)
		if !ok {
			return linForm{}, false
		}
		return scaleForm(inner, -1), true
	case *ast.BinOp:
		switch v.Op {
		case "+":
			l, ok := linearForm(v.LHS, idx, c, cfg)
			if !ok {
				return linForm{}, false
			}
			r, ok := linearForm(v.RHS, idx, c, cfg)
			if !ok {
				return linForm{}, false
			}
			return addForm(l, r), true
		case "-":
			l, ok := linearForm(v.LHS, idx, c, cfg)
			if !ok {
				return linForm{}, false
			}
			r, ok := linearForm(v.RHS, idx, c, cfg)
			if !ok {
				return linForm{}, false
			}
			return subForm(l, r), true
		case "*":
			l, ok := linearForm(v.LHS, idx, c, cfg)
			if !ok {
				return linForm{}, false
			}
			r, ok := linearForm(v.RHS, idx, c, cfg)
			if !ok {
				return linForm{}, false
			}
			switch {
			case l.isConstant():
				return scaleForm(r, l.constant), true
			case r.isConstant():
				return scaleForm(l, r.constant), true
			default:
				return linForm{}, false // product of two unknown-dependent terms: non-linear
			}
		case "/":
			l, ok := linearForm(v.LHS, idx, c, cfg)
			if !ok {
				return linForm{}, false
			}
			r, ok := linearForm(v.RHS, idx, c, cfg)
			if !ok || !r.isConstant() || r.constant == 0 {
				return linForm{}, false
			}
			return scaleForm(l, 1/r.constant), true
		default:
			return linForm{}, false
		}
	default:
		return constantForm(node, idx, c, cfg)
	}
}

// constantForm treats node as a constant with respect to the unknowns,
// provided it contains no reference to any of them; it is evaluated
// directly (e.g. a bound parameter, or a built-in call with no unknown
// arguments).
func constantForm(node ast.Node, idx map[string]int, c *ctx.Context, cfg *config.Config) (linForm, bool) {
	if referencesAny(node, idx) {
		return linForm{}, false
	}
	r, err := eval(node, c, cfg, 0)
	if err != nil || len(r) != 1 {
		return linForm{}, false
	}
	s, ok := r[0].(value.Scalar)
	if !ok {
		return linForm{}, false
	}
	f := zeroForm(len(idx))
	f.constant = float64(s)
	return f, true
}

func referencesAny(node ast.Node, idx map[string]int) bool {
	switch n := node.(type) {
	case *ast.Var:
		_, found := idx[n.Name]
		return found
	case *ast.Number:
		return false
	case *ast.UnaryOp:
		return referencesAny(n.Arg, idx)
	case *ast.BinOp:
		return referencesAny(n.LHS, idx) || referencesAny(n.RHS, idx)
	case *ast.Call:
		for _, arg := range n.Args {
			if referencesAny(arg, idx) {
				return true
			}
		}
		return false
	case *ast.VectorExpr:
		for _, e := range n.Elems {
			if referencesAny(e, idx) {
				return true
			}
		}
		return false
	case *ast.ListExpr:
		for _, e := range n.Elems {
			if referencesAny(e, idx) {
				return true
			}
		}
		return false
	case *ast.MatrixExpr:
		for _, row := range n.Rows {
			for _, e := range row {
				if referencesAny(e, idx) {
					return true
				}
			}
		}
		return false
	case *ast.Eqn:
		return referencesAny(n.LHS, idx) || referencesAny(n.RHS, idx)
	}
	return false
}
