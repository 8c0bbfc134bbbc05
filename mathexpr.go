// Package mathexpr is the top-level convenience surface: Parse, Evaluate,
// QuickEval, Solve, Round, and Context constructors, combining the
// parse/eval/solver/ctx packages the way ivy.go combines scan/parse/exec
// for its REPL, minus the REPL loop itself (that lives in cmd/mathexpr).
package mathexpr

import (
	"github.com/anthropics/mathexpr/ast"
	"github.com/anthropics/mathexpr/config"
	"github.com/anthropics/mathexpr/ctx"
	"github.com/anthropics/mathexpr/errs"
	"github.com/anthropics/mathexpr/eval"
	"github.com/anthropics/mathexpr/parse"
	"github.com/anthropics/mathexpr/solver"
	"github.com/anthropics/mathexpr/value"
)

// Context, Function and Config are re-exported so callers need only
// import this one package for everyday use.
type (
	Context = ctx.Context
	Function = ctx.Function
	Config   = config.Config
	Option   = config.Option
	Results  = value.Results
	Value    = value.Value
)

// NewConfig builds a Config from the given build options.
func NewConfig(opts ...Option) *Config { return config.New(opts...) }

// NewContext returns an empty Context.
func NewContext() *Context { return ctx.New() }

// ContextFromVariables returns a Context seeded with the given variables.
func ContextFromVariables(vars map[string]Value) *Context { return ctx.FromVariables(vars) }

// ContextFromFunctions returns a Context seeded with the given user
// functions.
func ContextFromFunctions(funcs []*Function) *Context { return ctx.FromFunctions(funcs) }

// CombineContexts merges two Contexts, with b's bindings taking
// priority over a's.
func CombineContexts(a, b *Context) *Context { return ctx.Combine(a, b) }

// Parse tokenizes and parses text into an AST.
func Parse(text string, cfg *Config) (ast.Node, error) {
	return parse.Parse(text, cfg)
}

// Evaluate reduces an already-parsed AST to a Results under ctx and cfg.
func Evaluate(node ast.Node, c *Context, cfg *Config) (Results, error) {
	return eval.Evaluate(node, c, cfg)
}

// EvaluateEqDiagnostics evaluates node, which must be an eq(...) call, and
// additionally returns the solver.Diagnostics describing which multi-start
// seeds converged (nil if the linear fast path was used instead).
func EvaluateEqDiagnostics(node ast.Node, c *Context, cfg *Config) (Results, *solver.Diagnostics, error) {
	return eval.EvaluateEqDiagnostics(node, c, cfg)
}

// QuickEval combines Parse and Evaluate.
func QuickEval(text string, c *Context, cfg *Config) (res Results, err error) {
	defer errs.Recover(&err)
	node, err := Parse(text, cfg)
	if err != nil {
		return nil, err
	}
	return Evaluate(node, c, cfg)
}

// Residual is one equation's left- and right-hand side, already parsed.
// Solve treats it as lhs - rhs = 0.
type Residual struct {
	LHS, RHS ast.Node
}

// Solve finds the real solutions of the given system of residuals in the
// given unknowns: the linear fast path's unique solution, or the roots
// that multi-start Newton reaches from its fixed seed grid (roots no seed
// converges to are not returned). It is the direct solver access point
// ("solve(residuals, unknowns, ctx) -> Results"), bypassing eq(...)'s
// parsing step for callers that already have ASTs in hand.
func Solve(residuals []Residual, unknowns []string, c *Context, cfg *Config) (res Results, err error) {
	defer errs.Recover(&err)
	if len(residuals) == 0 || len(unknowns) == 0 {
		return nil, errs.New(errs.ArityMismatch, errs.NoPos, "solve requires at least one residual and one unknown")
	}
	eqns := make([]*ast.Eqn, len(residuals))
	for i, r := range residuals {
		eqns[i] = &ast.Eqn{LHS: r.LHS, RHS: r.RHS}
	}
	args := make([]ast.Node, 0, len(eqns)+len(unknowns))
	for _, e := range eqns {
		args = append(args, e)
	}
	for _, u := range unknowns {
		args = append(args, &ast.Var{Name: u})
	}
	call := &ast.Call{Name: "eq", Args: args}
	return eval.Evaluate(call, c, cfg)
}

// Round rounds every scalar component of every Value in r to the given
// number of decimal places.
func Round(r Results, decimals int) Results {
	return value.RoundResults(r, decimals)
}
