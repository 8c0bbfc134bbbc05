// Package solver implements the equation solver: multi-start
// Newton-Raphson with a numerical Jacobian, and a linear fast path via
// Gaussian elimination.
//
// Grounded on ivy's Newton-iteration style in value/sqrt.go and
// value/power.go (a fixed-point loop with a "terminate" convergence
// check), generalized from one scalar unknown to a vector of unknowns
// and from a hardwired sqrt residual to a caller-supplied residual
// function. solver depends only on config and errs, not on eval or ast:
// the evaluator builds the residual closure and hands it to Solve, so
// there is no import cycle between eval and solver.
package solver

import (
	"math"
	"sort"

	"github.com/anthropics/mathexpr/config"
	"github.com/anthropics/mathexpr/errs"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// System is a root-finding problem: N unknowns, M residuals, evaluated by
// R at a trial point. M may exceed N (over-determined, solved by
// least-squares Newton) or equal N (plain Newton).
type System struct {
	M, N int
	R    func(x []float64) ([]float64, error)
}

// Diagnostics reports which multi-start seeds converged, for callers
// that want visibility without changing the primary Results return
// value (mirrors ivy's trace.go optional-observability pattern).
type Diagnostics struct {
	SeedsTried int
	Converged  int
	Failures   error // aggregated via multierror; nil if every seed converged
}

// seedValues is the fixed multi-start grid.
var seedValues = []float64{-100, -50, -10, -1, 0, 1, 10, 50, 100}

// Solve finds the distinct real solutions of sys.R(x) = 0 that
// multi-start Newton-Raphson reaches from the fixed seed grid; a root that
// no seed converges to is not returned. Solutions are deduplicated and
// sorted by first component ascending, then by subsequent components.
func Solve(sys System, cfg *config.Config) ([][]float64, error) {
	sols, _, err := SolveWithDiagnostics(sys, cfg)
	return sols, err
}

// SolveWithDiagnostics is Solve plus a Diagnostics side channel
// recording per-seed convergence outcomes.
func SolveWithDiagnostics(sys System, cfg *config.Config) ([][]float64, *Diagnostics, error) {
	log := cfg.Logger()
	seeds := seedGrid(sys.N)
	p := float64(cfg.PrecisionExponent())
	tol := math.Pow(10, -p)
	dedupTol := math.Pow(10, -(p - 2))

	diag := &Diagnostics{SeedsTried: len(seeds)}
	var found [][]float64
	var failures error

	for _, seed := range seeds {
		x, err := newton(sys, seed, tol, cfg.MaxNewtonIterations())
		if err != nil {
			failures = multierror.Append(failures, err)
			continue
		}
		diag.Converged++
		if !hasDuplicate(found, x, dedupTol) {
			found = append(found, x)
		}
	}
	diag.Failures = failures
	if cfg.Debug("solver") {
		log.Debug("solver multi-start complete",
			zap.Int("seeds_tried", diag.SeedsTried),
			zap.Int("converged", diag.Converged),
			zap.Int("distinct_solutions", len(found)),
		)
	}

	if len(found) == 0 {
		return nil, diag, errs.New(errs.NoSolution, errs.NoPos, "no seed converged for %d-unknown system", sys.N)
	}
	sort.Slice(found, func(i, j int) bool { return lexLess(found[i], found[j]) })
	return found, diag, nil
}

func lexLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func hasDuplicate(found [][]float64, x []float64, tol float64) bool {
	for _, f := range found {
		diff := make([]float64, len(x))
		for i := range x {
			diff[i] = f[i] - x[i]
		}
		if floats.Norm(diff, math.Inf(1)) <= tol {
			return true
		}
	}
	return false
}

// seedGrid returns the cartesian product of seedValues taken n times, in
// leftmost-varies-slowest order, matching the evaluator's own cartesian
// expansion rule for the sake of deterministic, reproducible seed
// ordering.
func seedGrid(n int) [][]float64 {
	total := 1
	for i := 0; i < n; i++ {
		total *= len(seedValues)
	}
	grid := make([][]float64, total)
	for i := range grid {
		point := make([]float64, n)
		rem := i
		for j := n - 1; j >= 0; j-- {
			point[j] = seedValues[rem%len(seedValues)]
			rem /= len(seedValues)
		}
		grid[i] = point
	}
	return grid
}

const jacobianStep = 1e-6

// newton runs one Newton-Raphson search from seed, returning the
// converged point or an error describing why this seed failed (not a
// global failure — the caller continues with the remaining seeds).
func newton(sys System, seed []float64, tol float64, maxIters int) ([]float64, error) {
	x := append([]float64(nil), seed...)
	for iter := 0; iter < maxIters; iter++ {
		r, err := sys.R(x)
		if err != nil {
			return nil, err
		}
		if floats.Norm(r, math.Inf(1)) <= tol {
			return x, nil
		}
		j, err := jacobian(sys, x, r)
		if err != nil {
			return nil, err
		}
		delta, err := newtonStep(j, r, sys.M, sys.N)
		if err != nil {
			return nil, err
		}
		for i := range x {
			x[i] -= delta[i]
		}
		if !allFinite(x) {
			return nil, errs.New(errs.NonFiniteResult, errs.NoPos, "newton iterate diverged to a non-finite value")
		}
	}
	r, err := sys.R(x)
	if err == nil && floats.Norm(r, math.Inf(1)) <= tol {
		return x, nil
	}
	return nil, errs.New(errs.NoSolution, errs.NoPos, "newton did not converge from seed %v within %d iterations", seed, maxIters)
}

// jacobian computes the MxN numerical Jacobian of sys.R at x via central
// difference, reusing the residual r0 already evaluated at x for the
// one-sided fallback when a perturbed evaluation fails.
func jacobian(sys System, x, r0 []float64) (*mat.Dense, error) {
	j := mat.NewDense(sys.M, sys.N, nil)
	for col := 0; col < sys.N; col++ {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[col] += jacobianStep
		xm[col] -= jacobianStep
		rp, errp := sys.R(xp)
		rm, errm := sys.R(xm)
		switch {
		case errp == nil && errm == nil:
			for row := 0; row < sys.M; row++ {
				j.Set(row, col, (rp[row]-rm[row])/(2*jacobianStep))
			}
		case errp == nil:
			for row := 0; row < sys.M; row++ {
				j.Set(row, col, (rp[row]-r0[row])/jacobianStep)
			}
		case errm == nil:
			for row := 0; row < sys.M; row++ {
				j.Set(row, col, (r0[row]-rm[row])/jacobianStep)
			}
		default:
			return nil, errp
		}
	}
	return j, nil
}

// newtonStep solves for the update delta given the Jacobian and residual:
// plain J*delta = r for a square system, or the normal equations
// JtJ*delta = Jt*r for an over-determined one.
func newtonStep(j *mat.Dense, r []float64, m, n int) ([]float64, error) {
	rv := mat.NewVecDense(m, r)
	if m == n {
		aug := toAugmented(j, rv, n)
		rank := gaussJordan(aug, n, n)
		if rank < n {
			return nil, errs.New(errs.NoSolution, errs.NoPos, "singular Jacobian")
		}
		return extractSolution(aug, n), nil
	}

	var jt mat.Dense
	jt.CloneFrom(j.T())
	var jtj mat.Dense
	jtj.Mul(&jt, j)
	var jtr mat.Dense
	jtr.Mul(&jt, rv)

	jtrVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		jtrVec.SetVec(i, jtr.At(i, 0))
	}
	aug := toAugmented(&jtj, jtrVec, n)
	rank := gaussJordan(aug, n, n)
	if rank < n {
		return nil, errs.New(errs.NoSolution, errs.NoPos, "singular normal-equation matrix")
	}
	return extractSolution(aug, n), nil
}

func allFinite(x []float64) bool {
	for _, f := range x {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// SolveLinear assembles and solves A*x = b by Gaussian elimination with
// partial pivoting: the linear fast path. a has m rows of n coefficients
// each; b has m entries.
func SolveLinear(a [][]float64, b []float64) ([]float64, error) {
	m := len(a)
	if m == 0 {
		return nil, errs.New(errs.NoSolution, errs.NoPos, "empty linear system")
	}
	n := len(a[0])
	aug := make([][]float64, m)
	for i, row := range a {
		aug[i] = make([]float64, n+1)
		copy(aug[i], row)
		aug[i][n] = b[i]
	}
	rank := gaussJordan(aug, m, n)

	if rank < n {
		for r := rank; r < m; r++ {
			if math.Abs(aug[r][n]) > 1e-9 {
				return nil, errs.New(errs.Inconsistent, errs.NoPos, "linear system has no solution")
			}
		}
		return nil, errs.New(errs.InfiniteSolutions, errs.NoPos, "linear system is rank deficient (rank %d of %d unknowns) and consistent", rank, n)
	}
	for r := n; r < m; r++ {
		if math.Abs(aug[r][n]) > 1e-9 {
			return nil, errs.New(errs.Inconsistent, errs.NoPos, "linear system is over-determined and inconsistent")
		}
	}
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = aug[i][n]
	}
	return x, nil
}

// gaussJordan reduces the m x (n+1) augmented matrix aug to reduced row
// echelon form in place using partial pivoting (row swaps only, no
// column pivoting, so pivot column i corresponds to unknown i). It
// returns the rank (number of pivots found).
func gaussJordan(aug [][]float64, m, n int) int {
	const pivotEps = 1e-12
	row := 0
	for col := 0; col < n && row < m; col++ {
		piv := row
		best := math.Abs(aug[row][col])
		for r := row + 1; r < m; r++ {
			if v := math.Abs(aug[r][col]); v > best {
				best = v
				piv = r
			}
		}
		if best < pivotEps {
			continue
		}
		aug[row], aug[piv] = aug[piv], aug[row]
		pv := aug[row][col]
		for c := col; c <= n; c++ {
			aug[row][c] /= pv
		}
		for r := 0; r < m; r++ {
			if r == row {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[row][c]
			}
		}
		row++
	}
	return row
}

func toAugmented(a *mat.Dense, b *mat.VecDense, n int) [][]float64 {
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, n+1)
		for j := 0; j < n; j++ {
			aug[i][j] = a.At(i, j)
		}
		aug[i][n] = b.AtVec(i)
	}
	return aug
}

func extractSolution(aug [][]float64, n int) []float64 {
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = aug[i][n]
	}
	return x
}
