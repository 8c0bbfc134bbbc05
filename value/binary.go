package value

import (
	"math"

	"github.com/anthropics/mathexpr/errs"
	"gonum.org/v1/gonum/mat"
)

// Binary applies the named binary operator to a and b and returns the
// (possibly multi-valued, for "&") Results, following the per-kind
// operand table. It mirrors the shape of ivy's binary-op dispatch
// (value/binary.go) but is organized as a plain type switch rather than
// a per-kind function table, since there are only three kinds here
// instead of ivy's six numeric towers.
//
// op is not re-validated by any caller in this module: the parser only
// ever constructs one of the eight operator strings below, but
// eval.Evaluate also accepts hand-built *ast.BinOp trees from callers
// that skip parsing entirely, so an unrecognized op reaching here is a
// real condition, not dead code guarding against an impossible input.
func Binary(op string, a, b Value) (Results, error) {
	switch op {
	case "+":
		v, err := addSub(a, b, false)
		return single(v, err)
	case "-":
		v, err := addSub(a, b, true)
		return single(v, err)
	case "*":
		v, err := mul(a, b)
		return single(v, err)
	case "/":
		v, err := div(a, b)
		return single(v, err)
	case "#":
		v, err := cross(a, b)
		return single(v, err)
	case "^":
		v, err := power(a, b)
		return single(v, err)
	case "?":
		v, err := index(a, b)
		return single(v, err)
	case "&":
		return plusMinus(a, b)
	}
	return nil, errs.New(errs.UnknownOperator, errs.NoPos, "unknown operator %q", op)
}

func single(v Value, err error) (Results, error) {
	if err != nil {
		return nil, err
	}
	return Results{v}, nil
}

func plusMinus(a, b Value) (Results, error) {
	plus, err := addSub(a, b, false)
	if err != nil {
		return nil, err
	}
	minus, err := addSub(a, b, true)
	if err != nil {
		return nil, err
	}
	return Results{plus, minus}, nil
}

func addSub(a, b Value, sub bool) (Value, error) {
	f := func(x, y float64) float64 {
		if sub {
			return x - y
		}
		return x + y
	}
	switch av := a.(type) {
	case Scalar:
		if bv, ok := b.(Scalar); ok {
			return Scalar(f(float64(av), float64(bv))), nil
		}
	case Vector:
		if bv, ok := b.(Vector); ok {
			if len(av) != len(bv) {
				return nil, errs.New(errs.DimensionMismatch, errs.NoPos, "vector dimensions %d and %d differ", len(av), len(bv))
			}
			out := make(Vector, len(av))
			for i := range av {
				out[i] = f(av[i], bv[i])
			}
			return out, nil
		}
	case *Matrix:
		if bv, ok := b.(*Matrix); ok {
			if av.rows != bv.rows || av.cols != bv.cols {
				return nil, errs.New(errs.DimensionMismatch, errs.NoPos, "matrix shapes %dx%d and %dx%d differ", av.rows, av.cols, bv.rows, bv.cols)
			}
			data := make([]float64, len(av.data))
			for i := range av.data {
				data[i] = f(av.data[i], bv.data[i])
			}
			return &Matrix{rows: av.rows, cols: av.cols, data: data}, nil
		}
	}
	return nil, typeMismatch(opName(sub), a, b)
}

func opName(sub bool) string {
	if sub {
		return "-"
	}
	return "+"
}

func mul(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Scalar:
		switch bv := b.(type) {
		case Scalar:
			return Scalar(float64(av) * float64(bv)), nil
		case Vector:
			return scaleVector(bv, float64(av)), nil
		case *Matrix:
			return scaleMatrix(bv, float64(av)), nil
		}
	case Vector:
		switch bv := b.(type) {
		case Scalar:
			return scaleVector(av, float64(bv)), nil
		case Vector:
			return dot(av, bv)
		}
	case *Matrix:
		switch bv := b.(type) {
		case Scalar:
			return scaleMatrix(av, float64(bv)), nil
		case Vector:
			return matVec(av, bv)
		case *Matrix:
			return matMat(av, bv)
		}
	}
	return nil, typeMismatch("*", a, b)
}

func scaleVector(v Vector, s float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x * s
	}
	return out
}

func scaleMatrix(m *Matrix, s float64) *Matrix {
	data := make([]float64, len(m.data))
	for i, x := range m.data {
		data[i] = x * s
	}
	return &Matrix{rows: m.rows, cols: m.cols, data: data}
}

func dot(a, b Vector) (Value, error) {
	if len(a) != len(b) {
		return nil, errs.New(errs.DimensionMismatch, errs.NoPos, "dot product dimensions %d and %d differ", len(a), len(b))
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return Scalar(sum), nil
}

func matVec(m *Matrix, v Vector) (Value, error) {
	if m.cols != len(v) {
		return nil, errs.New(errs.DimensionMismatch, errs.NoPos, "matrix has %d columns, vector has %d elements", m.cols, len(v))
	}
	out := make(Vector, m.rows)
	for r := 0; r < m.rows; r++ {
		var sum float64
		for c := 0; c < m.cols; c++ {
			sum += m.At(r, c) * v[c]
		}
		out[r] = sum
	}
	return out, nil
}

func matMat(a, b *Matrix) (Value, error) {
	if a.cols != b.rows {
		return nil, errs.New(errs.DimensionMismatch, errs.NoPos, "inner dimensions %d and %d differ", a.cols, b.rows)
	}
	ad := mat.NewDense(a.rows, a.cols, append([]float64(nil), a.data...))
	bd := mat.NewDense(b.rows, b.cols, append([]float64(nil), b.data...))
	var cd mat.Dense
	cd.Mul(ad, bd)
	data := make([]float64, a.rows*b.cols)
	for r := 0; r < a.rows; r++ {
		for c := 0; c < b.cols; c++ {
			data[r*b.cols+c] = cd.At(r, c)
		}
	}
	return &Matrix{rows: a.rows, cols: b.cols, data: data}, nil
}

func div(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Scalar:
		if bv, ok := b.(Scalar); ok {
			if float64(bv) == 0 {
				return nil, errs.New(errs.DivisionByZero, errs.NoPos, "division by zero")
			}
			return Scalar(float64(av) / float64(bv)), nil
		}
	case Vector:
		if bv, ok := b.(Scalar); ok {
			if float64(bv) == 0 {
				return nil, errs.New(errs.DivisionByZero, errs.NoPos, "division by zero")
			}
			return scaleVector(av, 1/float64(bv)), nil
		}
	case *Matrix:
		if bv, ok := b.(Scalar); ok {
			if float64(bv) == 0 {
				return nil, errs.New(errs.DivisionByZero, errs.NoPos, "division by zero")
			}
			return scaleMatrix(av, 1/float64(bv)), nil
		}
	}
	return nil, typeMismatch("/", a, b)
}

// cross computes the 3-dimensional cross product. Vectors of dimension
// less than 3 are zero-padded.
func cross(a, b Value) (Value, error) {
	av, ok := a.(Vector)
	if !ok {
		return nil, typeMismatch("#", a, b)
	}
	bv, ok := b.(Vector)
	if !ok {
		return nil, typeMismatch("#", a, b)
	}
	if len(av) > 3 || len(bv) > 3 {
		return nil, errs.New(errs.DimensionMismatch, errs.NoPos, "cross product requires dimension <= 3, got %d and %d", len(av), len(bv))
	}
	a3, b3 := pad3(av), pad3(bv)
	return Vector{
		a3[1]*b3[2] - a3[2]*b3[1],
		a3[2]*b3[0] - a3[0]*b3[2],
		a3[0]*b3[1] - a3[1]*b3[0],
	}, nil
}

func pad3(v Vector) [3]float64 {
	var out [3]float64
	copy(out[:], v)
	return out
}

func power(a, b Value) (Value, error) {
	av, ok := a.(Scalar)
	if !ok {
		return nil, typeMismatch("^", a, b)
	}
	bv, ok := b.(Scalar)
	if !ok {
		return nil, typeMismatch("^", a, b)
	}
	base, exp := float64(av), float64(bv)
	if base < 0 && exp != math.Trunc(exp) {
		return nil, errs.New(errs.DomainError, errs.NoPos, "%g ^ %g: negative base with fractional exponent", base, exp)
	}
	result := math.Pow(base, exp)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil, errs.New(errs.NonFiniteResult, errs.NoPos, "%g ^ %g produced a non-finite result", base, exp)
	}
	return Scalar(result), nil
}

// index implements the 1-based "?" operator: vector ? scalar -> scalar.
func index(a, b Value) (Value, error) {
	av, ok := a.(Vector)
	if !ok {
		return nil, typeMismatch("?", a, b)
	}
	bv, ok := b.(Scalar)
	if !ok {
		return nil, typeMismatch("?", a, b)
	}
	i := float64(bv)
	if i != math.Trunc(i) {
		return nil, errs.New(errs.IndexOutOfRange, errs.NoPos, "index %g is not an integer", i)
	}
	idx := int(i)
	if idx < 1 || idx > len(av) {
		return nil, errs.New(errs.IndexOutOfRange, errs.NoPos, "index %d out of range [1, %d]", idx, len(av))
	}
	return Scalar(av[idx-1]), nil
}

func typeMismatch(op string, a, b Value) error {
	return errs.New(errs.TypeMismatch, errs.NoPos, "operator %q not defined for %s and %s", op, a.Kind(), b.Kind())
}

// Neg negates every component of v.
func Neg(v Value) (Value, error) {
	switch x := v.(type) {
	case Scalar:
		return Scalar(-float64(x)), nil
	case Vector:
		out := make(Vector, len(x))
		for i, f := range x {
			out[i] = -f
		}
		return out, nil
	case *Matrix:
		data := make([]float64, len(x.data))
		for i, f := range x.data {
			data[i] = -f
		}
		return &Matrix{rows: x.rows, cols: x.cols, data: data}, nil
	}
	return nil, errs.New(errs.TypeMismatch, errs.NoPos, "unary - not defined for %s", v.Kind())
}
