package value

import (
	"math"

	"github.com/anthropics/mathexpr/errs"
	"gonum.org/v1/gonum/floats"
)

// Func1 applies a built-in unary function to v and returns its Results.
// sqrt is the only multi-valued case: for a
// positive scalar it returns {+root, -root} (the "sqrt duality" that
// propagates through '&' and quadratic solutions); sqrt(0) returns the
// single value 0.
func Func1(name string, v Value) (Results, error) {
	switch name {
	case "sin", "cos", "tan", "arcsin", "arccos", "arctan", "ln":
		s, ok := v.(Scalar)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, errs.NoPos, "%s expects a scalar argument, got %s", name, v.Kind())
		}
		r, err := scalarFunc(name, float64(s))
		if err != nil {
			return nil, err
		}
		return Results{Scalar(r)}, nil
	case "sqrt":
		s, ok := v.(Scalar)
		if !ok {
			return nil, errs.New(errs.TypeMismatch, errs.NoPos, "sqrt expects a scalar argument, got %s", v.Kind())
		}
		x := float64(s)
		if x < 0 {
			return nil, errs.New(errs.DomainError, errs.NoPos, "sqrt of negative number %g", x)
		}
		root := math.Sqrt(x)
		if root == 0 {
			return Results{Scalar(0)}, nil
		}
		return Results{Scalar(root), Scalar(-root)}, nil
	case "abs":
		switch x := v.(type) {
		case Scalar:
			return Results{Scalar(math.Abs(float64(x)))}, nil
		case Vector:
			return Results{Scalar(floats.Norm(x, 2))}, nil
		case *Matrix:
			return Results{Scalar(floats.Norm(x.data, 2))}, nil
		}
	}
	return nil, errs.New(errs.UnknownIdentifier, errs.NoPos, "unknown function %q", name)
}

func scalarFunc(name string, x float64) (float64, error) {
	switch name {
	case "sin":
		return math.Sin(x), nil
	case "cos":
		return math.Cos(x), nil
	case "tan":
		return math.Tan(x), nil
	case "arcsin":
		if x < -1 || x > 1 {
			return 0, errs.New(errs.DomainError, errs.NoPos, "arcsin domain is [-1, 1], got %g", x)
		}
		return math.Asin(x), nil
	case "arccos":
		if x < -1 || x > 1 {
			return 0, errs.New(errs.DomainError, errs.NoPos, "arccos domain is [-1, 1], got %g", x)
		}
		return math.Acos(x), nil
	case "arctan":
		return math.Atan(x), nil
	case "ln":
		if x <= 0 {
			return 0, errs.New(errs.DomainError, errs.NoPos, "ln of non-positive number %g", x)
		}
		return math.Log(x), nil
	}
	return 0, errs.New(errs.UnknownIdentifier, errs.NoPos, "unknown function %q", name)
}

// Root computes the principal real nth root of a. An even root of a
// negative number is a domain error, matching the treatment of sqrt.
func Root(a, n Value) (Value, error) {
	av, ok := a.(Scalar)
	if !ok {
		return nil, errs.New(errs.TypeMismatch, errs.NoPos, "root expects scalar arguments, got %s", a.Kind())
	}
	nv, ok := n.(Scalar)
	if !ok {
		return nil, errs.New(errs.TypeMismatch, errs.NoPos, "root expects scalar arguments, got %s", n.Kind())
	}
	base, degree := float64(av), float64(nv)
	if degree == 0 {
		return nil, errs.New(errs.DomainError, errs.NoPos, "root degree must be non-zero")
	}
	if base < 0 {
		intDegree := math.Trunc(degree)
		if degree != intDegree || int64(intDegree)%2 == 0 {
			return nil, errs.New(errs.DomainError, errs.NoPos, "root(%g, %g): negative base requires an odd integer degree", base, degree)
		}
		return Scalar(-math.Pow(-base, 1/degree)), nil
	}
	return Scalar(math.Pow(base, 1/degree)), nil
}
