// Package errs defines the error taxonomy shared by the parser, evaluator,
// and solver, and the panic/recover convention used to unwind a failing
// evaluation back to its public entry point.
//
// The convention mirrors ivy's value.Errorf/recover pattern: deep in the
// call stack, a function calls Errorf, which panics; a defer near the API
// boundary calls Recover to turn that panic back into a normal error
// return. Anything else that panics is allowed to keep propagating. Most
// errors here are raised via New and a plain return instead, since most
// call sites already have an (result, error) signature to return through;
// Errorf is reserved for checks like the recursion-depth cap in
// eval.evalUserCall, which fire from an arbitrary stack depth and would
// otherwise need a distinct error return threaded through every
// intervening frame.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one taxonomy entry.
type Kind int

const (
	_ Kind = iota

	// Parse errors.
	UnexpectedToken
	UnbalancedBracket
	EmptyContainer
	RaggedMatrix
	MisplacedEquals

	// Eval errors. UnknownOperator never arises from text the parser
	// itself produced (it only ever emits one of value.Binary's eight
	// operator strings); it fires when a caller hands eval.Evaluate an
	// *ast.BinOp built by hand with some other Op.
	UnknownOperator
	UnknownIdentifier
	ArityMismatch
	TypeMismatch
	DimensionMismatch
	IndexOutOfRange
	DivisionByZero
	DomainError
	NonFiniteResult
	Recursion
	Explosion

	// Solve errors.
	NoSolution
	InfiniteSolutions
	Inconsistent
)

var kindNames = map[Kind]string{
	UnexpectedToken:   "UnexpectedToken",
	UnbalancedBracket: "UnbalancedBracket",
	EmptyContainer:    "EmptyContainer",
	RaggedMatrix:      "RaggedMatrix",
	MisplacedEquals:   "MisplacedEquals",
	UnknownOperator:   "UnknownOperator",

	UnknownIdentifier: "UnknownIdentifier",
	ArityMismatch:     "ArityMismatch",
	TypeMismatch:      "TypeMismatch",
	DimensionMismatch: "DimensionMismatch",
	IndexOutOfRange:   "IndexOutOfRange",
	DivisionByZero:    "DivisionByZero",
	DomainError:       "DomainError",
	NonFiniteResult:   "NonFiniteResult",
	Recursion:         "Recursion",
	Explosion:         "Explosion",

	NoSolution:        "NoSolution",
	InfiniteSolutions: "InfiniteSolutions",
	Inconsistent:      "Inconsistent",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is the concrete error type carried through the taxonomy. Pos is a
// byte offset into the original source text, or -1 when not meaningful
// (e.g. most eval and solve errors, which have no source position once
// the AST has been built).
type Error struct {
	Kind Kind
	Pos  int
	msg  string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("mathexpr: %s at byte %d: %s", e.Kind, e.Pos, e.msg)
	}
	return fmt.Sprintf("mathexpr: %s: %s", e.Kind, e.msg)
}

// New builds an *Error without panicking; useful when an error must be
// returned rather than thrown, e.g. from the solver's per-seed handling.
func New(kind Kind, pos int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, msg: fmt.Sprintf(format, args...)}
}

// Errorf panics with a stack-carrying wrap of New(kind, pos, ...). Callers
// at or near the API boundary must defer Recover to convert this back into
// a returned error.
func Errorf(kind Kind, pos int, format string, args ...interface{}) {
	panic(errors.WithStack(New(kind, pos, format, args...)))
}

// NoPos is used in place of a byte offset when a Kind is raised outside of
// parsing, where no source position is meaningful.
const NoPos = -1

// Recover must be deferred by any function that is the outermost frame of
// an evaluation (eval.Evaluate, eval.EvaluateEqDiagnostics, and the
// QuickEval and Solve wrappers). If the
// goroutine is unwinding from an Errorf panic, *errp is set to that error
// and the panic is stopped. Any other panic is re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok {
		var e *Error
		if errors.As(err, &e) {
			*errp = e
			return
		}
	}
	panic(r)
}

// Is reports whether err (or something it wraps) is a *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}
