package pkg

// Sentinel errors for the protoplan packages.
// These errors can be tested using errors.Is for reliable error checking.

import (
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
type Error []error

// ErrParse is returned when parsing a prototype source file fails.
//
// This error should be wrapped with the underlying syntax error
// to preserve the error chain and positional information.
var ErrParse = MakeErrorf("parse error")

// ErrDecode is returned when converting a parsed value tree into a typed
// domain record fails.
//
// This error should be wrapped with the underlying conversion error,
// which names the offending field or index path.
var ErrDecode = MakeErrorf("decode error")

// ErrReadInput is returned when reading a prototype source file fails.
//
// This error should be wrapped with the underlying I/O error
// to preserve the error chain.
var ErrReadInput = MakeErrorf("failed to read input")

// ErrInvalidGoal is returned when a production goal argument does not take
// the form "product=rate".
var ErrInvalidGoal = MakeErrorf("invalid goal")

// ErrLoadConstants is returned when the planning constants table cannot be
// read or parsed.
var ErrLoadConstants = MakeErrorf("failed to load constants")

// ErrUnknownCategory is returned when a recipe names a crafting category
// that has no module limit in the constants table.
var ErrUnknownCategory = MakeErrorf("unknown crafting category")

// ErrUnknownModule is returned when the constants table has no effect
// entry for a module the planner wants to apply.
var ErrUnknownModule = MakeErrorf("unknown module")

// ErrPlanDiverged is returned when demand propagation fails to terminate,
// which indicates a cycle of recipes that amplifies its own demand.
var ErrPlanDiverged = MakeErrorf("production plan does not converge")

// ErrUnknownProduct is returned when a production goal names a product that
// appears nowhere in the recipe graph.
//
// This error should be wrapped with candidate product name suggestions.
var ErrUnknownProduct = MakeErrorf("unknown product")

// ErrInvalidFormat is returned when an invalid output format is specified.
//
// This error should be wrapped with additional context that specifies the
// invalid format along with a list of valid formats.
var ErrInvalidFormat = MakeErrorf("invalid format")

// ErrYAMLMarshal is returned when YAML marshaling fails.
//
// This error should be wrapped with the underlying marshaling error
// to preserve the error chain.
var ErrYAMLMarshal = MakeErrorf("YAML marshal error")

// ErrJSONMarshal is returned when JSON marshaling fails.
//
// This error should be wrapped with the underlying marshaling error
// to preserve the error chain.
var ErrJSONMarshal = MakeErrorf("JSON marshal error")

// ErrFilterCompile is returned when a recipe filter expression fails to
// compile.
var ErrFilterCompile = MakeErrorf("filter compilation failed")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the error chain, separated by ": ", from innermost to outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
func (e Error) Wrap(err ...error) Error {
	return append(e, err...)
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(e, fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors recursively unwraps an error chain and returns a slice
// containing all errors in the chain, starting from the innermost error.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
