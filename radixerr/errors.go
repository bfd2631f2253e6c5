// Package radixerr defines the failure taxonomy for radix-canon.
//
// Every error surfaced by the CLI maps to exactly one FailureClass, which
// determines the exit code and lets conformance checks verify failure
// classification, not just "did it fail."
package radixerr

import (
	"errors"
	"fmt"

	"github.com/lattice-substrate/radix-canon/radixfloat"
)

// FailureClass is a stable failure category.
type FailureClass string

const (
	InvalidBase   FailureClass = "INVALID_BASE"
	InvalidValue  FailureClass = "INVALID_VALUE"
	BoundExceeded FailureClass = "BOUND_EXCEEDED"
	CLIUsage      FailureClass = "CLI_USAGE"
	Config        FailureClass = "CONFIG"
	InternalIO    FailureClass = "INTERNAL_IO"
	InternalError FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all radix-canon failures.
type Error struct {
	Class FailureClass
	// Index is the zero-based position of the offending input value, or -1.
	Index   int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	if e.Index >= 0 {
		return fmt.Sprintf("radixerr: %s at input %d: %s", e.Class, e.Index, msg)
	}
	return fmt.Sprintf("radixerr: %s: %s", e.Class, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, index int, message string) *Error {
	return &Error{Class: class, Index: index, Message: message}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, index int, message string, cause error) *Error {
	return &Error{Class: class, Index: index, Message: message, Cause: cause}
}

// Classify returns the failure class of err. A bare invalid-base error from
// radixfloat classifies as InvalidBase; unclassified errors are internal.
func Classify(err error) FailureClass {
	var e *Error
	if errors.As(err, &e) {
		return e.Class
	}
	if errors.Is(err, radixfloat.ErrInvalidBase) {
		return InvalidBase
	}
	return InternalError
}
