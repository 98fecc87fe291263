// Package apperr defines the error taxonomy shared by services and the
// HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindSignatureMismatch
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindSignatureMismatch:
		return "signature_mismatch"
	default:
		return "internal"
	}
}

// Violation is one failed field rule
type Violation struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Message  string `json:"msg"`
	Location string `json:"location"`
}

// FieldViolation returns a body-field violation for path
func FieldViolation(path, message string) Violation {
	return Violation{Type: "field", Path: path, Message: message, Location: "body"}
}

// Error is an application error with a user-facing message
type Error struct {
	Kind       Kind
	Message    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a validation error carrying the violations
func Validation(violations ...Violation) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Violations: violations}
}

// NotFound returns a not-found error with a fixed message
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict returns a conflict error
func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// SignatureMismatch returns the payment-signature rejection
func SignatureMismatch() *Error {
	return &Error{Kind: KindSignatureMismatch, Message: "Invalid payment signature"}
}

// Internal wraps err as an opaque server fault
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Something went wrong!", Err: err}
}

// KindOf returns the Kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// From returns err as an *Error, wrapping foreign errors as Internal
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
