// Package serrors provides semantic application errors. A Kind classifies an
// error (not found, conflict, ...) so transport layers can map it to a status
// code without inspecting error strings. Kinds and wrapped causes both
// participate in errors.Is/As matching.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a sentinel classifying an error. Kinds are comparable and matched
// with errors.Is through the Error wrapper.
type Kind string

// Error implements the error interface.
func (k Kind) Error() string { return string(k) }

// Kinds used across the application.
const (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound Kind = "NOT_FOUND"
	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized Kind = "UNAUTHORIZED"
	// ErrForbidden indicates the caller is authenticated but not allowed to perform the operation.
	ErrForbidden Kind = "FORBIDDEN"
	// ErrBadRequest indicates the client sent invalid data.
	ErrBadRequest Kind = "BAD_REQUEST"
	// ErrConflict indicates a state conflict, e.g. the resource already exists.
	ErrConflict Kind = "CONFLICT"
	// ErrInternal indicates an internal server error.
	ErrInternal Kind = "INTERNAL"
)

// Error is a semantic error: a kind, an optional wrapped cause and an
// optional message.
//
// errors.Is(err, target) matches when target equals the kind or matches the
// wrapped cause. String form is "<msg>: <cause>", falling back to whichever
// part is present, and finally to the kind.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With builds a semantic error carrying the kind and a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap builds a semantic error that wraps a concrete cause.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.kind.Error()
	}
}

// Unwrap returns the wrapped cause, letting errors.Is/As traverse the chain.
func (e *Error) Unwrap() error { return e.err }

// Is matches against the kind sentinel as well as the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// Kind returns the kind sentinel associated with this error.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// KindOf extracts the Kind from anywhere in err's chain. It returns
// ErrInternal when err carries no semantic kind.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind()
	}

	return ErrInternal
}
