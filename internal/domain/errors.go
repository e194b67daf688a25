package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can pick the right remedy:
// fix the input, re-fetch state, top up, or try again later.
type ErrorKind string

const (
	KindValidation         ErrorKind = "VALIDATION"
	KindUnauthorized       ErrorKind = "UNAUTHORIZED"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindStateConflict      ErrorKind = "STATE_CONFLICT"
	KindInsufficientFunds  ErrorKind = "INSUFFICIENT_FUNDS"
	KindExternalDependency ErrorKind = "EXTERNAL_DEPENDENCY"
	KindInternal           ErrorKind = "INTERNAL"
)

// Error is the typed error every service operation returns on failure.
// The Kind drives the HTTP status mapping; Msg is safe to show to users
// for recoverable kinds.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on a bare kind sentinel, e.g.
// errors.Is(err, &Error{Kind: KindStateConflict}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func ErrValidation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func ErrUnauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

func ErrNotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func ErrStateConflict(format string, args ...any) *Error {
	return &Error{Kind: KindStateConflict, Msg: fmt.Sprintf(format, args...)}
}

func ErrInsufficientFunds(format string, args ...any) *Error {
	return &Error{Kind: KindInsufficientFunds, Msg: fmt.Sprintf(format, args...)}
}

func ErrExternalDependency(msg string, err error) *Error {
	return &Error{Kind: KindExternalDependency, Msg: msg, Err: err}
}

func ErrInternal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the taxonomy kind from any error, defaulting to Internal
// for errors that escaped the service layer untyped.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
