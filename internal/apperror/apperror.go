// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package apperror defines the error kinds returned to API clients.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Conflict
	InvalidOrExpired
	NotFound
	InvalidCredential
	Unauthorized
	Forbidden
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case InvalidOrExpired:
		return "invalid_or_expired"
	case NotFound:
		return "not_found"
	case InvalidCredential:
		return "invalid_credential"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Status returns the default HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case InvalidInput, Conflict, InvalidOrExpired, InvalidCredential:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure with a message that is safe to show to clients.
type Error struct {
	Internal   error
	Message    string
	Kind       Kind
	StatusCode int
}

// New creates an error of the given kind with the kind's default status.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, StatusCode: kind.Status()}
}

// Wrap creates an Internal error carrying err for logging.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Internal, Message: message, StatusCode: http.StatusInternalServerError, Internal: err}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap exposes the internal error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithStatus returns a copy of e that renders with status.
func (e *Error) WithStatus(status int) *Error {
	cpy := *e
	cpy.StatusCode = status
	return &cpy
}

// WithInternal returns a copy of e carrying err.
func (e *Error) WithInternal(err error) *Error {
	cpy := *e
	cpy.Internal = err
	return &cpy
}

// From converts any error to an *Error, defaulting to Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, http.StatusText(http.StatusInternalServerError))
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
