// Package apperr is the error taxonomy shared by handlers: every failure a
// client can observe is one of these kinds.
package apperr

import "net/http"

type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	AccessDenied
	ValidationFailed
	NotFound
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case AccessDenied:
		return "access_denied"
	case ValidationFailed:
		return "validation_failed"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	}
	return "internal"
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case AccessDenied:
		return http.StatusForbidden
	case ValidationFailed:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field messages for ValidationFailed.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: ValidationFailed, Message: message, Fields: fields}
}

func Unauthorized() *Error { return New(Unauthenticated, "Unauthorized") }

func Denied() *Error { return New(AccessDenied, "Access denied") }
