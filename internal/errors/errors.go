// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure produced by the API client carries a machine-readable Kind so the
// command layer can decide how to present it, while the raw service payload stays
// available for diagnostics.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// so callers can use the standard errors.Is and errors.As helpers through E.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation indicates a required argument was empty or out of range.
	// It is raised before any network call.
	Validation Kind = "validation"
	// Unauthorized indicates the service answered 401, or that a protected call
	// was attempted without a stored token.
	Unauthorized Kind = "unauthorized"
	// RequestFailed indicates any other non-success HTTP status.
	RequestFailed Kind = "request_failed"
	// DecodeError indicates a success status with a body that could not be decoded.
	DecodeError Kind = "decode_error"
	// Transport indicates the request never produced an HTTP response.
	Transport Kind = "transport"
)

// ErrNotLoggedIn is wrapped by the Unauthorized error returned when a protected
// call is attempted while no token is held.
var ErrNotLoggedIn = stderrors.New("not logged in")

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code, zero when no response was received.
	Status int
	// Body is the raw response payload, kept for diagnostic display.
	Body string
	Err  error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying error.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Validationf builds a Validation error.
func Validationf(format string, args ...any) *E {
	return &E{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of the first E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
