// Package errs classifies domain failures for stable status mapping at the HTTP edge.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an error with its failure class.
type Kind uint8

const (
	// Validation indicates missing or malformed input.
	Validation Kind = iota + 1

	// Conflict indicates a uniqueness violation (e.g. username taken).
	Conflict

	// NotFound indicates the requested entity does not exist.
	NotFound

	// Protected indicates an attempt to modify the reserved admin account.
	Protected

	// Unauthorized indicates bad credentials or a missing/invalid token.
	Unauthorized

	// Forbidden indicates an authenticated caller lacking the required role
	// or validation state.
	Forbidden

	// Storage indicates an I/O or corruption failure in the durable store.
	Storage
)

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case Validation, Conflict, Protected:
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

// Expose reports whether the error message is safe to return to the caller.
// Storage details stay server-side.
func (k Kind) Expose() bool {
	return k != Storage && k != 0
}

// Error is a classified failure with a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error with a static message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Errorf returns a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error, keeping it available via errors.Unwrap.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, or Storage for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Storage
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
