// Package domainerr holds the error kinds shared by the domain services.
// Callers classify an error with errors.Is against one of the kinds below;
// the error text is safe to show to API clients.
package domainerr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Error is a domain error of a given kind with a client-facing message.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// New returns an error of kind with the given message.
func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Newf is like New with a formatted message.
func Newf(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// IsDomain reports whether err belongs to any of the domain kinds.
func IsDomain(err error) bool {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrInsufficientStock, ErrConflict, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
