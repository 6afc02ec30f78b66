// Package apperr defines the error kinds surfaced to API callers.
//
// Every error a store or the circulation workflow returns on purpose wraps
// one of the sentinel kinds, so transports can map it with errors.Is:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//
// Anything that does not match a kind is an unexpected fault.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced book, borrower or borrowing is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the request cannot be satisfied in the current state,
	// e.g. no copies of a book are available.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates malformed input: bad dates, missing fields, bad ranges.
	ErrValidation = errors.New("validation failed")

	// ErrConstraintViolation indicates a uniqueness or foreign-key failure
	// reported by the persistence layer.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Error carries a caller-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches the error against its kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

func Validation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// ConstraintViolation wraps a driver error that broke a schema constraint.
func ConstraintViolation(message string, err error) error {
	return &Error{Kind: ErrConstraintViolation, Message: message, Err: err}
}

// Message returns the caller-facing message of err, or fallback when err
// does not carry one.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
