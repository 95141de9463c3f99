// Package common defines shared constants and sentinel errors used across
// Postboard components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal    = errors.New("internal error")
	ErrorPersistence = errors.New("persistence error")

	// Input and state errors.
	ErrorValidation = errors.New("validation error")
	ErrorConflict   = errors.New("conflict")

	// Auth errors.
	ErrorAuthentication = errors.New("authentication error")
	ErrorAuthorization  = errors.New("authorization error")
	ErrInvalidToken     = errors.New("invalid token")

	// Outbound delivery errors (email).
	ErrorDelivery = errors.New("delivery error")
)

// Error pairs one of the sentinel kinds above with a user-facing message.
// errors.Is still matches the kind, and the API boundary can surface the
// message without parsing error strings.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError wraps kind with a user-facing message.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// UserMessage extracts the user-facing message from err if it carries one,
// or returns fallback.
func UserMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
