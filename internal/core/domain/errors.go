package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("session requires username and token")
	ErrValidation      = errors.New("validation failed")
	ErrViewClosed      = errors.New("view closed")
	ErrBusy            = errors.New("operation already in progress")
	ErrNotFound        = errors.New("record not found")
)

// ValidationError carries the user-facing message of a client-side check.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Messenger is implemented by errors that carry a message fit for display.
type Messenger interface {
	UserMessage() string
}

// MessageOf returns the user-facing text for err: the message carried by a
// Messenger or ValidationError in its chain, otherwise fallback.
func MessageOf(err error, fallback string) string {
	var m Messenger
	if errors.As(err, &m) {
		if msg := m.UserMessage(); msg != "" {
			return msg
		}
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	return fallback
}
