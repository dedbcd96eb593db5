// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Error kinds. Every error surfaced to the user wraps one of these.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrIO         = errors.New("storage i/o failed")
	ErrConflict   = errors.New("already exists")

	// Validation errors.
	ErrEmptyGradebook = fmt.Errorf("%w: gradebook is empty", ErrValidation)
	ErrInvalidRule    = fmt.Errorf("%w: invalid autofill rule", ErrValidation)
	ErrInvalidScale   = fmt.Errorf("%w: invalid grade scale", ErrValidation)
	ErrNoGroups       = fmt.Errorf("%w: catalog has no groups", ErrValidation)

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the user-facing text for err, falling back to err.Error().
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return errors.Is(err, ErrIO)
}
