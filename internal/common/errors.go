// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Ledger errors.
	ErrNotFound    = errors.New("not found")
	ErrStoreWrite  = errors.New("ledger write failed")
	ErrStoreAccess = errors.New("ledger unavailable")

	// Completion engine errors.
	ErrQuotaExceeded   = errors.New("completion quota exceeded")
	ErrEngineExhausted = errors.New("all completion credentials exhausted")
	ErrEngineDisabled  = errors.New("completion engine not configured")
	ErrMalformedOutput = errors.New("malformed completion output")

	// Classification errors.
	ErrAmountMissing = errors.New("no amount found in message")

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

// IsQuotaError reports whether the error carries a quota/rate-limit
// signature from the completion engine. Only these errors trigger
// credential cooldown and rotation; anything else (auth, malformed
// request) propagates immediately since retrying with another credential
// cannot fix it.
func IsQuotaError(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
