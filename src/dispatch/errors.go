package dispatch

import (
	"errors"
	"fmt"
)

// ErrAttemptTimeout marks attempts that failed by exceeding their deadline.
var ErrAttemptTimeout = errors.New("attempt timed out")

// AttemptError records a single failed attempt: which provider slot and
// model were in play and what went wrong.
type AttemptError struct {
	Provider ProviderID
	Model    string
	Err      error
	Timeout  bool
}

// Error implements the error interface.
func (e *AttemptError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("provider %d (%s): %v: %v", e.Provider, e.Model, ErrAttemptTimeout, e.Err)
	}
	return fmt.Sprintf("provider %d (%s): %v", e.Provider, e.Model, e.Err)
}

// Unwrap returns the underlying error.
func (e *AttemptError) Unwrap() error {
	return e.Err
}

// Is matches ErrAttemptTimeout for timed-out attempts.
func (e *AttemptError) Is(target error) bool {
	return target == ErrAttemptTimeout && e.Timeout
}

// ExhaustedRetriesError is returned when every attempt in a dispatch failed.
// It carries the last observed attempt error.
type ExhaustedRetriesError struct {
	Attempts int
	LastErr  error
}

// Error implements the error interface.
func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("all providers failed after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap returns the last attempt error.
func (e *ExhaustedRetriesError) Unwrap() error {
	return e.LastErr
}
