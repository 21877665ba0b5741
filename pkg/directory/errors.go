package directory

import (
	"errors"
	"fmt"
)

// Common errors returned by the directory client and its callers.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrNoIdentityStore is returned when no identity store instance can be resolved.
	ErrNoIdentityStore = errors.New("no identity store instance found")

	// ErrNotFound is returned when an identifier resolves to nothing.
	ErrNotFound = errors.New("not found")

	// ErrProtocol is returned when the server never terminates a pagination loop.
	ErrProtocol = errors.New("pagination did not terminate")
)

// ErrorClass represents a classification of directory API errors.
type ErrorClass string

const (
	// ErrorClassClient represents caller errors (validation, missing resource, access denied).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents server-side failures.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassThrottle represents throttling / request-rate errors.
	ErrorClassThrottle ErrorClass = "throttle"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// DirectoryError represents a directory API error with its classification.
type DirectoryError struct {
	Operation  string
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *DirectoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("directory %s error (%s): %s: %v",
			e.ErrorClass, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("directory %s error (%s): %s",
		e.ErrorClass, e.Operation, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		// Validation and not-found errors never succeed on retry
		return false
	case ErrorClassServer:
		return true
	case ErrorClassThrottle:
		return true
	case ErrorClassNetwork:
		return true
	default:
		return false
	}
}
