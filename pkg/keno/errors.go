package keno

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during
	// retry backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorKind classifies vendor failures.
type ErrorKind string

const (
	// ErrorKindTransport covers non-success HTTP status, network failures
	// and timeouts.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindApplication covers 2xx responses whose body carries the
	// vendor's errors field.
	ErrorKindApplication ErrorKind = "application"
)

// Error is a vendor failure with its classification.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("keno %s error (status %d): %s: %v",
			e.Kind, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("keno %s error (status %d): %s",
		e.Kind, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var ke *Error
	if errors.As(err, &ke) {
		return ke, true
	}
	return nil, false
}

// retriable reports whether an error is worth another attempt.
// Application errors are deterministic (the vendor decoded our request and
// rejected it), so only transport failures are retried.
func retriable(err error) bool {
	ke, ok := AsError(err)
	if !ok {
		return false
	}
	return ke.Kind == ErrorKindTransport
}
