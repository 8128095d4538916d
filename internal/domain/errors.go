package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a malformed query request (rejected before any external call).
	ErrInvalidInput = errors.New("invalid input")
	// ErrTranslationFailed signals a translator timeout or non-parseable output. Retryable.
	ErrTranslationFailed = errors.New("translation failed")
	// ErrRejected signals a candidate draft that failed whitelist validation.
	ErrRejected = errors.New("rejected by validator")
	// ErrStoreUnavailable signals a record store failure or timeout.
	ErrStoreUnavailable = errors.New("store error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)

// RejectionError wraps ErrRejected with the specific validation failure.
// Index is the offending filter position, -1 for draft-level fields.
type RejectionError struct {
	Index  int
	Field  string
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: filter[%d]: %s", ErrRejected.Error(), e.Index, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrRejected.Error(), e.Reason)
}

func (e *RejectionError) Unwrap() error { return ErrRejected }

// Reject creates a draft-level rejection.
func Reject(field, format string, args ...any) error {
	return &RejectionError{Index: -1, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// RejectFilter creates a rejection for the filter at position i.
func RejectFilter(i int, field, format string, args ...any) error {
	return &RejectionError{Index: i, Field: field, Reason: fmt.Sprintf(format, args...)}
}
