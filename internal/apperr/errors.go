// Package apperr defines the error taxonomy spec.md §7 requires: input
// malformed, store unavailable, empty generation bucket, and an internal
// catch-all, each carrying the failing operation and the underlying cause.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a matchd error for status-code mapping in internal/apiserver.
type Kind string

const (
	// KindInvalidInput: malformed query, rejected before normalization.
	KindInvalidInput Kind = "invalid_input"
	// KindStoreUnavailable: the reference store could not be reached.
	KindStoreUnavailable Kind = "store_unavailable"
	// KindEmptyBucket: the generation bucket held zero rows (distinct from
	// an empty result after filtering/threshold).
	KindEmptyBucket Kind = "empty_bucket"
	// KindInternal: anything else.
	KindInternal Kind = "internal"
)

// Error carries a Kind, the failing operation, and the underlying cause,
// in the same shape as the teacher's IndexingError/ParseError.
type Error struct {
	Kind       Kind
	Op         string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap supports errors.Is/errors.As against the underlying cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Wrap creates a new *Error with the given kind, operation, and cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Underlying: err}
}

// New creates a new *Error whose underlying cause is a plain error
// carrying msg.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Underlying: fmt.Errorf("%s", msg)}
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, defaulting
// to KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
