package domain

import (
	"context"
	"errors"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document or artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// out-of-range ratio, an unknown algorithm or an empty corpus.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDependencyUnavailable indicates an external collaborator
	// (abstractive summariser, translation provider) could not be reached.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrTimeout indicates an operation exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrNotImplemented indicates functionality is not wired in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates no normaliser handles a file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Abstractive, hybrid and LLM translation are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// ErrorKind is a stable tag describing the class of a failure.
// Transports map kinds to status codes.
type ErrorKind string

// Error kinds.
const (
	KindNotFound              ErrorKind = "not_found"
	KindInvalidInput          ErrorKind = "invalid_input"
	KindDependencyUnavailable ErrorKind = "dependency_unavailable"
	KindTimeout               ErrorKind = "timeout"
	KindInternal              ErrorKind = "internal"
)

// KindOf classifies err by the domain sentinel it wraps.
// Context deadline errors are reported as timeouts.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedType):
		return KindInvalidInput
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrDependencyUnavailable), errors.Is(err, ErrLLMUnavailable):
		return KindDependencyUnavailable
	default:
		return KindInternal
	}
}

// String returns the string representation.
func (k ErrorKind) String() string {
	return string(k)
}
