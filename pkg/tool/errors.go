package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registry operations.
var (
	ErrNotFound      = errors.New("tool not found")
	ErrDuplicateName = errors.New("tool already registered")
)

// FailureKind classifies why an invocation did not succeed.
type FailureKind string

const (
	KindValidation FailureKind = "validation"
	KindNotFound   FailureKind = "not_found"
	KindTransient  FailureKind = "transient"
	KindPermanent  FailureKind = "permanent"
	KindTimeout    FailureKind = "timeout"
	KindCancelled  FailureKind = "cancelled"
)

// ValidationError reports every violation found while validating arguments,
// not just the first, so the caller can surface all problems at once.
type ValidationError struct {
	Tool       string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Violations, "; "))
}

// TransientError marks a failure as retryable (rate limit, network blip,
// dependency timeout). The executor retries these per its policy.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err so the executor will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// PermanentError marks a tool-reported logic failure that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the executor surfaces it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Classify maps an invocation error to its failure kind.
func Classify(err error) FailureKind {
	var ve *ValidationError
	var te *TransientError
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &te):
		return KindTransient
	case IsRetryable(err):
		return KindTransient
	default:
		return KindPermanent
	}
}

// IsRetryable reports whether an error should be retried. Explicit wrapping
// wins; otherwise dependency errors are classified by message the same way
// transport errors from LLM providers look in practice.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pe *PermanentError
	var ve *ValidationError
	if errors.As(err, &pe) || errors.As(err, &ve) {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := err.Error()

	// Network errors
	if strings.Contains(msg, "ECONNRESET") || strings.Contains(msg, "ETIMEDOUT") ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") {
		return true
	}

	// Rate limits
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		return true
	}

	// Server errors
	if strings.Contains(msg, "500") || strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") || strings.Contains(msg, "504") {
		return true
	}

	return false
}
