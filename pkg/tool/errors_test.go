package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{
			name: "validation error",
			err:  &ValidationError{Tool: "search", Violations: []string{"query is required"}},
			want: KindValidation,
		},
		{
			name: "wrapped not found",
			err:  fmt.Errorf("%w: search", ErrNotFound),
			want: KindNotFound,
		},
		{
			name: "context cancelled",
			err:  context.Canceled,
			want: KindCancelled,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: KindTimeout,
		},
		{
			name: "explicit transient",
			err:  Transient(errors.New("upstream hiccup")),
			want: KindTransient,
		},
		{
			name: "retryable by message",
			err:  errors.New("429 too many requests"),
			want: KindTransient,
		},
		{
			name: "plain error is permanent",
			err:  errors.New("no such file"),
			want: KindPermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "explicit transient", err: Transient(errors.New("blip")), want: true},
		{name: "explicit permanent", err: Permanent(errors.New("bad input")), want: false},
		{name: "permanent wrapping retryable message", err: Permanent(errors.New("rate limit")), want: false},
		{name: "validation error", err: &ValidationError{Tool: "x", Violations: []string{"v"}}, want: false},
		{name: "context cancelled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "connection reset", err: errors.New("read tcp: ECONNRESET"), want: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "rate limit", err: errors.New("rate limit exceeded, retry later"), want: true},
		{name: "server error", err: errors.New("unexpected status 503"), want: true},
		{name: "plain logic error", err: errors.New("document not parseable"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestTransient_NilPassthrough(t *testing.T) {
	assert.Nil(t, Transient(nil))
	assert.Nil(t, Permanent(nil))
}

func TestTransient_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	assert.ErrorIs(t, Transient(inner), inner)
	assert.ErrorIs(t, Permanent(inner), inner)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{
		Tool:       "search",
		Violations: []string{"query is required", "unknown parameter extra"},
	}
	msg := err.Error()
	assert.Contains(t, msg, "search")
	assert.Contains(t, msg, "query is required")
	assert.Contains(t, msg, "unknown parameter extra")
}
