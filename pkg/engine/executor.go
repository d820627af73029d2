package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/planweave/planweave/internal/observability"
	"github.com/planweave/planweave/pkg/tool"
)

// Status is the terminal state of one tool call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusTimeout Status = "timeout"
)

// Call is one unit of work: a tool name, raw arguments, and an optional
// per-call timeout override. Immutable once submitted.
type Call struct {
	ID      string                 `json:"id,omitempty"`
	Tool    string                 `json:"tool"`
	Args    map[string]interface{} `json:"args"`
	Timeout time.Duration          `json:"timeout,omitempty"`
}

// ErrorDetail carries the kind and message of a non-success outcome.
type ErrorDetail struct {
	Kind    tool.FailureKind `json:"kind"`
	Message string           `json:"message"`
}

// Result is the uniform envelope produced exactly once per Call.
type Result struct {
	CallID  string        `json:"call_id"`
	Tool    string        `json:"tool"`
	BatchID string        `json:"batch_id"`
	Status  Status        `json:"status"`
	Payload interface{}   `json:"payload,omitempty"`
	Error   *ErrorDetail  `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
	Retries int           `json:"retries"`
}

// Succeeded reports whether the call completed successfully.
func (r Result) Succeeded() bool { return r.Status == StatusSuccess }

// PayloadNormalizer converts raw tool output into the uniform payload shape.
// The executor applies it to every successful outcome before building the
// result envelope.
type PayloadNormalizer interface {
	Normalize(raw interface{}) interface{}
}

// Config bounds the executor's concurrency, time, and retry budgets.
type Config struct {
	MaxConcurrency int
	DefaultTimeout time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
	BackoffCap     time.Duration
}

// DefaultConfig returns the executor defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		DefaultTimeout: 30 * time.Second,
		MaxRetries:     2,
		BackoffBase:    500 * time.Millisecond,
		BackoffCap:     8 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = d.MaxConcurrency
	}
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = d.DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = d.BackoffBase
	}
	if c.BackoffCap == 0 {
		c.BackoffCap = d.BackoffCap
	}
	return c
}

// Executor drives concurrent invocation of tool calls against a registry,
// applying validation, timeout, and retry policy.
type Executor struct {
	registry   *tool.Registry
	cfg        Config
	sem        *semaphore.Weighted
	normalizer PayloadNormalizer
	logger     zerolog.Logger
}

// ExecutorOption configures optional executor collaborators.
type ExecutorOption func(*Executor)

// WithNormalizer sets the payload normalizer applied to successful outputs.
func WithNormalizer(n PayloadNormalizer) ExecutorOption {
	return func(e *Executor) { e.normalizer = n }
}

// New creates an executor. Misconfiguration fails here, never inside
// ExecuteBatch.
func New(registry *tool.Registry, cfg Config, logger zerolog.Logger, opts ...ExecutorOption) (*Executor, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	cfg = cfg.withDefaults()
	if cfg.MaxConcurrency < 1 {
		return nil, fmt.Errorf("max concurrency must be positive, got %d", cfg.MaxConcurrency)
	}
	if cfg.BackoffCap < cfg.BackoffBase {
		return nil, fmt.Errorf("backoff cap %v below base %v", cfg.BackoffCap, cfg.BackoffBase)
	}

	observability.EnsureRegistered()

	e := &Executor{
		registry: registry,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the executor's effective configuration.
func (e *Executor) Config() Config { return e.cfg }

// ExecuteBatch runs every call concurrently under the configured bounds and
// returns exactly len(calls) results in submission order, regardless of
// completion order. Per-call failures are represented in their result, never
// as a Go error.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []Call, ec *tool.ExecutionContext) []Result {
	if ec == nil {
		ec = tool.NewExecutionContext(ctx)
	}

	start := time.Now()
	e.logger.Debug().
		Str("batch_id", ec.BatchID()).
		Int("calls", len(calls)).
		Msg("Batch execution started")

	results := make([]Result, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		if call.ID == "" {
			call.ID = newCallID()
		}
		wg.Add(1)
		go func(idx int, c Call) {
			defer wg.Done()
			results[idx] = e.executeCall(c, ec)
		}(i, call)
	}
	wg.Wait()

	observability.RecordBatch(len(calls), time.Since(start))
	e.logger.Debug().
		Str("batch_id", ec.BatchID()).
		Dur("duration", time.Since(start)).
		Msg("Batch execution completed")

	return results
}

// executeCall runs the full per-call pipeline: lookup, validation, slot
// acquisition, invocation under deadline, and sequential retries.
func (e *Executor) executeCall(call Call, ec *tool.ExecutionContext) Result {
	start := time.Now()

	_, impl, err := e.registry.Lookup(call.Tool)
	if err != nil {
		return e.finish(call, ec, Result{
			Status: StatusFailure,
			Error:  &ErrorDetail{Kind: tool.KindNotFound, Message: err.Error()},
		}, start)
	}

	// Validation failures resolve immediately: no slot, no retry attempt.
	args, err := impl.Validate(call.Args)
	if err != nil {
		return e.finish(call, ec, Result{
			Status: StatusFailure,
			Error:  &ErrorDetail{Kind: tool.KindValidation, Message: err.Error()},
		}, start)
	}

	// Excess calls queue here until a slot frees; batch cancellation
	// releases waiters promptly.
	if err := e.sem.Acquire(ec.Context(), 1); err != nil {
		return e.finish(call, ec, e.cancelledResult(ec, 0), start)
	}
	observability.SlotAcquired()
	defer func() {
		e.sem.Release(1)
		observability.SlotReleased()
	}()

	deadline := time.Now().Add(e.effectiveTimeout(call, ec))

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.cfg.BackoffBase
	bo.MaxInterval = e.cfg.BackoffCap

	for attempt := 0; ; attempt++ {
		out, err := e.invokeOnce(impl, args, ec, deadline)
		if err == nil {
			if e.normalizer != nil {
				out = e.normalizer.Normalize(out)
			}
			return e.finish(call, ec, Result{
				Status:  StatusSuccess,
				Payload: out,
				Retries: attempt,
			}, start)
		}

		// Batch-level cancellation or deadline wins over everything else.
		if ec.Cancelled() {
			return e.finish(call, ec, e.cancelledResult(ec, attempt), start)
		}

		// The call's own deadline expired mid-invocation. A deadline error
		// surfacing while budget remains came from a dependency inside the
		// tool and is treated as transient instead.
		deadlineErr := errors.Is(err, context.DeadlineExceeded)
		if deadlineErr && !time.Now().Before(deadline) {
			return e.finish(call, ec, Result{
				Status:  StatusTimeout,
				Error:   &ErrorDetail{Kind: tool.KindTimeout, Message: "invocation exceeded its effective timeout"},
				Retries: attempt,
			}, start)
		}

		retryable := tool.IsRetryable(err) || deadlineErr
		if !retryable || attempt >= e.cfg.MaxRetries {
			retries := attempt
			if retries > e.cfg.MaxRetries {
				retries = e.cfg.MaxRetries
			}
			return e.finish(call, ec, Result{
				Status:  StatusFailure,
				Error:   &ErrorDetail{Kind: tool.Classify(err), Message: err.Error()},
				Retries: retries,
			}, start)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return e.finish(call, ec, Result{
				Status:  StatusTimeout,
				Error:   &ErrorDetail{Kind: tool.KindTimeout, Message: "retry budget exhausted by call deadline"},
				Retries: attempt,
			}, start)
		}

		delay := bo.NextBackOff()
		if delay > remaining {
			delay = remaining
		}

		observability.RecordToolRetry(call.Tool)
		e.logger.Debug().
			Str("batch_id", ec.BatchID()).
			Str("tool", call.Tool).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Err(err).
			Msg("Retrying after transient failure")

		select {
		case <-time.After(delay):
		case <-ec.Context().Done():
			return e.finish(call, ec, e.cancelledResult(ec, attempt), start)
		}
	}
}

// invokeOnce runs the implementation in its own goroutine under the call
// deadline. On expiry the goroutine is abandoned and its eventual output
// discarded; cooperative implementations observe the cancelled context.
func (e *Executor) invokeOnce(impl tool.Implementation, args map[string]interface{}, ec *tool.ExecutionContext, deadline time.Time) (interface{}, error) {
	invCtx, cancel := context.WithDeadline(ec.Context(), deadline)
	defer cancel()

	resultCh := make(chan interface{}, 1)
	errCh := make(chan error, 1)

	go func() {
		out, err := impl.Invoke(invCtx, args, ec)
		if err != nil {
			errCh <- err
		} else {
			resultCh <- out
		}
	}()

	select {
	case out := <-resultCh:
		return out, nil
	case err := <-errCh:
		return nil, err
	case <-invCtx.Done():
		return nil, invCtx.Err()
	}
}

// effectiveTimeout is min(call override, batch deadline remaining, default).
func (e *Executor) effectiveTimeout(call Call, ec *tool.ExecutionContext) time.Duration {
	timeout := e.cfg.DefaultTimeout
	if call.Timeout > 0 && call.Timeout < timeout {
		timeout = call.Timeout
	}
	if dl, ok := ec.Deadline(); ok {
		if remaining := time.Until(dl); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// cancelledResult distinguishes a caller cancel from a batch deadline.
func (e *Executor) cancelledResult(ec *tool.ExecutionContext, retries int) Result {
	if errors.Is(ec.Context().Err(), context.DeadlineExceeded) {
		return Result{
			Status:  StatusTimeout,
			Error:   &ErrorDetail{Kind: tool.KindTimeout, Message: "batch deadline exhausted"},
			Retries: retries,
		}
	}
	return Result{
		Status:  StatusFailure,
		Error:   &ErrorDetail{Kind: tool.KindCancelled, Message: "batch cancelled"},
		Retries: retries,
	}
}

// finish stamps identity and timing onto a result and records telemetry.
func (e *Executor) finish(call Call, ec *tool.ExecutionContext, r Result, start time.Time) Result {
	r.CallID = call.ID
	r.Tool = call.Tool
	r.BatchID = ec.BatchID()
	r.Elapsed = time.Since(start)

	observability.RecordToolExecution(call.Tool, string(r.Status), r.Elapsed)

	evt := e.logger.Debug()
	if r.Status != StatusSuccess {
		evt = e.logger.Warn()
	}
	evt.Str("batch_id", r.BatchID).
		Str("call_id", r.CallID).
		Str("tool", r.Tool).
		Str("status", string(r.Status)).
		Int("retries", r.Retries).
		Dur("elapsed", r.Elapsed).
		Msg("Tool call resolved")

	return r
}

func newCallID() string {
	return gonanoid.Must()
}
