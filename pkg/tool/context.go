package tool

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ExecutionContext carries per-batch state: a correlation id, a cancellation
// signal, and a shared key-value store tools use to pass intermediate results
// to tools invoked later in the same session. It is owned by the executor for
// the duration of one batch and discarded afterwards.
type ExecutionContext struct {
	batchID string
	ctx     context.Context
	cancel  context.CancelFunc

	mu    sync.RWMutex
	store map[string]interface{}
}

// NewExecutionContext derives a per-batch context from parent. The parent's
// deadline, if any, bounds every call in the batch.
func NewExecutionContext(parent context.Context) *ExecutionContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &ExecutionContext{
		batchID: uuid.New().String(),
		ctx:     ctx,
		cancel:  cancel,
		store:   make(map[string]interface{}),
	}
}

// BatchID returns the correlation id shared by every call in the batch.
func (ec *ExecutionContext) BatchID() string { return ec.batchID }

// Context returns the batch-scoped context carrying deadline and cancellation.
func (ec *ExecutionContext) Context() context.Context { return ec.ctx }

// Cancel signals every pending and in-flight call in the batch to stop.
func (ec *ExecutionContext) Cancel() { ec.cancel() }

// Cancelled reports whether the batch has been cancelled or timed out.
// Long-running handlers must poll this at reasonable intervals.
func (ec *ExecutionContext) Cancelled() bool {
	return ec.ctx.Err() != nil
}

// Deadline returns the batch deadline, if one was set on the parent context.
func (ec *ExecutionContext) Deadline() (time.Time, bool) {
	return ec.ctx.Deadline()
}

// Get reads a value from the shared store.
func (ec *ExecutionContext) Get(key string) (interface{}, bool) {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	v, ok := ec.store[key]
	return v, ok
}

// Set writes a value to the shared store. Writes from concurrently running
// tools are unordered relative to each other; each write is atomic and the
// last writer wins.
func (ec *ExecutionContext) Set(key string, value interface{}) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.store[key] = value
}

// Keys returns the store's keys in sorted order.
func (ec *ExecutionContext) Keys() []string {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	keys := make([]string, 0, len(ec.store))
	for k := range ec.store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot copies the store for callers that outlive the batch.
func (ec *ExecutionContext) Snapshot() map[string]interface{} {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	out := make(map[string]interface{}, len(ec.store))
	for k, v := range ec.store {
		out[k] = v
	}
	return out
}
