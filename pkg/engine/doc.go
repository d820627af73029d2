// Package engine executes batches of tool calls against a registry with
// bounded concurrency, per-call timeouts, and retry-with-backoff.
//
// Invariants:
// - A batch of N calls always yields exactly N results, in submission order.
// - At most one invocation of a given call is live at any instant; retries
//   are sequential, never parallel duplicates.
// - Validation and lookup failures never consume a concurrency slot or a
//   retry attempt.
// - Per-call failures are represented in the result envelope; ExecuteBatch
//   itself never fails for a single call.
//
// Usage:
//
//	exec, _ := engine.New(reg, engine.DefaultConfig(), logger)
//	ec := tool.NewExecutionContext(ctx)
//	results := exec.ExecuteBatch(ctx, []engine.Call{{Tool: "search", Args: map[string]interface{}{"query": "x"}}}, ec)
package engine
