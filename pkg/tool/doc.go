// Package tool defines the descriptor, capability contract, registry, and
// per-batch execution context for invocable tools.
//
// Invariants:
// - Tool names are unique; duplicate registration fails unless replace is set.
// - Descriptors are immutable after registration.
// - A required parameter never carries a default.
// - Validation reports every violation found, not just the first.
//
// Usage:
//
//	reg := tool.NewRegistry()
//	t := tool.MustNew(tool.Descriptor{
//		Name:        "echo",
//		Description: "Echo input",
//		Parameters:  []tool.Parameter{{Name: "text", Type: tool.TypeString, Description: "text", Required: true}},
//		Capability:  tool.Capability{Sync: true},
//	}, func(ctx context.Context, args map[string]interface{}, ec *tool.ExecutionContext) (interface{}, error) {
//		return args["text"], nil
//	})
//	_ = reg.RegisterTool(t)
package tool
