package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/planweave/planweave/internal/observability"
	"github.com/planweave/planweave/internal/tracing"
	"github.com/planweave/planweave/pkg/engine"
	"github.com/planweave/planweave/pkg/result"
	"github.com/planweave/planweave/pkg/tool"
	"github.com/rs/zerolog"
)

// defaultMaxTurns bounds the tool loop so a model that keeps requesting
// tools cannot spin forever.
const defaultMaxTurns = 10

// Runner drives a planning session: it offers the registry's tool schemas
// to the LLM, executes the tool calls the model requests as batches, and
// feeds the results back until the model produces a final answer.
type Runner struct {
	registry   *tool.Registry
	executor   *engine.Executor
	provider   LLMProvider
	normalizer *result.Normalizer
	logger     zerolog.Logger
	maxTurns   int
}

// RunnerConfig holds runner dependencies.
type RunnerConfig struct {
	Registry   *tool.Registry
	Executor   *engine.Executor
	Provider   LLMProvider
	Normalizer *result.Normalizer
	Logger     zerolog.Logger
	MaxTurns   int
}

// RunParams describes a single session request.
type RunParams struct {
	Prompt       string
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
}

// NewRunner creates a new session runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	observability.EnsureRegistered()

	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}

	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = result.NewNormalizer()
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	return &Runner{
		registry:   cfg.Registry,
		executor:   cfg.Executor,
		provider:   cfg.Provider,
		normalizer: normalizer,
		logger:     cfg.Logger,
		maxTurns:   maxTurns,
	}, nil
}

// Run executes a planning session until the model answers without
// requesting tools, or the turn limit is reached.
func (r *Runner) Run(ctx context.Context, params RunParams) (SessionResult, error) {
	if params.Prompt == "" {
		return SessionResult{}, fmt.Errorf("prompt cannot be empty")
	}
	if params.Model == "" {
		return SessionResult{}, fmt.Errorf("model cannot be empty")
	}
	if tracing.TraceIDFromContext(ctx) == "" {
		ctx = tracing.WithTraceID(ctx, tracing.NewTraceID())
	}

	ec := tool.NewExecutionContext(ctx)
	defer ec.Cancel()

	logger := r.logger.With().
		Str("trace_id", tracing.TraceIDFromContext(ctx)).
		Str("batch_id", ec.BatchID()).
		Logger()

	messages := []Message{{Role: "user", Content: params.Prompt}}
	schemas := r.registry.ExportSchemas()

	allCalls := []ToolCall{}
	usage := &TokenUsage{}
	start := time.Now()

	for turn := 0; turn < r.maxTurns; turn++ {
		select {
		case <-ctx.Done():
			return SessionResult{}, ctx.Err()
		default:
		}

		response, err := r.provider.Call(ctx, LLMRequest{
			Model:        params.Model,
			Messages:     messages,
			Tools:        schemas,
			Temperature:  params.Temperature,
			MaxTokens:    params.MaxTokens,
			SystemPrompt: params.SystemPrompt,
		})
		if err != nil {
			return SessionResult{}, fmt.Errorf("provider call failed: %w", err)
		}
		if response.Usage != nil {
			usage.InputTokens += response.Usage.InputTokens
			usage.OutputTokens += response.Usage.OutputTokens
		}

		if len(response.ToolCalls) == 0 {
			logger.Info().
				Int("turns", turn+1).
				Int("tool_calls", len(allCalls)).
				Dur("elapsed", time.Since(start)).
				Msg("Session complete")
			return SessionResult{
				Response:  response.Content,
				ToolCalls: allCalls,
				Artifacts: ec.Snapshot(),
				Usage:     usage,
			}, nil
		}

		messages = append(messages, Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		calls := make([]engine.Call, len(response.ToolCalls))
		for i, tc := range response.ToolCalls {
			calls[i] = engine.Call{ID: tc.ID, Tool: tc.Name, Args: tc.Arguments}
		}

		results := r.executor.ExecuteBatch(ctx, calls, ec)
		for i, res := range results {
			messages = append(messages, Message{
				Role:       "tool",
				Content:    r.encodeResult(res),
				ToolCallID: response.ToolCalls[i].ID,
			})
		}

		allCalls = append(allCalls, response.ToolCalls...)
	}

	return SessionResult{}, fmt.Errorf("maximum tool turns (%d) exceeded", r.maxTurns)
}

// encodeResult renders a tool result as the JSON envelope handed back to
// the model. Successful payloads keep their canonical shape while they fit
// the condensed budget; oversized outputs are truncated so one tool cannot
// flood the conversation.
func (r *Runner) encodeResult(res engine.Result) string {
	envelope := map[string]interface{}{
		"status": string(res.Status),
	}
	if res.Succeeded() {
		output := r.normalizer.Normalize(res.Payload)
		if text, truncated := r.normalizer.Condense(output); truncated {
			envelope["output"] = text
		} else {
			envelope["output"] = output
		}
	} else if res.Error != nil {
		envelope["error"] = map[string]interface{}{
			"kind":    string(res.Error.Kind),
			"message": res.Error.Message,
		}
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Sprintf(`{"status":"failure","error":{"kind":"permanent","message":%q}}`, err.Error())
	}
	return string(data)
}
