package agent

import (
	"github.com/planweave/planweave/pkg/tool"
)

// Message represents a message in the conversation.
type Message struct {
	Role       string                 `json:"role"`
	Content    string                 `json:"content"`
	ToolCalls  []ToolCall             `json:"tool_calls,omitempty"`
	ToolCallID string                 `json:"tool_call_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// LLMRequest contains the request parameters for one model call.
type LLMRequest struct {
	Model        string
	Messages     []Message
	Tools        []tool.FunctionSchema
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// LLMResponse contains the model's reply.
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// SessionResult is the outcome of one planning session.
type SessionResult struct {
	Response  string                 `json:"response"`
	ToolCalls []ToolCall             `json:"tool_calls,omitempty"`
	Artifacts map[string]interface{} `json:"artifacts,omitempty"`
	Usage     *TokenUsage            `json:"usage,omitempty"`
}
