package agent

import (
	"context"
	"fmt"
)

// LLMProvider is the inference-client boundary. The engine ships the
// registry's function schemas out through it and receives tool-call requests
// back.
type LLMProvider interface {
	// Call makes one model API call.
	Call(ctx context.Context, request LLMRequest) (*LLMResponse, error)

	// Provider returns the provider name.
	Provider() string
}

// NewProvider creates an LLM provider by name.
func NewProvider(name, apiKey string) (LLMProvider, error) {
	switch name {
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
