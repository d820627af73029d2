package config

import (
	"fmt"
	"time"
)

// Config is the main planweave configuration.
type Config struct {
	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Executor
	Executor ExecutorConfig `json:"executor" mapstructure:"executor"`

	// Argument validation policy
	Validation ValidationConfig `json:"validation" mapstructure:"validation"`

	// Output formatting
	Output OutputConfig `json:"output" mapstructure:"output"`

	// LLM providers, in failover priority order
	Providers []ProviderConfig `json:"providers" mapstructure:"providers"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// ExecutorConfig bounds concurrent tool execution.
type ExecutorConfig struct {
	MaxConcurrency   int `json:"max_concurrency" mapstructure:"max_concurrency"`
	DefaultTimeoutMS int `json:"default_timeout_ms" mapstructure:"default_timeout_ms"`
	MaxRetries       int `json:"max_retries" mapstructure:"max_retries"`
	BackoffBaseMS    int `json:"backoff_base_ms" mapstructure:"backoff_base_ms"`
	BackoffCapMS     int `json:"backoff_cap_ms" mapstructure:"backoff_cap_ms"`
}

// Validation modes.
const (
	ValidationStrict  = "strict"
	ValidationLenient = "lenient"
)

// ValidationConfig controls how tool arguments are checked.
type ValidationConfig struct {
	// Mode is "strict" (unknown argument keys are rejected) or "lenient"
	// (unknown keys are dropped).
	Mode string `json:"mode" mapstructure:"mode"`
}

// Lenient reports whether unknown argument keys should be dropped.
func (c ValidationConfig) Lenient() bool { return c.Mode == ValidationLenient }

// OutputConfig controls result rendering.
type OutputConfig struct {
	CondensedLimit int `json:"condensed_limit" mapstructure:"condensed_limit"`
}

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	Name   string `json:"name" mapstructure:"name"` // "openai", "anthropic"
	APIKey string `json:"api_key" mapstructure:"api_key"`
	Model  string `json:"model" mapstructure:"model"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
		Executor: ExecutorConfig{
			MaxConcurrency:   4,
			DefaultTimeoutMS: 30000,
			MaxRetries:       2,
			BackoffBaseMS:    500,
			BackoffCapMS:     8000,
		},
		Validation: ValidationConfig{
			Mode: ValidationStrict,
		},
		Output: OutputConfig{
			CondensedLimit: 10 * 1024,
		},
	}
}

// DefaultTimeout returns the executor default timeout as a duration.
func (c ExecutorConfig) DefaultTimeout() time.Duration {
	return time.Duration(c.DefaultTimeoutMS) * time.Millisecond
}

// BackoffBase returns the retry backoff base as a duration.
func (c ExecutorConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseMS) * time.Millisecond
}

// BackoffCap returns the retry backoff cap as a duration.
func (c ExecutorConfig) BackoffCap() time.Duration {
	return time.Duration(c.BackoffCapMS) * time.Millisecond
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Executor.MaxConcurrency < 1 {
		return fmt.Errorf("executor.max_concurrency must be positive, got %d", c.Executor.MaxConcurrency)
	}
	if c.Executor.DefaultTimeoutMS <= 0 {
		return fmt.Errorf("executor.default_timeout_ms must be positive, got %d", c.Executor.DefaultTimeoutMS)
	}
	if c.Executor.MaxRetries < 0 {
		return fmt.Errorf("executor.max_retries cannot be negative, got %d", c.Executor.MaxRetries)
	}
	if c.Executor.BackoffCapMS < c.Executor.BackoffBaseMS {
		return fmt.Errorf("executor.backoff_cap_ms %d below backoff_base_ms %d",
			c.Executor.BackoffCapMS, c.Executor.BackoffBaseMS)
	}
	switch c.Validation.Mode {
	case ValidationStrict, ValidationLenient:
	default:
		return fmt.Errorf("validation.mode must be strict or lenient, got %q", c.Validation.Mode)
	}
	if c.Output.CondensedLimit <= 0 {
		return fmt.Errorf("output.condensed_limit must be positive, got %d", c.Output.CondensedLimit)
	}
	for i, p := range c.Providers {
		switch p.Name {
		case "openai", "anthropic":
		default:
			return fmt.Errorf("providers[%d].name must be openai or anthropic, got %q", i, p.Name)
		}
		if p.APIKey == "" {
			return fmt.Errorf("providers[%d].api_key is required", i)
		}
	}
	return nil
}
