package tool

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// Handler is the function signature for tool execution. Implementations must
// poll ctx (or the execution context's cancellation flag) during multi-step
// work; the executor abandons handlers that outlive their deadline.
type Handler func(ctx context.Context, args map[string]interface{}, ec *ExecutionContext) (interface{}, error)

// Implementation is the capability contract every tool satisfies. Instances
// are created once at startup and shared by reference across invocations.
type Implementation interface {
	// Validate checks raw arguments against the declared parameters and
	// returns the normalized argument map. A failure is a *ValidationError
	// listing every violation found.
	Validate(raw map[string]interface{}) (map[string]interface{}, error)

	// Invoke performs the tool's domain operation.
	Invoke(ctx context.Context, args map[string]interface{}, ec *ExecutionContext) (interface{}, error)
}

// ValidationMode controls how unknown argument keys are treated.
type ValidationMode int

const (
	// Strict rejects unknown keys.
	Strict ValidationMode = iota
	// Lenient silently drops unknown keys.
	Lenient
)

// Tool pairs a descriptor with a handler and a compiled argument schema.
type Tool struct {
	desc    Descriptor
	handler Handler
	mode    ValidationMode
	schema  *gojsonschema.Schema
}

// Option configures a Tool at construction time.
type Option func(*Tool)

// WithLenientValidation makes the tool drop unknown argument keys instead of
// rejecting them.
func WithLenientValidation() Option {
	return func(t *Tool) { t.mode = Lenient }
}

// New builds a Tool from a descriptor and handler, compiling the argument
// schema once up front.
func New(desc Descriptor, handler Handler, opts ...Option) (*Tool, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tool definition: %w", err)
	}
	if handler == nil {
		return nil, fmt.Errorf("tool handler cannot be nil")
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(desc.JSONSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema for %s: %w", desc.Name, err)
	}

	t := &Tool{
		desc:    desc,
		handler: handler,
		mode:    Strict,
		schema:  schema,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// MustNew is New that panics; for static tool tables built at startup.
func MustNew(desc Descriptor, handler Handler, opts ...Option) *Tool {
	t, err := New(desc, handler, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Descriptor returns a copy of the tool's immutable schema.
func (t *Tool) Descriptor() Descriptor { return t.desc }

// Mode returns the tool's validation mode.
func (t *Tool) Mode() ValidationMode { return t.mode }

// Validate normalizes raw arguments: defaults filled, integers coerced,
// unknown keys rejected (strict) or dropped (lenient), then the compiled
// schema is applied. All violations are collected into one ValidationError.
func (t *Tool) Validate(raw map[string]interface{}) (map[string]interface{}, error) {
	declared := make(map[string]Parameter, len(t.desc.Parameters))
	for _, p := range t.desc.Parameters {
		declared[p.Name] = p
	}

	violations := []string{}
	args := make(map[string]interface{}, len(raw))

	// Unknown-key policy first, before the schema sees the arguments.
	unknown := []string{}
	for key, value := range raw {
		if _, ok := declared[key]; !ok {
			unknown = append(unknown, key)
			continue
		}
		args[key] = value
	}
	if t.mode == Strict && len(unknown) > 0 {
		sort.Strings(unknown)
		for _, key := range unknown {
			violations = append(violations, fmt.Sprintf("unknown parameter %s", key))
		}
	}

	for _, param := range t.desc.Parameters {
		value, present := args[param.Name]
		if !present {
			// Required-parameter violations are reported by the schema below.
			// Defaults are coerced like provided values, so handlers see one
			// type per parameter.
			if !param.Required && param.Default != nil {
				def := param.Default
				if coerced, ok := coerce(param, def); ok {
					def = coerced
				}
				args[param.Name] = def
			}
			continue
		}
		if coerced, ok := coerce(param, value); ok {
			args[param.Name] = coerced
		}
	}

	if result, err := t.schema.Validate(gojsonschema.NewGoLoader(args)); err != nil {
		violations = append(violations, err.Error())
	} else if !result.Valid() {
		for _, resErr := range result.Errors() {
			violations = append(violations, resErr.String())
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Tool: t.desc.Name, Violations: dedupe(violations)}
	}
	return args, nil
}

// Invoke runs the tool's handler.
func (t *Tool) Invoke(ctx context.Context, args map[string]interface{}, ec *ExecutionContext) (interface{}, error) {
	return t.handler(ctx, args, ec)
}

// coerce converts values across the narrow gaps JSON decoding leaves open,
// so handlers see the declared type.
func coerce(param Parameter, value interface{}) (interface{}, bool) {
	switch param.Type {
	case TypeInteger:
		switch v := value.(type) {
		case float64:
			if v == math.Trunc(v) {
				return int64(v), true
			}
		case float32:
			if float64(v) == math.Trunc(float64(v)) {
				return int64(v), true
			}
		case int:
			return int64(v), true
		}
	case TypeNumber:
		switch v := value.(type) {
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return value, false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
