package tool

import (
	"fmt"
)

// ParamType is the closed set of parameter types a tool may declare.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeEnum    ParamType = "enum"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
)

var validParamTypes = map[ParamType]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeInteger: true,
	TypeBoolean: true,
	TypeEnum:    true,
	TypeArray:   true,
	TypeObject:  true,
}

// Parameter declares a single tool argument.
type Parameter struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
}

// Capability declares how a tool may be invoked.
type Capability struct {
	Sync  bool `json:"sync"`
	Async bool `json:"async"`
}

// Descriptor is the immutable schema of a tool: never mutated after
// registration, destroyed only by explicit unregistration.
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Capability  Capability  `json:"capability"`
	Category    string      `json:"category,omitempty"`
}

// Validate checks the descriptor's structural invariants.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if d.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}

	seen := make(map[string]bool, len(d.Parameters))
	for _, param := range d.Parameters {
		if param.Name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if seen[param.Name] {
			return fmt.Errorf("duplicate parameter %s", param.Name)
		}
		seen[param.Name] = true

		if !validParamTypes[param.Type] {
			return fmt.Errorf("invalid parameter type %s for %s", param.Type, param.Name)
		}
		if param.Type == TypeEnum && len(param.Enum) == 0 {
			return fmt.Errorf("enum parameter %s declares no values", param.Name)
		}
		if param.Required && param.Default != nil {
			return fmt.Errorf("required parameter %s cannot carry a default", param.Name)
		}
	}
	return nil
}

// FunctionSchema is the LLM-facing function-calling schema for one tool.
type FunctionSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// JSONSchema builds the JSON-Schema object describing the tool's arguments.
func (d Descriptor) JSONSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(d.Parameters))
	required := []string{}

	for _, param := range d.Parameters {
		paramSchema := map[string]interface{}{
			"description": param.Description,
		}
		switch param.Type {
		case TypeEnum:
			paramSchema["type"] = "string"
			enum := make([]interface{}, len(param.Enum))
			for i, v := range param.Enum {
				enum[i] = v
			}
			paramSchema["enum"] = enum
		default:
			paramSchema["type"] = string(param.Type)
		}
		if param.Default != nil {
			paramSchema["default"] = param.Default
		}
		properties[param.Name] = paramSchema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	schema := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Schema returns the descriptor as an LLM-facing function schema.
func (d Descriptor) Schema() FunctionSchema {
	return FunctionSchema{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.JSONSchema(),
	}
}
