package api

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// FunctionParameters is a JSON Schema object describing a function's arguments
type FunctionParameters map[string]any

// EmptyParameters returns a schema for a function that takes no arguments
func EmptyParameters() FunctionParameters {
	return FunctionParameters{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Schema decodes the parameters as a JSON Schema
func (p FunctionParameters) Schema() (*jsonschema.Schema, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: parameters are required", ErrInvalidParameters)
	}

	data, err := json.Marshal(map[string]any(p))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return &schema, nil
}

// Validate requires a resolvable schema whose type is the string "object"
func (p FunctionParameters) Validate() error {
	_, err := p.resolve()
	return err
}

func (p FunctionParameters) resolve() (*jsonschema.Resolved, error) {
	schema, err := p.Schema()
	if err != nil {
		return nil, err
	}

	if !isObjectSchema(schema) {
		return nil, ErrParametersNotObject
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return resolved, nil
}

// isObjectSchema requires the single string form of "type"; the list form
// ["object"] is rejected so the wire descriptor can state the rule as an enum
func isObjectSchema(schema *jsonschema.Schema) bool {
	return schema.Type == "object" && len(schema.Types) == 0
}
