// Package serialization binds the wire representation of API payloads
// to the typed values in package api.
//
// Each payload has a Raw struct that mirrors the JSON body exactly and a
// schema value that converts between Raw and the typed form, validating
// along the way and reporting every problem with its path.
package serialization

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema converts between a wire representation and a typed representation
type Schema[Raw, Typed any] interface {
	// Parse converts a wire value into its typed form
	Parse(raw Raw, opts ...Option) (Typed, error)
	// JSON converts a typed value into its wire form
	JSON(typed Typed, opts ...Option) (Raw, error)
	// JSONSchema describes the wire form, as validated with UnrecognizedKeysFail.
	// Parse additionally requires parameters schemas to resolve (patterns
	// compile, $refs point somewhere), which a JSON Schema cannot express.
	JSONSchema() *jsonschema.Schema
}

// Unmarshal decodes JSON data and parses it with schema
func Unmarshal[Raw, Typed any](schema Schema[Raw, Typed], data []byte, opts ...Option) (Typed, error) {
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		var zero Typed
		return zero, decodeError(err, newOptions(opts))
	}
	return schema.Parse(raw, opts...)
}

// Marshal converts typed with schema and encodes the result as JSON
func Marshal[Raw, Typed any](schema Schema[Raw, Typed], typed Typed, opts ...Option) ([]byte, error) {
	raw, err := schema.JSON(typed, opts...)
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func decodeError(err error, o *options) error {
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationErrs.withPrefix(o.breadcrumbs).sorted()
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		var path []string
		if typeErr.Field != "" {
			path = strings.Split(typeErr.Field, ".")
		}
		return ValidationErrors{{
			Path:    o.path(path...),
			Message: fmt.Sprintf("expected %s, got %s", strings.TrimPrefix(typeErr.Type.String(), "*"), typeErr.Value),
		}}
	}

	return fmt.Errorf("error decoding JSON: %w", err)
}

// decodeObject splits a JSON object into its members
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	if kind := jsonKind(data); kind != "object" {
		return nil, ValidationErrors{{Message: "expected object, got " + kind}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeField decodes a single member into dst, leaving dst untouched for null
func decodeField[T any](value json.RawMessage, dst *T, expected string, path ...string) ValidationErrors {
	if err := json.Unmarshal(value, dst); err != nil {
		return ValidationErrors{{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %s", expected, jsonKind(value)),
		}}
	}
	return nil
}

func decodeExtra(value json.RawMessage) any {
	var v any
	_ = json.Unmarshal(value, &v)
	return v
}

// encodeObject encodes known over extra so recognized keys always win
func encodeObject(known map[string]any, extra map[string]any) ([]byte, error) {
	out := make(map[string]any, len(known)+len(extra))
	for key, value := range extra {
		out[key] = value
	}
	for key, value := range known {
		out[key] = value
	}
	return json.Marshal(out)
}

func jsonKind(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "nothing"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
