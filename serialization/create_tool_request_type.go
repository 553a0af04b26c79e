package serialization

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mattt/tooldef/api"
)

// CreateToolRequestType binds the wire string for a tool's type to api.CreateToolRequestType
var CreateToolRequestType Schema[string, api.CreateToolRequestType] = createToolRequestTypeSchema{}

type createToolRequestTypeSchema struct{}

func (s createToolRequestTypeSchema) Parse(raw string, opts ...Option) (api.CreateToolRequestType, error) {
	t, errs := s.parse(raw, newOptions(opts))
	if len(errs) > 0 {
		return "", errs
	}
	return t, nil
}

func (s createToolRequestTypeSchema) JSON(typed api.CreateToolRequestType, opts ...Option) (string, error) {
	if _, errs := s.parse(string(typed), newOptions(opts)); len(errs) > 0 {
		return "", errs
	}
	return string(typed), nil
}

func (createToolRequestTypeSchema) JSONSchema() *jsonschema.Schema {
	enum := make([]any, len(api.CreateToolRequestTypes))
	for i, t := range api.CreateToolRequestTypes {
		enum[i] = string(t)
	}
	return &jsonschema.Schema{
		Type: "string",
		Enum: enum,
	}
}

func (createToolRequestTypeSchema) parse(raw string, o *options) (api.CreateToolRequestType, ValidationErrors) {
	t := api.CreateToolRequestType(raw)
	if t.IsKnown() || o.allowUnrecognizedEnumValues || o.skipValidation {
		return t, nil
	}

	known := make([]string, len(api.CreateToolRequestTypes))
	for i, k := range api.CreateToolRequestTypes {
		known[i] = strconv.Quote(string(k))
	}
	return t, ValidationErrors{{
		Path:    o.path(),
		Message: fmt.Sprintf("expected one of %s, got %q", strings.Join(known, ", "), raw),
		Err:     api.ErrUnknownType,
	}}
}
