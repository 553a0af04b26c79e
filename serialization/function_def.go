package serialization

import (
	"encoding/json"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mattt/tooldef/api"
)

// FunctionDefRaw is the wire form of a function definition
type FunctionDefRaw struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`

	// Extra holds members other than name, description and parameters
	Extra map[string]any `json:"-"`
}

var _ json.Unmarshaler = &FunctionDefRaw{}

func (r *FunctionDefRaw) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	var out FunctionDefRaw
	var errs ValidationErrors
	for key, value := range fields {
		switch key {
		case "name":
			errs = append(errs, decodeField(value, &out.Name, "string", key)...)
		case "description":
			errs = append(errs, decodeField(value, &out.Description, "string", key)...)
		case "parameters":
			errs = append(errs, decodeField(value, &out.Parameters, "object", key)...)
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]any)
			}
			out.Extra[key] = decodeExtra(value)
		}
	}
	if len(errs) > 0 {
		return errs.sorted()
	}

	*r = out
	return nil
}

var _ json.Marshaler = FunctionDefRaw{}

func (r FunctionDefRaw) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"parameters": r.Parameters,
	}
	if r.Name != nil {
		known["name"] = *r.Name
	}
	if r.Description != nil {
		known["description"] = *r.Description
	}
	return encodeObject(known, r.Extra)
}

// FunctionDef binds FunctionDefRaw to api.FunctionDef
var FunctionDef Schema[FunctionDefRaw, *api.FunctionDef] = functionDefSchema{}

type functionDefSchema struct{}

func (s functionDefSchema) Parse(raw FunctionDefRaw, opts ...Option) (*api.FunctionDef, error) {
	fn, errs := s.parse(raw, newOptions(opts))
	if len(errs) > 0 {
		return nil, errs.sorted()
	}
	return fn, nil
}

func (s functionDefSchema) JSON(fn *api.FunctionDef, opts ...Option) (FunctionDefRaw, error) {
	raw, errs := s.json(fn, newOptions(opts))
	if len(errs) > 0 {
		return FunctionDefRaw{}, errs.sorted()
	}
	return raw, nil
}

func (functionDefSchema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name": {
				Type:    "string",
				Pattern: "^[a-zA-Z0-9_-]{1,64}$",
			},
			"description": {
				Type: "string",
			},
			"parameters": {
				Type:        "object",
				Description: "JSON Schema for the function's arguments",
				Properties: map[string]*jsonschema.Schema{
					"type": {Enum: []any{"object"}},
				},
				Required: []string{"type"},
			},
		},
		Required:             []string{"parameters"},
		AdditionalProperties: falseSchema(),
	}
}

func (functionDefSchema) parse(raw FunctionDefRaw, o *options) (*api.FunctionDef, ValidationErrors) {
	var errs ValidationErrors
	fn := &api.FunctionDef{
		Description: raw.Description,
		Parameters:  api.FunctionParameters(raw.Parameters),
	}

	if raw.Name != nil {
		name := *raw.Name
		fn.Name = &name
		if err := api.ValidateFunctionName(name); err != nil {
			errs = append(errs, &ValidationError{Path: o.path("name"), Message: err.Error(), Err: err})
		}
	}

	if raw.Parameters == nil {
		errs = append(errs, missing(o.path("parameters")))
	} else if err := fn.Parameters.Validate(); err != nil {
		if errors.Is(err, api.ErrParametersNotObject) {
			errs = append(errs, &ValidationError{Path: o.path("parameters", "type"), Message: `expected "object"`, Err: err})
		} else {
			errs = append(errs, &ValidationError{Path: o.path("parameters"), Message: err.Error(), Err: err})
		}
	}

	extra, extraErrs := o.unrecognized(raw.Extra)
	fn.ExtraProperties = extra
	errs = append(errs, extraErrs...)

	if o.skipValidation {
		return fn, nil
	}
	return fn, errs
}

func (s functionDefSchema) json(fn *api.FunctionDef, o *options) (FunctionDefRaw, ValidationErrors) {
	if fn == nil {
		if o.skipValidation {
			return FunctionDefRaw{}, nil
		}
		return FunctionDefRaw{}, ValidationErrors{{Path: o.path(), Message: "missing required value", Err: api.ErrMissingFunction}}
	}

	raw := FunctionDefRaw{
		Name:        fn.Name,
		Description: fn.Description,
		Parameters:  map[string]any(fn.Parameters),
		Extra:       fn.ExtraProperties,
	}

	// Parsing the candidate wire value runs the same checks in both directions
	checked, errs := s.parse(raw, o)
	raw.Extra = checked.ExtraProperties
	return raw, errs
}

// falseSchema matches nothing
func falseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
