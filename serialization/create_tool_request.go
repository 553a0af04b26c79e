package serialization

import (
	"encoding/json"
	"errors"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mattt/tooldef/api"
)

// CreateToolRequestRaw is the wire form of the body sent to create a tool
type CreateToolRequestRaw struct {
	Type     *string         `json:"type"`
	Function *FunctionDefRaw `json:"function"`

	// Extra holds members other than type and function
	Extra map[string]any `json:"-"`
}

var _ json.Unmarshaler = &CreateToolRequestRaw{}

func (r *CreateToolRequestRaw) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	var out CreateToolRequestRaw
	var errs ValidationErrors
	for key, value := range fields {
		switch key {
		case "type":
			errs = append(errs, decodeField(value, &out.Type, "string", key)...)
		case "function":
			if jsonKind(value) == "null" {
				continue
			}
			var fn FunctionDefRaw
			if err := fn.UnmarshalJSON(value); err != nil {
				var fnErrs ValidationErrors
				if !errors.As(err, &fnErrs) {
					return err
				}
				errs = append(errs, fnErrs.withPrefix([]string{key})...)
				continue
			}
			out.Function = &fn
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

var _ json.Marshaler = CreateToolRequestRaw{}

func (r CreateToolRequestRaw) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"type":     r.Type,
		"function": r.Function,
	}
	return encodeObject(known, r.Extra)
}

// CreateToolRequest binds CreateToolRequestRaw to api.CreateToolRequest
var CreateToolRequest Schema[CreateToolRequestRaw, *api.CreateToolRequest] = createToolRequestSchema{}

type createToolRequestSchema struct{}

func (s createToolRequestSchema) Parse(raw CreateToolRequestRaw, opts ...Option) (*api.CreateToolRequest, error) {
	req, errs := s.parse(raw, newOptions(opts))
	if len(errs) > 0 {
		return nil, errs.sorted()
	}
	return req, nil
}

func (s createToolRequestSchema) JSON(req *api.CreateToolRequest, opts ...Option) (CreateToolRequestRaw, error) {
	raw, errs := s.json(req, newOptions(opts))
	if len(errs) > 0 {
		return CreateToolRequestRaw{}, errs.sorted()
	}
	return raw, nil
}

func (createToolRequestSchema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Title:       "CreateToolRequest",
		Description: "Payload for creating a tool on an agent",
		Properties: map[string]*jsonschema.Schema{
			"type":     createToolRequestTypeSchema{}.JSONSchema(),
			"function": functionDefSchema{}.JSONSchema(),
		},
		Required:             []string{"type", "function"},
		AdditionalProperties: falseSchema(),
	}
}

func (createToolRequestSchema) parse(raw CreateToolRequestRaw, o *options) (*api.CreateToolRequest, ValidationErrors) {
	var errs ValidationErrors
	req := &api.CreateToolRequest{}

	if raw.Type == nil {
		errs = append(errs, missing(o.path("type")))
	} else {
		t, typeErrs := createToolRequestTypeSchema{}.parse(*raw.Type, o.child("type"))
		req.Type = t
		errs = append(errs, typeErrs...)
	}

	if raw.Function == nil {
		errs = append(errs, &ValidationError{Path: o.path("function"), Message: "missing required value", Err: api.ErrMissingFunction})
	} else {
		fn, fnErrs := functionDefSchema{}.parse(*raw.Function, o.child("function"))
		req.Function = fn
		errs = append(errs, fnErrs...)
	}

	extra, extraErrs := o.unrecognized(raw.Extra)
	req.ExtraProperties = extra
	errs = append(errs, extraErrs...)

	if o.skipValidation {
		return req, nil
	}
	return req, errs
}

func (createToolRequestSchema) json(req *api.CreateToolRequest, o *options) (CreateToolRequestRaw, ValidationErrors) {
	if req == nil {
		if o.skipValidation {
			return CreateToolRequestRaw{}, nil
		}
		return CreateToolRequestRaw{}, ValidationErrors{missing(o.path())}
	}

	var errs ValidationErrors
	t := string(req.Type)
	raw := CreateToolRequestRaw{Type: &t}

	_, typeErrs := createToolRequestTypeSchema{}.parse(t, o.child("type"))
	errs = append(errs, typeErrs...)

	if req.Function == nil {
		errs = append(errs, &ValidationError{Path: o.path("function"), Message: "missing required value", Err: api.ErrMissingFunction})
	} else {
		fn, fnErrs := functionDefSchema{}.json(req.Function, o.child("function"))
		raw.Function = &fn
		errs = append(errs, fnErrs...)
	}

	extra, extraErrs := o.unrecognized(req.ExtraProperties)
	raw.Extra = extra
	errs = append(errs, extraErrs...)

	if o.skipValidation {
		return raw, nil
	}
	return raw, errs
}
