package api

import (
	"errors"
	"fmt"
	"regexp"
)

// CreateToolRequestType is the kind of tool being created
type CreateToolRequestType string

const (
	CreateToolRequestTypeFunction CreateToolRequestType = "function"
	CreateToolRequestTypeWebhook  CreateToolRequestType = "webhook"
)

// CreateToolRequestTypes lists every type the API is known to accept
var CreateToolRequestTypes = []CreateToolRequestType{
	CreateToolRequestTypeFunction,
	CreateToolRequestTypeWebhook,
}

// NewCreateToolRequestTypeFromString returns the type named by s,
// or ErrUnknownType if the API does not define it
func NewCreateToolRequestTypeFromString(s string) (CreateToolRequestType, error) {
	t := CreateToolRequestType(s)
	if !t.IsKnown() {
		var zero CreateToolRequestType
		return zero, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// IsKnown reports whether t is one of CreateToolRequestTypes
func (t CreateToolRequestType) IsKnown() bool {
	for _, known := range CreateToolRequestTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t CreateToolRequestType) Ptr() *CreateToolRequestType {
	return &t
}

func (t CreateToolRequestType) String() string {
	return string(t)
}

var functionNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// FunctionDef describes a function the agent may call
type FunctionDef struct {
	// Name identifies the function to the model. When nil the API
	// falls back to the tool's own name.
	Name *string
	// Description tells the model when to call the function
	Description *string
	// Parameters is a JSON Schema for the function's arguments
	Parameters FunctionParameters

	// ExtraProperties holds wire keys the binding does not recognize.
	// It is only populated when unrecognized keys are passed through.
	ExtraProperties map[string]any
}

// Validate checks the name and the parameters schema
func (f *FunctionDef) Validate() error {
	if f == nil {
		return ErrMissingFunction
	}

	var errs []error
	if f.Name != nil {
		if err := ValidateFunctionName(*f.Name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := f.Parameters.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// GetName returns the function name, or "" when it is unset
func (f *FunctionDef) GetName() string {
	if f == nil || f.Name == nil {
		return ""
	}
	return *f.Name
}

// ValidateArguments checks call arguments against the parameters schema
func (f *FunctionDef) ValidateArguments(args map[string]any) error {
	resolved, err := f.Parameters.resolve()
	if err != nil {
		return err
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := resolved.Validate(args); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// ValidateFunctionName checks that name is 1-64 letters, digits, underscores or dashes
func ValidateFunctionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if !functionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must match %s", ErrInvalidName, name, functionNamePattern)
	}
	return nil
}

// CreateToolRequest is the payload for creating a tool on an agent
type CreateToolRequest struct {
	Type     CreateToolRequestType
	Function *FunctionDef

	// ExtraProperties holds wire keys the binding does not recognize
	ExtraProperties map[string]any
}

// NewFunctionTool builds a request for a function tool.
// An empty name or description is omitted.
func NewFunctionTool(name, description string, parameters FunctionParameters) *CreateToolRequest {
	fn := &FunctionDef{
		Parameters: parameters,
	}
	if name != "" {
		fn.Name = &name
	}
	if description != "" {
		fn.Description = &description
	}

	return &CreateToolRequest{
		Type:     CreateToolRequestTypeFunction,
		Function: fn,
	}
}

// Validate checks that the type is known and the function is valid
func (r *CreateToolRequest) Validate() error {
	if r == nil {
		return ErrMissingRequest
	}

	var errs []error
	if !r.Type.IsKnown() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownType, r.Type))
	}
	if err := r.Function.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
