package api

import "errors"

// Sentinel errors returned by typed validation.
var (
	ErrMissingRequest      = errors.New("create tool request is nil")
	ErrUnknownType         = errors.New("unknown tool type")
	ErrMissingFunction     = errors.New("function definition is required")
	ErrInvalidName         = errors.New("invalid function name")
	ErrInvalidParameters   = errors.New("invalid parameters schema")
	ErrParametersNotObject = errors.New("parameters schema must have type \"object\"")
	ErrInvalidArguments    = errors.New("arguments do not match parameters schema")
)
