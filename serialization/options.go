package serialization

import (
	"maps"
	"slices"
)

// UnrecognizedKeys controls what happens to object keys the schema does not define
type UnrecognizedKeys string

const (
	// UnrecognizedKeysFail reports each unknown key as a validation error
	UnrecognizedKeysFail UnrecognizedKeys = "fail"
	// UnrecognizedKeysStrip silently drops unknown keys
	UnrecognizedKeysStrip UnrecognizedKeys = "strip"
	// UnrecognizedKeysPassthrough keeps unknown keys in ExtraProperties / Extra
	UnrecognizedKeysPassthrough UnrecognizedKeys = "passthrough"
)

// ParseUnrecognizedKeys returns the mode named by s
func ParseUnrecognizedKeys(s string) (UnrecognizedKeys, bool) {
	switch mode := UnrecognizedKeys(s); mode {
	case UnrecognizedKeysFail, UnrecognizedKeysStrip, UnrecognizedKeysPassthrough:
		return mode, true
	default:
		return "", false
	}
}

type options struct {
	unrecognizedKeys            UnrecognizedKeys
	allowUnrecognizedEnumValues bool
	skipValidation              bool
	breadcrumbs                 []string
}

// Option configures a single Parse or JSON call
type Option func(*options)

// WithUnrecognizedKeys sets how unknown object keys are handled.
// The default is UnrecognizedKeysFail.
func WithUnrecognizedKeys(mode UnrecognizedKeys) Option {
	return func(o *options) {
		o.unrecognizedKeys = mode
	}
}

// WithAllowUnrecognizedEnumValues accepts enum values the binding does not know
func WithAllowUnrecognizedEnumValues() Option {
	return func(o *options) {
		o.allowUnrecognizedEnumValues = true
	}
}

// WithSkipValidation converts values without checking required fields, enum
// membership, names, parameter schemas or unknown keys. JSON values that
// cannot be decoded into the raw form are still reported.
func WithSkipValidation() Option {
	return func(o *options) {
		o.skipValidation = true
	}
}

// WithBreadcrumbsPrefix prepends path to every reported error path
func WithBreadcrumbsPrefix(path ...string) Option {
	return func(o *options) {
		o.breadcrumbs = append(o.breadcrumbs, path...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{unrecognizedKeys: UnrecognizedKeysFail}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) path(keys ...string) []string {
	return append(slices.Clone(o.breadcrumbs), keys...)
}

func (o *options) child(key string) *options {
	c := *o
	c.breadcrumbs = o.path(key)
	return &c
}

// unrecognized applies the unknown-key mode to extra
func (o *options) unrecognized(extra map[string]any) (map[string]any, ValidationErrors) {
	if len(extra) == 0 {
		return nil, nil
	}

	switch o.unrecognizedKeys {
	case UnrecognizedKeysPassthrough:
		return maps.Clone(extra), nil
	case UnrecognizedKeysStrip:
		return nil, nil
	default:
		var errs ValidationErrors
		for key := range extra {
			errs = append(errs, &ValidationError{Path: o.path(key), Message: "unexpected key"})
		}
		return nil, errs
	}
}
