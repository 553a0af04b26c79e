package serialization

import (
	"slices"
	"strings"
)

// ValidationError describes one problem found while converting a value.
// Path is the chain of wire keys leading to the offending value.
type ValidationError struct {
	Path    []string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.PathString() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PathString returns the dotted path, or "<root>" for the top-level value
func (e *ValidationError) PathString() string {
	if len(e.Path) == 0 {
		return "<root>"
	}
	return strings.Join(e.Path, ".")
}

// ValidationErrors is every problem found in a single conversion
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = err
	}
	return out
}

func (errs ValidationErrors) sorted() ValidationErrors {
	slices.SortStableFunc(errs, func(a, b *ValidationError) int {
		return strings.Compare(a.PathString(), b.PathString())
	})
	return errs
}

// withPrefix returns copies of errs with prefix prepended to each path
func (errs ValidationErrors) withPrefix(prefix []string) ValidationErrors {
	if len(prefix) == 0 {
		return errs
	}
	out := make(ValidationErrors, len(errs))
	for i, err := range errs {
		out[i] = &ValidationError{
			Path:    append(slices.Clone(prefix), err.Path...),
			Message: err.Message,
			Err:     err.Err,
		}
	}
	return out
}

func missing(path []string) *ValidationError {
	return &ValidationError{Path: path, Message: "missing required value"}
}
