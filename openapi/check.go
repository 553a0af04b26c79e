// Package openapi compares the Go binding for CreateToolRequest against
// the component schema of the same name in an OpenAPI 3 document.
package openapi

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	"gopkg.in/yaml.v3"

	"github.com/mattt/tooldef/serialization"
)

// DefaultSchemaName is the component schema checked unless WithSchemaName is given
const DefaultSchemaName = "CreateToolRequest"

// ErrSchemaNotFound is returned when the document has no matching component schema
var ErrSchemaNotFound = errors.New("component schema not found")

// Mismatch is one disagreement between the definition and the binding
type Mismatch struct {
	Path    string
	Message string
}

func (m Mismatch) String() string {
	return m.Path + ": " + m.Message
}

type checker struct {
	schemaName string
	binding    *jsonschema.Schema
}

// Option configures Check
type Option func(*checker)

// WithSchemaName checks the component schema with the given name
func WithSchemaName(name string) Option {
	return func(c *checker) {
		c.schemaName = name
	}
}

// Load parses an OpenAPI document from JSON or YAML
func Load(data []byte) (libopenapi.Document, error) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing OpenAPI document: %w", err)
	}
	return doc, nil
}

// Check reports every place the document's CreateToolRequest schema
// disagrees with the binding. An empty result means they match.
func Check(doc libopenapi.Document, opts ...Option) ([]Mismatch, error) {
	c := &checker{
		schemaName: DefaultSchemaName,
		binding:    serialization.CreateToolRequest.JSONSchema(),
	}
	for _, opt := range opts {
		opt(c)
	}

	model, errs := doc.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("error building OpenAPI model: %v", errs)
	}

	components := model.Model.Components
	if components == nil || components.Schemas == nil {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, c.schemaName)
	}
	proxy, ok := components.Schemas.Get(c.schemaName)
	if !ok || proxy == nil {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, c.schemaName)
	}
	schema := proxy.Schema()
	if schema == nil {
		return nil, fmt.Errorf("error resolving schema %s: %w", c.schemaName, proxy.GetBuildError())
	}

	mismatches := c.compare(c.schemaName, schema, c.binding)
	sort.SliceStable(mismatches, func(i, j int) bool {
		if mismatches[i].Path != mismatches[j].Path {
			return mismatches[i].Path < mismatches[j].Path
		}
		return mismatches[i].Message < mismatches[j].Message
	})
	return mismatches, nil
}

func (c *checker) compare(path string, def *base.Schema, binding *jsonschema.Schema) []Mismatch {
	var out []Mismatch
	report := func(format string, args ...any) {
		out = append(out, Mismatch{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	defTypes := collectTypes(def)
	if binding.Type != "" && len(defTypes) > 0 && !slices.Contains(defTypes, binding.Type) {
		report("binding has type %s, definition has %s", binding.Type, strings.Join(defTypes, "|"))
	}

	if len(binding.Enum) > 0 {
		defEnum := collectEnum(def)
		if len(defEnum) > 0 {
			bound := make([]string, 0, len(binding.Enum))
			for _, v := range binding.Enum {
				bound = append(bound, fmt.Sprint(v))
			}
			for _, v := range defEnum {
				if !slices.Contains(bound, v) {
					report("definition enum value %q is not bound", v)
				}
			}
			for _, v := range bound {
				if !slices.Contains(defEnum, v) {
					report("bound enum value %q is not in the definition", v)
				}
			}
		}
	}

	defProps := collectProperties(def)
	if len(binding.Properties) == 0 || len(defProps) == 0 {
		return out
	}

	defRequired := collectRequired(def)
	for _, name := range sortedKeys(binding.Properties) {
		child := path + "." + name
		defProp, ok := defProps[name]
		if !ok {
			out = append(out, Mismatch{Path: child, Message: "property is missing from the definition"})
			continue
		}

		boundRequired := slices.Contains(binding.Required, name)
		switch {
		case boundRequired && !slices.Contains(defRequired, name):
			out = append(out, Mismatch{Path: child, Message: "binding requires the property but the definition does not"})
		case !boundRequired && slices.Contains(defRequired, name):
			out = append(out, Mismatch{Path: child, Message: "definition requires the property but the binding does not"})
		}

		out = append(out, c.compare(child, defProp, binding.Properties[name])...)
	}

	for name := range defProps {
		if _, ok := binding.Properties[name]; !ok {
			out = append(out, Mismatch{Path: path + "." + name, Message: "property is not bound"})
		}
	}

	return out
}

// collectProperties merges properties declared directly and through allOf
func collectProperties(s *base.Schema) map[string]*base.Schema {
	props := make(map[string]*base.Schema)
	walkAllOf(s, func(s *base.Schema) {
		if s.Properties == nil {
			return
		}
		for pair := s.Properties.First(); pair != nil; pair = pair.Next() {
			if schema := pair.Value().Schema(); schema != nil {
				props[pair.Key()] = schema
			}
		}
	})
	return props
}

func collectRequired(s *base.Schema) []string {
	var required []string
	walkAllOf(s, func(s *base.Schema) {
		required = append(required, s.Required...)
	})
	return required
}

func collectTypes(s *base.Schema) []string {
	var types []string
	walkAllOf(s, func(s *base.Schema) {
		types = append(types, s.Type...)
	})
	return types
}

func collectEnum(s *base.Schema) []string {
	var values []string
	walkAllOf(s, func(s *base.Schema) {
		values = append(values, enumValues(s.Enum)...)
	})
	return values
}

func enumValues(nodes []*yaml.Node) []string {
	values := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if node != nil {
			values = append(values, node.Value)
		}
	}
	return values
}

func walkAllOf(s *base.Schema, fn func(*base.Schema)) {
	if s == nil {
		return
	}
	fn(s)
	for _, proxy := range s.AllOf {
		walkAllOf(proxy.Schema(), fn)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
