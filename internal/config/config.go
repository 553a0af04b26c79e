package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattt/tooldef/openapi"
	"github.com/mattt/tooldef/serialization"
)

// Config represents the configuration for the tooldef CLI
type Config struct {
	// UnrecognizedKeys is "fail", "strip" or "passthrough"
	UnrecognizedKeys string `json:"unrecognizedKeys" yaml:"unrecognizedKeys"`

	// AllowUnrecognizedEnumValues accepts tool types the binding does not know
	AllowUnrecognizedEnumValues bool `json:"allowUnrecognizedEnumValues" yaml:"allowUnrecognizedEnumValues"`

	// SkipValidation converts tool files without validating them
	SkipValidation bool `json:"skipValidation" yaml:"skipValidation"`

	// Definition is the default path or URL of the OpenAPI document
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`

	// SchemaName is the component schema checked in the definition
	SchemaName string `json:"schemaName" yaml:"schemaName"`

	// Auth is the Authorization header value used to download the definition.
	// It may be a secret reference such as op://vault/item/field.
	Auth string `json:"auth,omitempty" yaml:"auth,omitempty"`
}

// DefaultConfig returns a configuration that validates strictly
func DefaultConfig() *Config {
	return &Config{
		UnrecognizedKeys: string(serialization.UnrecognizedKeysFail),
		SchemaName:       openapi.DefaultSchemaName,
	}
}

// LoadFile loads configuration from a file, returning the defaults if it does not exist
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads configuration from YAML or JSON
func Load(r io.Reader) (*Config, error) {
	config := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}

	// JSON is a subset of YAML, so one decoder handles both
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that every field holds a supported value
func (c *Config) Validate() error {
	var errs []error
	if _, ok := serialization.ParseUnrecognizedKeys(c.UnrecognizedKeys); !ok {
		errs = append(errs, fmt.Errorf("unrecognizedKeys must be fail, strip or passthrough, got %q", c.UnrecognizedKeys))
	}
	if c.SchemaName == "" {
		errs = append(errs, errors.New("schemaName must not be empty"))
	}
	return errors.Join(errs...)
}

// ParseOptions returns the serialization options the configuration describes
func (c *Config) ParseOptions() []serialization.Option {
	mode, ok := serialization.ParseUnrecognizedKeys(c.UnrecognizedKeys)
	if !ok {
		mode = serialization.UnrecognizedKeysFail
	}

	opts := []serialization.Option{serialization.WithUnrecognizedKeys(mode)}
	if c.AllowUnrecognizedEnumValues {
		opts = append(opts, serialization.WithAllowUnrecognizedEnumValues())
	}
	if c.SkipValidation {
		opts = append(opts, serialization.WithSkipValidation())
	}
	return opts
}

// Save writes the configuration to a file, as JSON for .json paths and YAML otherwise
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
