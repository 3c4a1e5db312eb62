// Package config loads and validates the optional per-project uidsl.yaml
// file consumed by cmd/uidsl: default source file, output format, and a
// strict flag. The loaded document is validated against an embedded JSON
// Schema before use, and an optional schemaVersion field is checked
// against the range this binary supports.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Config is a project's uidsl.yaml, fully validated.
type Config struct {
	Source        string `yaml:"source"`
	Format        string `yaml:"format"`
	Strict        bool   `yaml:"strict"`
	SchemaVersion string `yaml:"schemaVersion"`
}

// schemaJSON is the embedded JSON Schema uidsl.yaml documents must satisfy.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "source": {"type": "string"},
    "format": {"type": "string", "enum": ["cbor", "text"]},
    "strict": {"type": "boolean"},
    "schemaVersion": {"type": "string"}
  }
}`

// minSchemaVersion is the oldest uidsl.yaml schemaVersion this binary
// accepts; maxSchemaVersion the newest.
const (
	minSchemaVersion = "v1.0.0"
	maxSchemaVersion = "v1.9.9"
)

// Load reads and validates a uidsl.yaml file at path. A missing file is
// not an error: Load returns the zero Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes raw YAML bytes into a Config.
func Parse(data []byte) (*Config, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid yaml: %w", err)
	}

	if err := validateAgainstSchema(raw); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: invalid yaml: %w", err)
	}

	if cfg.SchemaVersion != "" {
		if err := checkSchemaVersion(cfg.SchemaVersion); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// validateAgainstSchema re-marshals the decoded YAML through JSON so its
// value types (map[string]interface{}, []interface{}, float64, ...) match
// what jsonschema expects, then validates it against schemaJSON.
func validateAgainstSchema(raw map[string]interface{}) error {
	jsonBytes, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("config: re-encoding to json: %w", err)
	}
	var instance interface{}
	if err := json.Unmarshal(jsonBytes, &instance); err != nil {
		return fmt.Errorf("config: decoding json: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("uidsl-config.json", bytes.NewReader([]byte(schemaJSON))); err != nil {
		return fmt.Errorf("config: loading schema: %w", err)
	}
	schema, err := compiler.Compile("uidsl-config.json")
	if err != nil {
		return fmt.Errorf("config: compiling schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("config: uidsl.yaml failed validation: %w", err)
	}
	return nil
}

func checkSchemaVersion(v string) error {
	canonical := v
	if !strings.HasPrefix(canonical, "v") {
		canonical = "v" + canonical
	}
	if !semver.IsValid(canonical) {
		return fmt.Errorf("config: schemaVersion %q is not valid semver", v)
	}
	if semver.Compare(canonical, minSchemaVersion) < 0 || semver.Compare(canonical, maxSchemaVersion) > 0 {
		return fmt.Errorf("config: schemaVersion %q is outside the supported range [%s, %s]",
			v, minSchemaVersion, maxSchemaVersion)
	}
	return nil
}
