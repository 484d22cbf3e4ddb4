package spec

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed descriptor.schema.json
var descriptorSchema string

// Load reads a descriptor from a .toml or .json file and validates it.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor file: %w", err)
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".toml"):
		return parseTOML(data)
	case strings.HasSuffix(lower, ".json"):
		return parseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported descriptor format %q (expected .toml or .json)", path)
	}
}

func parseTOML(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor TOML: %w", err)
	}
	return New(d.Table, d.Columns, d.Indexes)
}

// parseJSON validates the document against the embedded JSON Schema before
// unmarshaling, so shape errors are reported with field paths instead of
// surfacing later as opaque decode failures.
func parseJSON(data []byte) (*Descriptor, error) {
	schemaLoader := gojsonschema.NewStringLoader(descriptorSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate descriptor JSON: %w", err)
	}
	if !result.Valid() {
		var reasons []string
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, &InvalidSpecError{Reason: strings.Join(reasons, "; ")}
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor JSON: %w", err)
	}
	return New(d.Table, d.Columns, d.Indexes)
}
