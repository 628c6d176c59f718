// Package authoring reads authoring workflow documents. Documents are checked against an
// embedded JSON Schema before they are decoded into models.AuthoringSpec.
package authoring

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var schema = mustCompileSchema()

// Format is the encoding of an authoring document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrInvalidSpec indicates an authoring document that cannot be decoded or fails the schema.
	ErrInvalidSpec = errors.New("invalid authoring spec")

	// ErrUnsupportedFormat indicates a document whose format is neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported authoring format")
)

// SchemaError lists every schema violation of a document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidSpec, strings.Join(e.Violations, "; "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSpec
}

// IsInvalidSpec checks if an error was caused by a malformed authoring document.
func IsInvalidSpec(err error) bool {
	return errors.Is(err, ErrInvalidSpec)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// IsSupportedPath reports whether path has a JSON or YAML extension.
func IsSupportedPath(path string) bool {
	_, err := FormatFromPath(path)

	return err == nil
}

// Decode validates data against the authoring schema and decodes it, keeping the document
// order of states and transitions.
func Decode(data []byte, format Format) (*models.AuthoringSpec, error) {
	var (
		document any
		spec     models.AuthoringSpec
	)

	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()

		if err := decoder.Decode(&document); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}

		if err := Validate(document); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}

		if err := Validate(document); err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if spec.States == nil {
		spec.States = models.NewAuthoringSpec().States
	}

	return &spec, nil
}

// Validate checks a generic document (as produced by encoding/json or yaml.v3) against the
// authoring schema.
func Validate(document any) error {
	if document == nil {
		return &SchemaError{Violations: []string{"(root): document is empty"}}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}

	return &SchemaError{Violations: violations}
}

// Schema returns the embedded authoring JSON Schema.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func mustCompileSchema() *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("authoring schema: %v", err))
	}

	return compiled
}
