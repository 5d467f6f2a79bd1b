package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a graph document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrInvalidDocument = errors.New("invalid graph document")

// DocumentError lists every violation found in a graph document.
type DocumentError struct {
	Violations []string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidDocument, strings.Join(e.Violations, "; "))
}

func (e *DocumentError) Unwrap() error {
	return ErrInvalidDocument
}

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

const portSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"type": {"type": "integer", "minimum": 0, "maximum": 2},
		"is_output": {"type": "boolean"}
	}
}`

var documentSchema = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["nodes"],
	"properties": {
		"nodes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "type"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"type": {"type": "string", "minLength": 1},
					"category": {"type": "string"},
					"color": {"type": "string"},
					"description": {"type": "string"},
					"properties": {"type": ["object", "null"]},
					"status": {"type": "integer", "minimum": 0, "maximum": 4},
					"inputs": {"type": ["array", "null"], "items": ` + portSchema + `},
					"outputs": {"type": ["array", "null"], "items": ` + portSchema + `}
				}
			}
		},
		"connections": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["id", "from_node", "from_output", "to_node", "to_input"],
				"properties": {
					"id": {"type": "string"},
					"from_node": {"type": "string"},
					"from_output": {"type": "string"},
					"to_node": {"type": "string"},
					"to_input": {"type": "string"}
				}
			}
		}
	}
}`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseDocument decodes and validates a graph document. Structural problems
// are reported as a *DocumentError.
func ParseDocument(data []byte, format Format) (*models.SerializedGraph, error) {
	var raw any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &DocumentError{Violations: []string{err.Error()}}
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &DocumentError{Violations: []string{err.Error()}}
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, &DocumentError{Violations: []string{err.Error()}}
	}

	result, err := gojsonschema.Validate(documentSchema, gojsonschema.NewBytesLoader(normalized))
	if err != nil {
		return nil, &DocumentError{Violations: []string{err.Error()}}
	}

	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			violations = append(violations, resultErr.String())
		}

		return nil, &DocumentError{Violations: violations}
	}

	var doc models.SerializedGraph
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, &DocumentError{Violations: []string{err.Error()}}
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// ValidateDocument checks a decoded document's struct constraints.
func ValidateDocument(doc *models.SerializedGraph) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &DocumentError{Violations: []string{err.Error()}}
	}

	violations := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		violations = append(violations, fmt.Sprintf("%s failed on %s", fieldErr.Namespace(), fieldErr.Tag()))
	}

	return &DocumentError{Violations: violations}
}

// EncodeDocument encodes doc in the given format.
func EncodeDocument(doc models.SerializedGraph, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	if format != FormatYAML {
		return data, nil
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}

	return yaml.Marshal(generic)
}
