package generator

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// generatedQuestionSchema is the shape the provider must return. The model
// output is validated against it before any field is trusted; a mismatch is
// treated the same as a parse failure.
var generatedQuestionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"question_text": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"options": map[string]any{
			"type":     "array",
			"minItems": 4,
			"maxItems": 4,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"key": map[string]any{
						"type": "string",
						"enum": []any{"A", "B", "C", "D"},
					},
					"text": map[string]any{"type": "string"},
				},
				"required": []any{"key", "text"},
			},
		},
		"correct_answer": map[string]any{
			"type": "string",
			"enum": []any{"A", "B", "C", "D"},
		},
		"explanation":     map[string]any{"type": "string"},
		"concepts_tested": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"difficulty":      map[string]any{"type": "string"},
		"topic":           map[string]any{"type": "string"},
	},
	"required": []any{"question_text", "options", "correct_answer"},
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func questionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The compiler wants a parsed JSON value, so round-trip the
		// definition through encoding/json first.
		raw, err := json.Marshal(generatedQuestionSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://generated-question.json", parsed); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		compiledSchema, schemaErr = c.Compile("schema://generated-question.json")
	})

	return compiledSchema, schemaErr
}

// validateGenerated checks raw provider output against the question schema.
func validateGenerated(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := questionSchema()
	if err != nil {
		return err
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}
