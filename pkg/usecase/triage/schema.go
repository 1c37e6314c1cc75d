package triage

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// assessmentSchema declares the structured output the classifier demands
// from the model: exactly one of the four severities plus the structured
// fields. The schema is the contract; anything that does not conform is
// handled by the fallback path in classify.go.
func assessmentSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"severity": {
				Type:        "string",
				Description: "Urgency of the assessment",
				Enum:        []any{"normal", "watch", "attention", "urgent"},
			},
			"title": {
				Type:        "string",
				Description: "Short headline for the assessment",
			},
			"summary": {
				Type:        "string",
				Description: "1-3 sentence explanation in plain language",
			},
			"correlations": {
				Type:        "array",
				Description: "Cross-signal observations, empty when none",
				Items:       &jsonschema.Schema{Type: "string"},
			},
			"action": {
				Type:        "string",
				Description: "Recommended action, omitted when none is needed",
			},
		},
		Required: []string{"severity", "title", "summary", "correlations"},
	}
}

// convertJSONSchemaToGenai converts a JSON Schema declaration to the
// genai.Schema shape the GenerateContent response constraint expects.
func convertJSONSchemaToGenai(schema *jsonschema.Schema) (*genai.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	genaiSchema := &genai.Schema{}

	switch schema.Type {
	case "object":
		genaiSchema.Type = genai.TypeObject
	case "string":
		genaiSchema.Type = genai.TypeString
	case "number", "integer":
		genaiSchema.Type = genai.TypeNumber
	case "boolean":
		genaiSchema.Type = genai.TypeBoolean
	case "array":
		genaiSchema.Type = genai.TypeArray
	default:
		if schema.Type != "" {
			return nil, goerr.New("unsupported schema type", goerr.V("type", schema.Type))
		}
	}

	if schema.Description != "" {
		genaiSchema.Description = schema.Description
	}

	if len(schema.Enum) > 0 {
		genaiSchema.Enum = make([]string, len(schema.Enum))
		for i, v := range schema.Enum {
			if s, ok := v.(string); ok {
				genaiSchema.Enum[i] = s
			}
		}
	}

	if len(schema.Properties) > 0 {
		genaiSchema.Properties = make(map[string]*genai.Schema)
		for name, propSchema := range schema.Properties {
			converted, err := convertJSONSchemaToGenai(propSchema)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert property schema",
					goerr.V("property", name))
			}
			genaiSchema.Properties[name] = converted
		}
	}

	if len(schema.Required) > 0 {
		genaiSchema.Required = schema.Required
	}

	if schema.Items != nil {
		converted, err := convertJSONSchemaToGenai(schema.Items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert items schema")
		}
		genaiSchema.Items = converted
	}

	return genaiSchema, nil
}
