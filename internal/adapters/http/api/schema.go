package api

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// metricsRequestSchema is the contract for POST /dashboard/metrics. Extra
// properties are allowed and ignored.
const metricsRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["business_id"],
  "properties": {
    "business_id": {"type": "string"}
  }
}`

// bodyValidator checks decoded JSON documents against a compiled schema.
type bodyValidator struct {
	schema *gojsonschema.Schema
}

func newBodyValidator(schemaJSON string) (*bodyValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &bodyValidator{schema: schema}, nil
}

func mustBodyValidator(schemaJSON string) *bodyValidator {
	v, err := newBodyValidator(schemaJSON)
	if err != nil {
		panic(err)
	}
	return v
}

// validate returns one FieldError per schema violation, or nil when doc conforms.
func (v *bodyValidator) validate(doc any) ([]FieldError, error) {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	out := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out = append(out, FieldError{Field: field, Message: desc.Description()})
	}
	return out, nil
}
