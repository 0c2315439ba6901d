package ingest

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema describes the minimum shape a webhook body must have before
// ingestion runs: a data object carrying the field list. Identifier fields
// are all optional here; the ingestor falls back to a generated id.
var payloadSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"data"},
	"properties": map[string]interface{}{
		"eventId": map[string]interface{}{"type": "string"},
		"data": map[string]interface{}{
			"type":     "object",
			"required": []string{"fields"},
			"properties": map[string]interface{}{
				"responseId":   map[string]interface{}{"type": "string"},
				"submissionId": map[string]interface{}{"type": "string"},
				"respondentId": map[string]interface{}{"type": "string"},
				"fields": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":     "object",
						"required": []string{"label", "type"},
						"properties": map[string]interface{}{
							"key":   map[string]interface{}{"type": "string"},
							"label": map[string]interface{}{"type": "string"},
							"type":  map[string]interface{}{"type": "string"},
						},
					},
				},
			},
		},
	},
}

// ValidatePayload checks the raw webhook body against the payload schema.
func ValidatePayload(body []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(payloadSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload validation failed: %v", errs)
	}

	return nil
}
