package httpapi

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var chatRequestSchema = mustSchema(map[string]any{
	"type":     "object",
	"required": []any{"session_id", "message"},
	"properties": map[string]any{
		"session_id": map[string]any{"type": "string"},
		"message":    map[string]any{"type": "string"},
	},
})

func mustSchema(doc map[string]any) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("httpapi: invalid schema: %v", err))
	}
	return schema
}

// validateChatRequest returns one line per schema violation. The error is
// set only when raw could not be evaluated at all.
func validateChatRequest(raw []byte) ([]string, error) {
	result, err := chatRequestSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		details = append(details, e.String())
	}
	return details, nil
}
