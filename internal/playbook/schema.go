// internal/playbook/schema.go
package playbook

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "playbook-engine/internal/common/errors"
)

// callbackSchema is the structural contract for inbound worker callbacks.
// Only playbookId and status are required; content is free-form because its
// shape varies by playbook type.
var callbackSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"playbookId", "status"},
	"properties": map[string]interface{}{
		"playbookId": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"playbookType": map[string]interface{}{
			"type": "string",
		},
		"status": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"content": map[string]interface{}{
			"type": []string{"object", "array", "string", "null"},
		},
	},
}

// ValidateCallback checks a raw callback body against the structural contract
// before any record lookup happens.
func ValidateCallback(body []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(callbackSchema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return apperrors.NewValidationError("malformed callback payload", err.Error())
	}
	if !result.Valid() {
		descs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			descs[i] = desc.String()
		}
		return apperrors.NewValidationError("invalid callback payload", strings.Join(descs, "; "))
	}
	return nil
}
