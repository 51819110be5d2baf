// internal/playbook/reconcile.go
package playbook

import (
	"bytes"
	"encoding/json"
	"strings"

	"playbook-engine/internal/models"
)

// Resolution is the normalized outcome of a callback, ready for persistence.
type Resolution struct {
	Status  models.PlaybookStatus
	Content json.RawMessage
}

// emptyContent reports whether a content payload carries no usable data.
// A missing field, JSON null, empty object, empty array, and empty string all
// count as empty.
func emptyContent(content json.RawMessage) bool {
	trimmed := bytes.TrimSpace(content)
	switch {
	case len(trimmed) == 0:
		return true
	case bytes.Equal(trimmed, []byte("null")):
		return true
	case bytes.Equal(trimmed, []byte("{}")):
		return true
	case bytes.Equal(trimmed, []byte("[]")):
		return true
	case bytes.Equal(trimmed, []byte(`""`)):
		return true
	}
	return false
}

// Reconcile maps a worker-reported callback to an internal terminal state.
//
// Only "COMPLETED" (case-insensitive) is a success signal; every other status
// string, including one claiming "PENDING", resolves to FAILED. A success
// claim with empty content is a contract violation and also resolves to
// FAILED, so the record never advertises a broken playbook as usable. Content
// arrives with a shape that varies by playbook type and is preserved verbatim.
func Reconcile(payload CallbackPayload) Resolution {
	if !strings.EqualFold(payload.Status, string(models.PlaybookStatusCompleted)) {
		content := payload.Content
		if emptyContent(content) {
			content = json.RawMessage(`{"error":"generation failed","workerStatus":` + mustQuote(payload.Status) + `}`)
		}
		return Resolution{Status: models.PlaybookStatusFailed, Content: content}
	}

	if emptyContent(payload.Content) {
		return Resolution{
			Status:  models.PlaybookStatusFailed,
			Content: json.RawMessage(`{"error":"worker reported success without content"}`),
		}
	}

	return Resolution{Status: models.PlaybookStatusCompleted, Content: payload.Content}
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
