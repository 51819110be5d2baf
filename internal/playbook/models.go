package playbook

import (
	"encoding/json"

	"playbook-engine/internal/models"
)

// DispatchInput is what a caller supplies to start a generation.
type DispatchInput struct {
	UserID        string              `json:"userId"`
	StakeholderID string              `json:"stakeholderId"`
	Type          models.PlaybookType `json:"playbookType"`
}

// RequestUser is the slice of the requesting user's profile the worker needs.
type RequestUser struct {
	Name        string `json:"name"`
	LinkedInURL string `json:"linkedinUrl"`
}

// RequestStakeholder is the slice of the target stakeholder's profile the
// worker needs.
type RequestStakeholder struct {
	Name         string                   `json:"name"`
	Title        string                   `json:"title,omitempty"`
	Company      string                   `json:"company,omitempty"`
	Influence    models.InfluenceLevel    `json:"influence"`
	Relationship models.RelationshipLevel `json:"relationship"`
}

// Request is the outbound message delivered to the analysis worker.
type Request struct {
	PlaybookID   string              `json:"playbookId"`
	PlaybookType models.PlaybookType `json:"playbookType"`
	User         RequestUser         `json:"user"`
	Stakeholder  RequestStakeholder  `json:"stakeholder"`
}

// CallbackPayload is the worker's report. It is untrusted input; the receiver
// validates shape before any lookup and never assumes the status vocabulary.
type CallbackPayload struct {
	PlaybookID   string          `json:"playbookId"`
	PlaybookType string          `json:"playbookType"`
	Status       string          `json:"status"`
	Content      json.RawMessage `json:"content,omitempty"`
}
