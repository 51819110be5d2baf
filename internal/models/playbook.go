// internal/models/playbook.go
package models

import (
	"encoding/json"
	"time"
)

type PlaybookType string

const (
	PlaybookTypeStakeholder  PlaybookType = "STAKEHOLDER"
	PlaybookTypeRelationship PlaybookType = "RELATIONSHIP"
)

func (t PlaybookType) Valid() bool {
	return t == PlaybookTypeStakeholder || t == PlaybookTypeRelationship
}

type PlaybookStatus string

const (
	PlaybookStatusPending   PlaybookStatus = "PENDING"
	PlaybookStatusCompleted PlaybookStatus = "COMPLETED"
	PlaybookStatusFailed    PlaybookStatus = "FAILED"
)

// IsTerminal reports whether the status can no longer change back to PENDING.
func (s PlaybookStatus) IsTerminal() bool {
	return s == PlaybookStatusCompleted || s == PlaybookStatusFailed
}

// Playbook is the persisted record of a generation request. Inserted PENDING by
// the dispatcher; status and content are only mutated by callback
// reconciliation and the pending reaper.
type Playbook struct {
	ID            string          `json:"id" db:"id"`
	UserID        string          `json:"userId" db:"user_id"`
	StakeholderID string          `json:"stakeholderId,omitempty" db:"stakeholder_id"`
	Type          PlaybookType    `json:"playbookType" db:"playbook_type"`
	Status        PlaybookStatus  `json:"status" db:"status"`
	Content       json.RawMessage `json:"content,omitempty" db:"content"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}
