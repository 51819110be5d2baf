package models

import "time"

type InfluenceLevel string

const (
	InfluenceHigh   InfluenceLevel = "HIGH"
	InfluenceMedium InfluenceLevel = "MEDIUM"
	InfluenceLow    InfluenceLevel = "LOW"
)

func (l InfluenceLevel) Valid() bool {
	switch l {
	case InfluenceHigh, InfluenceMedium, InfluenceLow:
		return true
	}
	return false
}

type RelationshipLevel string

const (
	RelationshipAlly      RelationshipLevel = "ALLY"
	RelationshipNeutral   RelationshipLevel = "NEUTRAL"
	RelationshipSkeptical RelationshipLevel = "SKEPTICAL"
	RelationshipOpponent  RelationshipLevel = "OPPONENT"
)

func (l RelationshipLevel) Valid() bool {
	switch l {
	case RelationshipAlly, RelationshipNeutral, RelationshipSkeptical, RelationshipOpponent:
		return true
	}
	return false
}

// Stakeholder is a person profile a playbook is generated about. Owned by a
// single user; all reads and writes are scoped to the owner.
type Stakeholder struct {
	ID           string            `json:"id" db:"id"`
	UserID       string            `json:"userId" db:"user_id"`
	Name         string            `json:"name" db:"name"`
	Title        string            `json:"title,omitempty" db:"title"`
	Company      string            `json:"company,omitempty" db:"company"`
	Influence    InfluenceLevel    `json:"influence" db:"influence"`
	Relationship RelationshipLevel `json:"relationship" db:"relationship"`
	Notes        string            `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}
