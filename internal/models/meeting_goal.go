package models

import "time"

// MeetingGoal is a user-defined objective for an upcoming stakeholder meeting.
type MeetingGoal struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"userId" db:"user_id"`
	StakeholderID string     `json:"stakeholderId,omitempty" db:"stakeholder_id"`
	Description   string     `json:"description" db:"description"`
	TargetDate    *time.Time `json:"targetDate,omitempty" db:"target_date"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}
