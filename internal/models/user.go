package models

import "time"

// User is the requesting identity. Authentication itself is delegated to the
// session layer; this record carries the profile fields the dispatcher embeds
// into outbound playbook requests.
type User struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	Name        string    `json:"name" db:"name"`
	LinkedInURL string    `json:"linkedinUrl,omitempty" db:"linkedin_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
