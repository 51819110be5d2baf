package models

// DropdownOption is an admin-managed choice offered in dashboard forms
// (influence levels, relationship levels, industries and similar categories).
type DropdownOption struct {
	ID        string `json:"id" db:"id"`
	Category  string `json:"category" db:"category"`
	Value     string `json:"value" db:"value"`
	Label     string `json:"label" db:"label"`
	SortOrder int    `json:"sortOrder" db:"sort_order"`
}
