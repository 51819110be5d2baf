package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthorized(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		allowlist []string
		want      bool
	}{
		{"listed email", "admin@example.com", []string{"admin@example.com"}, true},
		{"case insensitive", "Admin@Example.com", []string{"admin@example.com"}, true},
		{"allowlist entry with whitespace", "admin@example.com", []string{" admin@example.com "}, true},
		{"unlisted email", "user@example.com", []string{"admin@example.com"}, false},
		{"empty allowlist", "admin@example.com", nil, false},
		{"empty email", "", []string{"admin@example.com"}, false},
		{"empty email against empty entry", "", []string{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthorized(tt.email, tt.allowlist))
		})
	}
}
