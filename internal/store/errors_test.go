package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperrors "playbook-engine/internal/common/errors"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apperrors.Kind
	}{
		{
			name:     "no rows maps to not found",
			err:      sql.ErrNoRows,
			wantKind: apperrors.KindNotFound,
		},
		{
			name:     "unique violation maps to conflict",
			err:      &pq.Error{Code: "23505", Detail: "duplicate key"},
			wantKind: apperrors.KindConflict,
		},
		{
			name:     "foreign key violation maps to validation",
			err:      &pq.Error{Code: "23503"},
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "not null violation maps to validation",
			err:      &pq.Error{Code: "23502"},
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "check violation maps to validation",
			err:      &pq.Error{Code: "23514"},
			wantKind: apperrors.KindValidation,
		},
		{
			name:     "anything else maps to internal",
			err:      errors.New("connection refused"),
			wantKind: apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapDBError(tt.err, "playbook", "pb-1")
			assert.True(t, apperrors.IsKind(got, tt.wantKind), "got kind %s", apperrors.KindOf(got))
		})
	}
}

func TestWrapDBError_NilPassesThrough(t *testing.T) {
	assert.NoError(t, wrapDBError(nil, "playbook", "pb-1"))
}
