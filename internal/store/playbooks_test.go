// internal/store/playbooks_test.go
package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/models"
)

func newMockStore(t *testing.T) (PlaybookStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPlaybookStore(db), mock
}

func TestPlaybookStore_Create(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO playbooks`).
		WithArgs("pb-1", "user-1", "stk-1", models.PlaybookTypeStakeholder, models.PlaybookStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Create(context.Background(), &models.Playbook{
		ID:            "pb-1",
		UserID:        "user-1",
		StakeholderID: "stk-1",
		Type:          models.PlaybookTypeStakeholder,
		Status:        models.PlaybookStatusPending,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaybookStore_Reconcile(t *testing.T) {
	tests := []struct {
		name      string
		status    models.PlaybookStatus
		prior     models.PlaybookStatus
		wantKind  apperrors.Kind
		wantPrior models.PlaybookStatus
	}{
		{
			name:      "completed with content",
			status:    models.PlaybookStatusCompleted,
			prior:     models.PlaybookStatusPending,
			wantPrior: models.PlaybookStatusPending,
		},
		{
			name:      "failed overwrites completed",
			status:    models.PlaybookStatusFailed,
			prior:     models.PlaybookStatusCompleted,
			wantPrior: models.PlaybookStatusCompleted,
		},
		{
			name:     "unknown id leaves nothing updated",
			status:   models.PlaybookStatusCompleted,
			wantKind: apperrors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			content := json.RawMessage(`{"summary":"text"}`)

			rows := sqlmock.NewRows([]string{"status"})
			if tt.prior != "" {
				rows.AddRow(string(tt.prior))
			}
			mock.ExpectQuery(`UPDATE playbooks p SET status = \$2, content = \$3`).
				WithArgs("pb-1", tt.status, []byte(content)).
				WillReturnRows(rows)

			prior, err := store.Reconcile(context.Background(), "pb-1", tt.status, content)
			if tt.wantKind != "" {
				assert.True(t, apperrors.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPrior, prior)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPlaybookStore_FailPendingBefore(t *testing.T) {
	store, mock := newMockStore(t)
	cutoff := time.Now().Add(-30 * time.Minute)

	mock.ExpectExec(`UPDATE playbooks SET status = \$2`).
		WithArgs(cutoff, models.PlaybookStatusFailed, sqlmock.AnyArg(), models.PlaybookStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := store.FailPendingBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaybookStore_GetForUser(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "stakeholder_id", "playbook_type", "status", "content", "created_at", "updated_at",
	}).AddRow("pb-1", "user-1", "stk-1", "STAKEHOLDER", "COMPLETED", []byte(`{"summary":"s"}`), now, now)

	mock.ExpectQuery(`SELECT .+ FROM playbooks WHERE id = \$1 AND user_id = \$2`).
		WithArgs("pb-1", "user-1").
		WillReturnRows(rows)

	p, err := store.GetForUser(context.Background(), "pb-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.PlaybookStatusCompleted, p.Status)
	assert.JSONEq(t, `{"summary":"s"}`, string(p.Content))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaybookStore_GetForUser_NotOwned(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM playbooks WHERE id = \$1 AND user_id = \$2`).
		WithArgs("pb-1", "someone-else").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "stakeholder_id", "playbook_type", "status", "content", "created_at", "updated_at",
		}))

	_, err := store.GetForUser(context.Background(), "pb-1", "someone-else")
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaybookStore_CountPendingByUser(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM playbooks`).
		WithArgs("user-1", models.PlaybookStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := store.CountPendingByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPlaybookStore_DeleteForUser_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM playbooks`).
		WithArgs("pb-missing", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteForUser(context.Background(), "pb-missing", "user-1")
	assert.True(t, apperrors.IsNotFound(err))
}
