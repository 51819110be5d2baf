// internal/store/playbooks.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"playbook-engine/internal/models"
)

// PlaybookStore is the single shared mutable resource of the generation
// protocol. Insert happens at dispatch time, Reconcile at callback time, and
// FailPendingBefore in the reaper; nothing else writes status or content.
type PlaybookStore interface {
	Create(ctx context.Context, p *models.Playbook) error
	GetByID(ctx context.Context, id string) (*models.Playbook, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Playbook, error)
	ListByUser(ctx context.Context, userID string) ([]models.Playbook, error)
	ListAll(ctx context.Context, limit int) ([]models.Playbook, error)
	CountPendingByUser(ctx context.Context, userID string) (int, error)

	// Reconcile atomically replaces status and content for one record and
	// reports the status the record held before the write, so callers can
	// tell a first reconciliation from a replayed one. Last write wins for
	// terminal-to-terminal overwrites; a PENDING status is never written.
	// Returns NotFound when id does not exist.
	Reconcile(ctx context.Context, id string, status models.PlaybookStatus, content json.RawMessage) (models.PlaybookStatus, error)

	// FailPendingBefore marks PENDING records created before the cutoff as
	// FAILED and returns how many were affected.
	FailPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)

	DeleteForUser(ctx context.Context, id, userID string) error
}

type postgresPlaybookStore struct {
	db *sql.DB
}

func NewPlaybookStore(db *sql.DB) PlaybookStore {
	return &postgresPlaybookStore{db: db}
}

const playbookColumns = `id, user_id, stakeholder_id, playbook_type, status, content, created_at, updated_at`

func (s *postgresPlaybookStore) Create(ctx context.Context, p *models.Playbook) error {
	query := `INSERT INTO playbooks (id, user_id, stakeholder_id, playbook_type, status, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NOW(), NOW())`
	_, err := s.db.ExecContext(ctx, query, p.ID, p.UserID, p.StakeholderID, p.Type, p.Status)
	return wrapDBError(err, "playbook", p.ID)
}

func (s *postgresPlaybookStore) GetByID(ctx context.Context, id string) (*models.Playbook, error) {
	query := `SELECT ` + playbookColumns + ` FROM playbooks WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id), id)
}

func (s *postgresPlaybookStore) GetForUser(ctx context.Context, id, userID string) (*models.Playbook, error) {
	query := `SELECT ` + playbookColumns + ` FROM playbooks WHERE id = $1 AND user_id = $2`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id, userID), id)
}

func (s *postgresPlaybookStore) ListByUser(ctx context.Context, userID string) ([]models.Playbook, error) {
	query := `SELECT ` + playbookColumns + ` FROM playbooks WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapDBError(err, "playbook", "")
	}
	defer rows.Close()
	return s.scanMany(rows)
}

func (s *postgresPlaybookStore) ListAll(ctx context.Context, limit int) ([]models.Playbook, error) {
	query := `SELECT ` + playbookColumns + ` FROM playbooks ORDER BY created_at DESC LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, wrapDBError(err, "playbook", "")
	}
	defer rows.Close()
	return s.scanMany(rows)
}

func (s *postgresPlaybookStore) CountPendingByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM playbooks WHERE user_id = $1 AND status = $2`
	err := s.db.QueryRowContext(ctx, query, userID, models.PlaybookStatusPending).Scan(&count)
	if err != nil {
		return 0, wrapDBError(err, "playbook", "")
	}
	return count, nil
}

// Reconcile is a single guarded UPDATE so concurrent duplicate callbacks for
// the same id cannot produce a lost update or a regression to PENDING. The
// row lock in the subquery pins the prior status the RETURNING clause reads.
func (s *postgresPlaybookStore) Reconcile(ctx context.Context, id string, status models.PlaybookStatus, content json.RawMessage) (models.PlaybookStatus, error) {
	query := `UPDATE playbooks p SET status = $2, content = $3, updated_at = NOW()
		FROM (SELECT id, status FROM playbooks WHERE id = $1 FOR UPDATE) prev
		WHERE p.id = prev.id AND $2 <> 'PENDING'
		RETURNING prev.status`
	var prior models.PlaybookStatus
	err := s.db.QueryRowContext(ctx, query, id, status, []byte(content)).Scan(&prior)
	if err != nil {
		return "", wrapDBError(err, "playbook", id)
	}
	return prior, nil
}

func (s *postgresPlaybookStore) FailPendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE playbooks SET status = $2, content = $3, updated_at = NOW()
		WHERE status = $4 AND created_at < $1`
	expired := []byte(`{"error":"generation timed out"}`)
	res, err := s.db.ExecContext(ctx, query, cutoff, models.PlaybookStatusFailed, expired, models.PlaybookStatusPending)
	if err != nil {
		return 0, wrapDBError(err, "playbook", "")
	}
	return res.RowsAffected()
}

func (s *postgresPlaybookStore) DeleteForUser(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playbooks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapDBError(err, "playbook", id)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return wrapDBError(sql.ErrNoRows, "playbook", id)
	}
	return nil
}

func (s *postgresPlaybookStore) scanOne(row *sql.Row, id string) (*models.Playbook, error) {
	var p models.Playbook
	var stakeholderID sql.NullString
	var content []byte
	err := row.Scan(&p.ID, &p.UserID, &stakeholderID, &p.Type, &p.Status, &content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(err, "playbook", id)
	}
	p.StakeholderID = stakeholderID.String
	p.Content = json.RawMessage(content)
	return &p, nil
}

func (s *postgresPlaybookStore) scanMany(rows *sql.Rows) ([]models.Playbook, error) {
	var out []models.Playbook
	for rows.Next() {
		var p models.Playbook
		var stakeholderID sql.NullString
		var content []byte
		if err := rows.Scan(&p.ID, &p.UserID, &stakeholderID, &p.Type, &p.Status, &content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, wrapDBError(err, "playbook", "")
		}
		p.StakeholderID = stakeholderID.String
		p.Content = json.RawMessage(content)
		out = append(out, p)
	}
	return out, wrapDBError(rows.Err(), "playbook", "")
}
