// internal/store/stakeholders.go
package store

import (
	"context"
	"database/sql"

	"playbook-engine/internal/models"
)

type StakeholderStore interface {
	Create(ctx context.Context, s *models.Stakeholder) error
	GetForUser(ctx context.Context, id, userID string) (*models.Stakeholder, error)
	ListByUser(ctx context.Context, userID string) ([]models.Stakeholder, error)
	Update(ctx context.Context, s *models.Stakeholder) error
	DeleteForUser(ctx context.Context, id, userID string) error
}

type postgresStakeholderStore struct {
	db *sql.DB
}

func NewStakeholderStore(db *sql.DB) StakeholderStore {
	return &postgresStakeholderStore{db: db}
}

const stakeholderColumns = `id, user_id, name, title, company, influence, relationship, notes, created_at, updated_at`

func (s *postgresStakeholderStore) Create(ctx context.Context, sh *models.Stakeholder) error {
	query := `INSERT INTO stakeholders (id, user_id, name, title, company, influence, relationship, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`
	_, err := s.db.ExecContext(ctx, query,
		sh.ID, sh.UserID, sh.Name, sh.Title, sh.Company, sh.Influence, sh.Relationship, sh.Notes)
	return wrapDBError(err, "stakeholder", sh.ID)
}

func (s *postgresStakeholderStore) GetForUser(ctx context.Context, id, userID string) (*models.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders WHERE id = $1 AND user_id = $2`
	var sh models.Stakeholder
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&sh.ID, &sh.UserID, &sh.Name, &sh.Title, &sh.Company,
		&sh.Influence, &sh.Relationship, &sh.Notes, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(err, "stakeholder", id)
	}
	return &sh, nil
}

func (s *postgresStakeholderStore) ListByUser(ctx context.Context, userID string) ([]models.Stakeholder, error) {
	query := `SELECT ` + stakeholderColumns + ` FROM stakeholders WHERE user_id = $1 ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapDBError(err, "stakeholder", "")
	}
	defer rows.Close()

	var out []models.Stakeholder
	for rows.Next() {
		var sh models.Stakeholder
		if err := rows.Scan(&sh.ID, &sh.UserID, &sh.Name, &sh.Title, &sh.Company,
			&sh.Influence, &sh.Relationship, &sh.Notes, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
			return nil, wrapDBError(err, "stakeholder", "")
		}
		out = append(out, sh)
	}
	return out, wrapDBError(rows.Err(), "stakeholder", "")
}

func (s *postgresStakeholderStore) Update(ctx context.Context, sh *models.Stakeholder) error {
	query := `UPDATE stakeholders SET name = $3, title = $4, company = $5, influence = $6,
		relationship = $7, notes = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`
	res, err := s.db.ExecContext(ctx, query,
		sh.ID, sh.UserID, sh.Name, sh.Title, sh.Company, sh.Influence, sh.Relationship, sh.Notes)
	if err != nil {
		return wrapDBError(err, "stakeholder", sh.ID)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return wrapDBError(sql.ErrNoRows, "stakeholder", sh.ID)
	}
	return nil
}

func (s *postgresStakeholderStore) DeleteForUser(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stakeholders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapDBError(err, "stakeholder", id)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return wrapDBError(sql.ErrNoRows, "stakeholder", id)
	}
	return nil
}
