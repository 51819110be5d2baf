package store

import (
	"context"
	"database/sql"

	"playbook-engine/internal/models"
)

type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type postgresUserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) UserStore {
	return &postgresUserStore{db: db}
}

const userColumns = `id, email, name, linkedin_url, created_at, updated_at`

func (s *postgresUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scan(s.db.QueryRowContext(ctx, query, id), id)
}

func (s *postgresUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scan(s.db.QueryRowContext(ctx, query, email), email)
}

func (s *postgresUserStore) scan(row *sql.Row, id string) (*models.User, error) {
	var u models.User
	var linkedin sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Name, &linkedin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, wrapDBError(err, "user", id)
	}
	u.LinkedInURL = linkedin.String
	return &u, nil
}
