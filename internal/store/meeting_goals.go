package store

import (
	"context"
	"database/sql"

	"playbook-engine/internal/models"
)

type MeetingGoalStore interface {
	Create(ctx context.Context, g *models.MeetingGoal) error
	ListByUser(ctx context.Context, userID string) ([]models.MeetingGoal, error)
	DeleteForUser(ctx context.Context, id, userID string) error
}

type postgresMeetingGoalStore struct {
	db *sql.DB
}

func NewMeetingGoalStore(db *sql.DB) MeetingGoalStore {
	return &postgresMeetingGoalStore{db: db}
}

func (s *postgresMeetingGoalStore) Create(ctx context.Context, g *models.MeetingGoal) error {
	query := `INSERT INTO meeting_goals (id, user_id, stakeholder_id, description, target_date, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NOW(), NOW())`
	_, err := s.db.ExecContext(ctx, query, g.ID, g.UserID, g.StakeholderID, g.Description, g.TargetDate)
	return wrapDBError(err, "meeting goal", g.ID)
}

func (s *postgresMeetingGoalStore) ListByUser(ctx context.Context, userID string) ([]models.MeetingGoal, error) {
	query := `SELECT id, user_id, stakeholder_id, description, target_date, created_at, updated_at
		FROM meeting_goals WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapDBError(err, "meeting goal", "")
	}
	defer rows.Close()

	var out []models.MeetingGoal
	for rows.Next() {
		var g models.MeetingGoal
		var stakeholderID sql.NullString
		var target sql.NullTime
		if err := rows.Scan(&g.ID, &g.UserID, &stakeholderID, &g.Description, &target, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, wrapDBError(err, "meeting goal", "")
		}
		g.StakeholderID = stakeholderID.String
		if target.Valid {
			t := target.Time
			g.TargetDate = &t
		}
		out = append(out, g)
	}
	return out, wrapDBError(rows.Err(), "meeting goal", "")
}

func (s *postgresMeetingGoalStore) DeleteForUser(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM meeting_goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapDBError(err, "meeting goal", id)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return wrapDBError(sql.ErrNoRows, "meeting goal", id)
	}
	return nil
}
