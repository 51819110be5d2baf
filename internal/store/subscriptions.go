// internal/store/subscriptions.go
package store

import (
	"context"
	"database/sql"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/models"
)

type SubscriptionStore interface {
	// GetByUserID returns nil (not an error) when the user has never had a
	// subscription; callers treat that as the free tier.
	GetByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	Upsert(ctx context.Context, sub *models.Subscription) error
	UpdateStatusByCustomer(ctx context.Context, stripeCustomerID string, status models.SubscriptionStatus) error
}

type postgresSubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) SubscriptionStore {
	return &postgresSubscriptionStore{db: db}
}

func (s *postgresSubscriptionStore) GetByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	query := `SELECT user_id, tier, status, stripe_customer_id, current_period_end, updated_at
		FROM subscriptions WHERE user_id = $1`
	var sub models.Subscription
	var customerID sql.NullString
	var periodEnd sql.NullTime
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&sub.UserID, &sub.Tier, &sub.Status, &customerID, &periodEnd, &sub.UpdatedAt)
	if err != nil {
		if apperrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapDBError(err, "subscription", userID)
	}
	sub.StripeCustomerID = customerID.String
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = periodEnd.Time
	}
	return &sub, nil
}

func (s *postgresSubscriptionStore) Upsert(ctx context.Context, sub *models.Subscription) error {
	query := `INSERT INTO subscriptions (user_id, tier, status, stripe_customer_id, current_period_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = NOW()`
	_, err := s.db.ExecContext(ctx, query, sub.UserID, sub.Tier, sub.Status, sub.StripeCustomerID, sub.CurrentPeriodEnd)
	return wrapDBError(err, "subscription", sub.UserID)
}

func (s *postgresSubscriptionStore) UpdateStatusByCustomer(ctx context.Context, stripeCustomerID string, status models.SubscriptionStatus) error {
	query := `UPDATE subscriptions SET status = $2, updated_at = NOW() WHERE stripe_customer_id = $1`
	res, err := s.db.ExecContext(ctx, query, stripeCustomerID, status)
	if err != nil {
		return wrapDBError(err, "subscription", stripeCustomerID)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return wrapDBError(sql.ErrNoRows, "subscription", stripeCustomerID)
	}
	return nil
}
