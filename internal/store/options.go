// internal/store/options.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/models"

	"github.com/redis/go-redis/v9"
)

type OptionStore interface {
	ListByCategory(ctx context.Context, category string) ([]models.DropdownOption, error)
	Create(ctx context.Context, o *models.DropdownOption) error
	Delete(ctx context.Context, id string) error
}

type postgresOptionStore struct {
	db *sql.DB
}

func NewOptionStore(db *sql.DB) OptionStore {
	return &postgresOptionStore{db: db}
}

func (s *postgresOptionStore) ListByCategory(ctx context.Context, category string) ([]models.DropdownOption, error) {
	query := `SELECT id, category, value, label, sort_order FROM dropdown_options
		WHERE category = $1 ORDER BY sort_order, label`
	rows, err := s.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, wrapDBError(err, "option", "")
	}
	defer rows.Close()

	var out []models.DropdownOption
	for rows.Next() {
		var o models.DropdownOption
		if err := rows.Scan(&o.ID, &o.Category, &o.Value, &o.Label, &o.SortOrder); err != nil {
			return nil, wrapDBError(err, "option", "")
		}
		out = append(out, o)
	}
	return out, wrapDBError(rows.Err(), "option", "")
}

func (s *postgresOptionStore) Create(ctx context.Context, o *models.DropdownOption) error {
	query := `INSERT INTO dropdown_options (id, category, value, label, sort_order)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, query, o.ID, o.Category, o.Value, o.Label, o.SortOrder)
	return wrapDBError(err, "option", o.ID)
}

func (s *postgresOptionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dropdown_options WHERE id = $1`, id)
	if err != nil {
		return wrapDBError(err, "option", id)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return wrapDBError(sql.ErrNoRows, "option", id)
	}
	return nil
}

// ==========================
// Redis-cached decorator
// ==========================

const optionCacheTTL = 5 * time.Minute

// cachedOptionStore serves dropdown reads from redis; admin mutations
// invalidate the category key so the dashboard sees changes immediately.
type cachedOptionStore struct {
	inner  OptionStore
	redis  *redis.Client
	logger logger.Logger
}

func NewCachedOptionStore(inner OptionStore, rdb *redis.Client, log logger.Logger) OptionStore {
	return &cachedOptionStore{inner: inner, redis: rdb, logger: log}
}

func optionCacheKey(category string) string {
	return "options:" + category
}

func (s *cachedOptionStore) ListByCategory(ctx context.Context, category string) ([]models.DropdownOption, error) {
	key := optionCacheKey(category)
	if val, err := s.redis.Get(ctx, key).Result(); err == nil {
		var cached []models.DropdownOption
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	}

	opts, err := s.inner.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(opts); err == nil {
		if err := s.redis.Set(ctx, key, data, optionCacheTTL).Err(); err != nil {
			s.logger.Warn("option cache write failed", map[string]interface{}{
				"category": category,
				"error":    err.Error(),
			})
		}
	}
	return opts, nil
}

func (s *cachedOptionStore) Create(ctx context.Context, o *models.DropdownOption) error {
	if err := s.inner.Create(ctx, o); err != nil {
		return err
	}
	s.invalidate(ctx, o.Category)
	return nil
}

func (s *cachedOptionStore) Delete(ctx context.Context, id string) error {
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	// The category is unknown at delete time; drop all option keys.
	s.invalidateAll(ctx)
	return nil
}

func (s *cachedOptionStore) invalidate(ctx context.Context, category string) {
	if err := s.redis.Del(ctx, optionCacheKey(category)).Err(); err != nil {
		s.logger.Warn("option cache invalidation failed", map[string]interface{}{
			"category": category,
			"error":    err.Error(),
		})
	}
}

func (s *cachedOptionStore) invalidateAll(ctx context.Context) {
	iter := s.redis.Scan(ctx, 0, "options:*", 100).Iterator()
	for iter.Next(ctx) {
		s.redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("option cache scan failed", map[string]interface{}{"error": err.Error()})
	}
}
