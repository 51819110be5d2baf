package store

import (
	"database/sql"

	apperrors "playbook-engine/internal/common/errors"

	"github.com/lib/pq"
)

// Postgres error classes we care about. Anything else is surfaced as an
// internal error so callers never branch on driver codes.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqCheckViolation      = "23514"
)

// wrapDBError translates driver-level failures into the tagged error taxonomy.
func wrapDBError(err error, resource, id string) error {
	if err == nil {
		return nil
	}
	if apperrors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(resource, id)
	}
	var pqErr *pq.Error
	if apperrors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return apperrors.NewConflictError(resource+" already exists", pqErr.Detail)
		case pqForeignKeyViolation, pqNotNullViolation, pqCheckViolation:
			return apperrors.NewValidationError("invalid "+resource, pqErr.Message)
		}
	}
	return apperrors.NewInternalError("database error", err)
}
