// internal/playbook/receiver.go
package playbook

import (
	"context"
	"encoding/json"
	"time"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/common/metrics"
	"playbook-engine/internal/models"
	"playbook-engine/internal/store"
)

// Notifier is told about completed playbooks. Implementations are best
// effort; reconciliation never fails because a notification did.
type Notifier interface {
	PlaybookCompleted(ctx context.Context, p *models.Playbook)
}

// Receiver reconciles worker callbacks into the playbook store. It is an
// idempotent sink: duplicate callbacks for the same id are acknowledged and
// simply overwrite, with the store's atomic guarded update preventing both
// lost updates and regressions to PENDING.
type Receiver struct {
	playbooks store.PlaybookStore
	notifier  Notifier
	logger    logger.Logger
}

func NewReceiver(playbooks store.PlaybookStore, notifier Notifier, log logger.Logger) *Receiver {
	return &Receiver{
		playbooks: playbooks,
		notifier:  notifier,
		logger:    log.WithFields(map[string]interface{}{"component": "callback-receiver"}),
	}
}

// Process validates, reconciles, and persists one callback body. Returns a
// ValidationError for structurally bad payloads and a NotFoundError when the
// playbookId resolves to nothing; in both cases no record is mutated.
func (r *Receiver) Process(ctx context.Context, body []byte) error {
	start := time.Now()
	err := r.process(ctx, body)
	metrics.CallbackDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.CallbacksReceived.WithLabelValues("success").Inc()
	case apperrors.IsValidation(err):
		metrics.CallbacksReceived.WithLabelValues("invalid").Inc()
	case apperrors.IsNotFound(err):
		metrics.CallbacksReceived.WithLabelValues("unknown_id").Inc()
	default:
		metrics.CallbacksReceived.WithLabelValues("error").Inc()
	}
	return err
}

func (r *Receiver) process(ctx context.Context, body []byte) error {
	if err := ValidateCallback(body); err != nil {
		return err
	}

	var payload CallbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperrors.NewValidationError("malformed callback payload", err.Error())
	}

	resolution := Reconcile(payload)

	// Unknown ids fall out of the guarded update untouched and come back as
	// NotFound; duplicates overwrite and succeed.
	prior, err := r.playbooks.Reconcile(ctx, payload.PlaybookID, resolution.Status, resolution.Content)
	if err != nil {
		return err
	}

	r.logger.Info("callback reconciled", map[string]interface{}{
		"playbookId":   payload.PlaybookID,
		"workerStatus": payload.Status,
		"status":       resolution.Status,
		"priorStatus":  prior,
	})

	// Only the transition out of PENDING notifies; a replayed COMPLETED
	// callback would otherwise re-send the mail on every delivery.
	completed := resolution.Status == models.PlaybookStatusCompleted && prior == models.PlaybookStatusPending
	if completed && r.notifier != nil {
		if record, err := r.playbooks.GetByID(ctx, payload.PlaybookID); err == nil {
			r.notifier.PlaybookCompleted(ctx, record)
		}
	}
	return nil
}
