// internal/playbook/dispatcher.go
package playbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"playbook-engine/internal/common/config"
	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/httpclient"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/common/metrics"
	"playbook-engine/internal/common/observability"
	"playbook-engine/internal/models"
	"playbook-engine/internal/store"
)

// Alerter is told about failed worker deliveries so operators hear about a
// broken worker before users do.
type Alerter interface {
	DispatchFailed(ctx context.Context, endpoint string, cause error)
}

// Dispatcher starts a playbook generation: it validates ownership, persists a
// PENDING record, and makes exactly one delivery attempt to the analysis
// worker. A failed delivery leaves the PENDING record in place so the caller
// can re-dispatch.
type Dispatcher struct {
	users         store.UserStore
	stakeholders  store.StakeholderStore
	playbooks     store.PlaybookStore
	subscriptions store.SubscriptionStore
	client        *httpclient.Client
	config        config.WorkerConfig
	obs           *observability.Observability
	alerts        Alerter
	logger        logger.Logger
}

func NewDispatcher(
	users store.UserStore,
	stakeholders store.StakeholderStore,
	playbooks store.PlaybookStore,
	subscriptions store.SubscriptionStore,
	cfg config.WorkerConfig,
	obs *observability.Observability,
	alerts Alerter,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:         users,
		stakeholders:  stakeholders,
		playbooks:     playbooks,
		subscriptions: subscriptions,
		client:        httpclient.NewClient(cfg.DispatchTimeout()),
		config:        cfg,
		obs:           obs,
		alerts:        alerts,
		logger:        log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Dispatch validates the request, inserts the PENDING record, and posts the
// generation request to the worker. The record is always persisted before the
// network call so a callback has something to reconcile against even when the
// send fails.
func (d *Dispatcher) Dispatch(ctx context.Context, input DispatchInput) (*models.Playbook, error) {
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("invalid playbook type", string(input.Type))
	}

	user, err := d.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	// Owner-scoped lookup; a stakeholder belonging to someone else is
	// indistinguishable from a missing one.
	stakeholder, err := d.stakeholders.GetForUser(ctx, input.StakeholderID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := d.checkPendingQuota(ctx, input.UserID); err != nil {
		return nil, err
	}

	record := &models.Playbook{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		StakeholderID: stakeholder.ID,
		Type:          input.Type,
		Status:        models.PlaybookStatusPending,
	}
	if err := d.playbooks.Create(ctx, record); err != nil {
		return nil, err
	}

	request := Request{
		PlaybookID:   record.ID,
		PlaybookType: record.Type,
		User: RequestUser{
			Name:        user.Name,
			LinkedInURL: user.LinkedInURL,
		},
		Stakeholder: RequestStakeholder{
			Name:         stakeholder.Name,
			Title:        stakeholder.Title,
			Company:      stakeholder.Company,
			Influence:    stakeholder.Influence,
			Relationship: stakeholder.Relationship,
		},
	}

	start := time.Now()
	err = d.deliver(ctx, request)
	outcome := "success"
	if err != nil {
		outcome = "delivery_error"
	}
	metrics.PlaybooksDispatched.WithLabelValues(string(record.Type), outcome).Inc()
	if d.obs != nil {
		d.obs.RecordDispatch(ctx, outcome)
		d.obs.RecordDispatchDuration(ctx, time.Since(start), outcome)
	}
	if err != nil {
		// The PENDING record stays in place so a later callback or manual
		// re-dispatch can still resolve it.
		d.logger.Error("worker dispatch failed", map[string]interface{}{
			"playbookId": record.ID,
			"error":      err.Error(),
		})
		if d.alerts != nil {
			d.alerts.DispatchFailed(ctx, d.config.Endpoint, err)
		}
		return nil, err
	}

	d.logger.Info("playbook dispatched", map[string]interface{}{
		"playbookId":    record.ID,
		"playbookType":  record.Type,
		"stakeholderId": stakeholder.ID,
	})
	return record, nil
}

// checkPendingQuota enforces the per-tier cap on concurrently PENDING
// playbooks.
func (d *Dispatcher) checkPendingQuota(ctx context.Context, userID string) error {
	sub, err := d.subscriptions.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	limit := sub.EffectiveTier().PendingLimit()

	pending, err := d.playbooks.CountPendingByUser(ctx, userID)
	if err != nil {
		return err
	}
	if pending >= limit {
		return apperrors.NewConflictError(
			"pending playbook limit reached",
			fmt.Sprintf("%d of %d generations still pending", pending, limit),
		)
	}
	return nil
}

// deliver makes the single outbound attempt. Network failures and non-2xx
// responses both surface as delivery errors.
func (d *Dispatcher) deliver(ctx context.Context, request Request) error {
	body, err := json.Marshal(request)
	if err != nil {
		return apperrors.NewInternalError("encode playbook request", err)
	}

	req, err := http.NewRequest(http.MethodPost, d.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.NewInternalError("build worker request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.config.CallbackToken != "" {
		req.Header.Set("X-Callback-Token", d.config.CallbackToken)
	}

	resp, err := d.client.DoWithContext(ctx, req)
	if err != nil {
		return apperrors.NewDeliveryError(d.config.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewDeliveryError(d.config.Endpoint, fmt.Errorf("worker responded %d", resp.StatusCode))
	}
	return nil
}
