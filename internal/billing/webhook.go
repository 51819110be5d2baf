// internal/billing/webhook.go
package billing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	apperrors "playbook-engine/internal/common/errors"
	"playbook-engine/internal/common/logger"
	"playbook-engine/internal/common/metrics"
	"playbook-engine/internal/models"
	"playbook-engine/internal/store"
)

const (
	eventDedupePrefix = "billing:event:"
	eventDedupeTTL    = 24 * time.Hour
	maxBodyBytes      = int64(65536)
)

// WebhookHandler maps Stripe webhook events onto subscription rows. Events
// are verified against the endpoint secret and deduplicated by event id so a
// redelivered event cannot double-apply.
type WebhookHandler struct {
	subscriptions store.SubscriptionStore
	redis         *redis.Client
	secret        string
	logger        logger.Logger
}

func NewWebhookHandler(subscriptions store.SubscriptionStore, rdb *redis.Client, secret string, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		subscriptions: subscriptions,
		redis:         rdb,
		secret:        secret,
		logger:        log.WithFields(map[string]interface{}{"component": "billing-webhook"}),
	}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.secret)
	if err != nil {
		metrics.BillingEvents.WithLabelValues("unknown", "bad_signature").Inc()
		h.logger.Warn("webhook signature verification failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	duplicate, err := h.markProcessed(c.Request.Context(), event.ID)
	if err != nil {
		h.logger.Error("event dedupe check failed", map[string]interface{}{"eventId": event.ID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dedupe check failed"})
		return
	}
	if duplicate {
		metrics.BillingEvents.WithLabelValues(string(event.Type), "duplicate").Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.apply(c.Request.Context(), event); err != nil {
		metrics.BillingEvents.WithLabelValues(string(event.Type), "error").Inc()
		h.logger.Error("billing event failed", map[string]interface{}{
			"eventId":   event.ID,
			"eventType": event.Type,
			"error":     err.Error(),
		})
		// Not-found subscriptions are acked; Stripe retrying will not make
		// the row appear.
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}
		// Release the claim, otherwise the redelivery this 500 asks for
		// would be swallowed as a duplicate.
		h.release(c.Request.Context(), event.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	metrics.BillingEvents.WithLabelValues(string(event.Type), "success").Inc()
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// markProcessed returns true when the event id was already seen.
func (h *WebhookHandler) markProcessed(ctx context.Context, eventID string) (bool, error) {
	ok, err := h.redis.SetNX(ctx, eventDedupePrefix+eventID, 1, eventDedupeTTL).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// release drops the dedupe claim for an event that failed to apply so the
// next delivery attempt is not treated as a replay.
func (h *WebhookHandler) release(ctx context.Context, eventID string) {
	if err := h.redis.Del(ctx, eventDedupePrefix+eventID).Err(); err != nil {
		h.logger.Error("failed to release event claim", map[string]interface{}{
			"eventId": eventID,
			"error":   err.Error(),
		})
	}
}

func (h *WebhookHandler) apply(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return apperrors.NewValidationError("malformed checkout session", err.Error())
		}
		return h.activate(ctx, &session)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return apperrors.NewValidationError("malformed subscription", err.Error())
		}
		return h.subscriptions.UpdateStatusByCustomer(ctx, customerID(sub.Customer), mapStatus(sub.Status))

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return apperrors.NewValidationError("malformed subscription", err.Error())
		}
		return h.subscriptions.UpdateStatusByCustomer(ctx, customerID(sub.Customer), models.SubscriptionCanceled)

	default:
		h.logger.Debug("ignoring billing event", map[string]interface{}{"eventType": event.Type})
		return nil
	}
}

func (h *WebhookHandler) activate(ctx context.Context, session *stripe.CheckoutSession) error {
	userID := session.ClientReferenceID
	if userID == "" {
		return apperrors.NewValidationError("checkout session missing client reference", session.ID)
	}

	tier := models.TierPro
	if t, ok := session.Metadata["tier"]; ok && models.SubscriptionTier(t) != "" {
		switch models.SubscriptionTier(t) {
		case models.TierPro, models.TierTeam:
			tier = models.SubscriptionTier(t)
		}
	}

	sub := &models.Subscription{
		UserID:           userID,
		Tier:             tier,
		Status:           models.SubscriptionActive,
		StripeCustomerID: customerID(session.Customer),
	}
	return h.subscriptions.Upsert(ctx, sub)
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func mapStatus(s stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch s {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return models.SubscriptionActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return models.SubscriptionPastDue
	default:
		return models.SubscriptionCanceled
	}
}
