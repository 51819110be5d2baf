package models

import "time"

type SubscriptionTier string

const (
	TierFree SubscriptionTier = "free"
	TierPro  SubscriptionTier = "pro"
	TierTeam SubscriptionTier = "team"
)

// PendingLimit is the per-tier cap on concurrently PENDING playbooks.
func (t SubscriptionTier) PendingLimit() int {
	switch t {
	case TierPro:
		return 5
	case TierTeam:
		return 20
	default:
		return 1
	}
}

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
)

// Subscription mirrors the billing provider's state for a user. Mutated only
// by the billing webhook handler.
type Subscription struct {
	UserID           string             `json:"userId" db:"user_id"`
	Tier             SubscriptionTier   `json:"tier" db:"tier"`
	Status           SubscriptionStatus `json:"status" db:"status"`
	StripeCustomerID string             `json:"stripeCustomerId,omitempty" db:"stripe_customer_id"`
	CurrentPeriodEnd time.Time          `json:"currentPeriodEnd" db:"current_period_end"`
	UpdatedAt        time.Time          `json:"updatedAt" db:"updated_at"`
}

// EffectiveTier treats anything but an active subscription as free.
func (s *Subscription) EffectiveTier() SubscriptionTier {
	if s == nil || s.Status != SubscriptionActive {
		return TierFree
	}
	return s.Tier
}
