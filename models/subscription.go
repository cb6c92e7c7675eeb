package models

import "time"

// Subscription tiers
const (
	TierFree = "free"
	TierPro  = "pro"
)

// Subscription payment statuses
const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
)

// Subscription tracks a user's paid tier, mirrored from the billing provider
// via webhook events.
type Subscription struct {
	UserID               int64     `json:"user_id"`
	Tier                 string    `json:"tier"`
	Status               string    `json:"status"`
	StripeCustomerID     string    `json:"-"`
	StripeSubscriptionID string    `json:"-"`
	PaymentID            string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	ExpiresAt            time.Time `json:"expires_at"`
}

// IsActive returns true when the subscription grants paid-tier access
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive && time.Now().Before(s.ExpiresAt)
}
