package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"matchpredict-go/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// SubscriptionRepository interface for subscription data operations
type SubscriptionRepository interface {
	UpsertSubscription(ctx context.Context, sub *models.Subscription) error
	GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
	UpdateStatus(ctx context.Context, userID int64, status, paymentID string) error
	ExpireOverdue(ctx context.Context) (int64, error)
}

// StripeConfig holds the billing provider credentials
type StripeConfig struct {
	APIKey        string
	PriceID       string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// SubscriptionService integrates with the billing provider: it creates
// checkout sessions and mirrors webhook events into the subscriptions table.
type SubscriptionService struct {
	repo     SubscriptionRepository
	notifier *NotificationService
	cfg      StripeConfig
	logger   zerolog.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo SubscriptionRepository, notifier *NotificationService, cfg StripeConfig) *SubscriptionService {
	stripe.Key = cfg.APIKey
	return &SubscriptionService{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		logger:   log.With().Str("component", "subscription_service").Logger(),
	}
}

// CreateCheckoutSession starts a Stripe checkout for the pro tier and records
// a pending subscription. Returns the hosted checkout URL.
func (s *SubscriptionService) CreateCheckoutSession(ctx context.Context, userID int64) (string, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	now := time.Now()
	sub := &models.Subscription{
		UserID:    userID,
		Tier:      models.TierPro,
		Status:    models.SubscriptionStatusPending,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 1, 0),
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return "", fmt.Errorf("failed to record pending subscription: %w", err)
	}

	s.logger.Info().Int64("user_id", userID).Str("session_id", sess.ID).Msg("checkout session created")
	return sess.URL, nil
}

// VerifyWebhookSignature verifies a Stripe webhook payload and parses the event
func (s *SubscriptionService) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	return &event, err
}

// ProcessWebhookEvent applies a verified billing event to the subscription
// state. Unknown event types are ignored.
func (s *SubscriptionService) ProcessWebhookEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}

		userID, err := userIDFromMetadata(sess.Metadata)
		if err != nil {
			return err
		}

		now := time.Now()
		sub := &models.Subscription{
			UserID:    userID,
			Tier:      models.TierPro,
			Status:    models.SubscriptionStatusActive,
			PaymentID: event.ID,
			CreatedAt: now,
			ExpiresAt: now.AddDate(0, 1, 0),
		}
		if sess.Customer != nil {
			sub.StripeCustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			sub.StripeSubscriptionID = sess.Subscription.ID
		}
		if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
			return fmt.Errorf("failed to activate subscription: %w", err)
		}

		s.logger.Info().Int64("user_id", userID).Msg("subscription activated")
		s.notifier.Notify(ctx, userID, models.NotificationSubscription,
			"Subscription active", "Welcome to the pro tier")
		return nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}

		userID, err := userIDFromMetadata(sub.Metadata)
		if err != nil {
			return err
		}

		if err := s.repo.UpdateStatus(ctx, userID, models.SubscriptionStatusCanceled, event.ID); err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}

		s.logger.Info().Int64("user_id", userID).Msg("subscription canceled")
		s.notifier.Notify(ctx, userID, models.NotificationSubscription,
			"Subscription canceled", "Your pro tier subscription has ended")
		return nil

	default:
		s.logger.Debug().Str("type", string(event.Type)).Msg("ignoring webhook event")
		return nil
	}
}

// GetSubscription returns the user's subscription, defaulting to the free tier
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscription(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return &models.Subscription{UserID: userID, Tier: models.TierFree}, nil
	}
	return sub, nil
}

// ExpireOverdue downgrades active subscriptions whose paid period has lapsed
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) error {
	n, err := s.repo.ExpireOverdue(ctx)
	if err != nil {
		return fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Msg("expired overdue subscriptions")
	}
	return nil
}

func userIDFromMetadata(metadata map[string]string) (int64, error) {
	raw, ok := metadata["user_id"]
	if !ok {
		return 0, fmt.Errorf("user_id not found in event metadata")
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user_id %q: %w", raw, err)
	}
	return userID, nil
}
