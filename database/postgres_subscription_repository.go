package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matchpredict-go/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubscriptionRepository implements subscription storage on PostgreSQL
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates a new subscription repository
func NewPostgresSubscriptionRepository(db *Postgres) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: db.Pool}
}

// UpsertSubscription inserts or replaces a user's subscription row
func (r *PostgresSubscriptionRepository) UpsertSubscription(ctx context.Context, sub *models.Subscription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (
			user_id, tier, status, stripe_customer_id, stripe_subscription_id,
			payment_id, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			stripe_customer_id = COALESCE(NULLIF(EXCLUDED.stripe_customer_id, ''), subscriptions.stripe_customer_id),
			stripe_subscription_id = COALESCE(NULLIF(EXCLUDED.stripe_subscription_id, ''), subscriptions.stripe_subscription_id),
			payment_id = COALESCE(NULLIF(EXCLUDED.payment_id, ''), subscriptions.payment_id),
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`, sub.UserID, sub.Tier, sub.Status, sub.StripeCustomerID, sub.StripeSubscriptionID,
		sub.PaymentID, sub.CreatedAt, sub.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// GetSubscription retrieves a user's subscription, nil when absent
func (r *PostgresSubscriptionRepository) GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	var sub models.Subscription
	var customerID, subscriptionID, paymentID sql.NullString

	err := r.pool.QueryRow(ctx, `
		SELECT user_id, tier, status, stripe_customer_id, stripe_subscription_id,
			payment_id, created_at, expires_at
		FROM subscriptions WHERE user_id = $1
	`, userID).Scan(
		&sub.UserID, &sub.Tier, &sub.Status, &customerID, &subscriptionID,
		&paymentID, &sub.CreatedAt, &sub.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	sub.StripeCustomerID = customerID.String
	sub.StripeSubscriptionID = subscriptionID.String
	sub.PaymentID = paymentID.String
	return &sub, nil
}

// UpdateStatus updates a user's subscription status
func (r *PostgresSubscriptionRepository) UpdateStatus(ctx context.Context, userID int64, status, paymentID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE subscriptions SET status = $1, payment_id = $2 WHERE user_id = $3
	`, status, paymentID, userID)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	return nil
}

// ExpireOverdue marks active subscriptions past their expiry as expired and
// returns the number of rows affected.
func (r *PostgresSubscriptionRepository) ExpireOverdue(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subscriptions SET status = $1
		WHERE status = $2 AND expires_at <= NOW()
	`, models.SubscriptionStatusExpired, models.SubscriptionStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}
