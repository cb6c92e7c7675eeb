package database

import (
	"context"
	"fmt"

	"matchpredict-go/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresNotificationRepository implements notification storage on PostgreSQL
type PostgresNotificationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresNotificationRepository creates a new notification repository
func NewPostgresNotificationRepository(db *Postgres) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{pool: db.Pool}
}

// CreateNotification inserts a notification row
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser returns a user's newest notifications first
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead marks one of the user's notifications as read
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID int64, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE user_id = $1 AND id = $2
	`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
