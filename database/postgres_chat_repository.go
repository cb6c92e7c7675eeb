package database

import (
	"context"
	"fmt"

	"matchpredict-go/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresChatRepository implements chat message storage on PostgreSQL
type PostgresChatRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresChatRepository creates a new chat repository
func NewPostgresChatRepository(db *Postgres) *PostgresChatRepository {
	return &PostgresChatRepository{pool: db.Pool}
}

// CreateMessage inserts a chat message
func (r *PostgresChatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, user_id, user_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, msg.ID, msg.UserID, msg.UserName, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// ListRecent returns the newest messages, reordered oldest first for display
func (r *PostgresChatRepository) ListRecent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, user_name, content, created_at
		FROM chat_messages
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.UserName, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
