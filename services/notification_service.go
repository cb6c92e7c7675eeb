package services

import (
	"context"
	"fmt"
	"time"

	"matchpredict-go/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NotificationRepository interface for notification data operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID int64, id string) error
}

// NotificationService persists user-facing notifications and pushes them to
// connected clients over the event hub.
type NotificationService struct {
	repo   NotificationRepository
	hub    *EventHub
	logger zerolog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo NotificationRepository, hub *EventHub) *NotificationService {
	return &NotificationService{
		repo:   repo,
		hub:    hub,
		logger: log.With().Str("component", "notification_service").Logger(),
	}
}

// Notify records a notification and pushes it to the user's live connections.
// Delivery is best effort; a storage failure is logged, not surfaced, since
// notifications are never load-bearing.
func (s *NotificationService) Notify(ctx context.Context, userID int64, kind models.NotificationType, title, message string) {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to store notification")
		return
	}
	if s.hub != nil {
		s.hub.SendToUser(userID, "notification", n)
	}
}

// List returns a user's most recent notifications
func (s *NotificationService) List(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
