package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchpredict-go/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxChatMessageLength = 500

// ChatRepository interface for chat message data operations
type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	ListRecent(ctx context.Context, limit int) ([]models.ChatMessage, error)
}

// ChatService handles the global match-day chat room: persistence plus live
// fan-out over the event hub.
type ChatService struct {
	repo   ChatRepository
	hub    *EventHub
	logger zerolog.Logger
}

// NewChatService creates a new chat service
func NewChatService(repo ChatRepository, hub *EventHub) *ChatService {
	return &ChatService{
		repo:   repo,
		hub:    hub,
		logger: log.With().Str("component", "chat_service").Logger(),
	}
}

// PostMessage stores a chat message and broadcasts it to connected clients
func (s *ChatService) PostMessage(ctx context.Context, user *models.User, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("message is empty")
	}
	if len(content) > maxChatMessageLength {
		return nil, fmt.Errorf("message exceeds %d characters", maxChatMessageLength)
	}

	msg := &models.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserName:  user.Name,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast("chat", msg)
	}
	s.logger.Debug().Int64("user_id", user.ID).Msg("chat message posted")
	return msg, nil
}

// GetHistory returns the most recent chat messages, oldest first
func (s *ChatService) GetHistory(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	messages, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
