package models

import "time"

// ChatMessage is a single message in the global match-day chat room
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessageRequest represents the post-message form data
type ChatMessageRequest struct {
	Content string `json:"content"`
}
