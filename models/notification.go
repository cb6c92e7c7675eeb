package models

import "time"

// NotificationType categorizes user-facing notifications
type NotificationType string

const (
	NotificationFavoriteAdded   NotificationType = "favorite_added"
	NotificationFavoriteRemoved NotificationType = "favorite_removed"
	NotificationMatchResolved   NotificationType = "match_resolved"
	NotificationSubscription    NotificationType = "subscription"
)

// Notification is a transient user-facing message raised by the service layer
type Notification struct {
	ID        string           `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
