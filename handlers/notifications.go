package handlers

import (
	"net/http"
	"strconv"

	"matchpredict-go/middleware"
	"matchpredict-go/services"

	"github.com/gorilla/mux"
)

// NotificationHandler handles listing and acknowledging notifications
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications handles GET /api/notifications?limit=
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	notifications, err := h.notificationService.List(r.Context(), user.ID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.notificationService.MarkRead(r.Context(), user.ID, id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"read": true})
}
