package handlers

import (
	"net/http"
	"strconv"

	"matchpredict-go/middleware"
	"matchpredict-go/models"
	"matchpredict-go/services"
)

// ChatHandler handles the global chat room
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetHistory handles GET /api/chat?limit=
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	messages, err := h.chatService.GetHistory(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// PostMessage handles POST /api/chat
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.ChatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.chatService.PostMessage(r.Context(), user, req.Content)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}
