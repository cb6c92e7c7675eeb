package handlers

import (
	"net/http"

	"matchpredict-go/middleware"
	"matchpredict-go/services"

	"github.com/rs/zerolog/log"
)

// EventsHandler streams live updates (chat, notifications, finished matches)
// to the browser over Server-Sent Events.
type EventsHandler struct {
	hub *services.EventHub
}

// NewEventsHandler creates a new SSE events handler
func NewEventsHandler(hub *services.EventHub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/events. Authentication is optional: anonymous
// clients receive broadcasts only, authenticated clients also get their
// personal notifications.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var userID int64
	if user := middleware.GetUserFromContext(r); user != nil {
		userID = user.ID
	}

	client := h.hub.Register(userID)
	defer h.hub.Unregister(client)

	// Tell the client the stream is live before the first real event
	if _, err := w.Write([]byte("event: connected\ndata: {}\n\n")); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case msg, open := <-client.Channel:
			if !open {
				return
			}
			if _, err := w.Write([]byte(msg)); err != nil {
				log.Debug().Err(err).Msg("sse client write failed")
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
