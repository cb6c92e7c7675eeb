package handlers

import (
	"net/http"

	"matchpredict-go/database"
	"matchpredict-go/services"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	db  *database.Postgres
	hub *services.EventHub
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.Postgres, hub *services.EventHub) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.db.Pool.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status":      status,
		"sse_clients": h.hub.ClientCount(),
	})
}
