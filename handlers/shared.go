package handlers

import (
	"encoding/json"
	"net/http"

	"matchpredict-go/models"

	"github.com/rs/zerolog/log"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses the request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// parseTimeFilter reads the "period" query parameter, defaulting to all-time
// when absent. A present but unrecognized value is a client error.
func parseTimeFilter(r *http.Request) (models.TimeFilter, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return models.TimeFilterAll, nil
	}
	return models.ParseTimeFilter(raw)
}
