package handlers

import (
	"net/http"
	"strconv"
	"time"

	"matchpredict-go/middleware"
	"matchpredict-go/models"
	"matchpredict-go/services"
)

// PredictionHandler handles prediction submission and listing
type PredictionHandler struct {
	predictionService *services.PredictionService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// SubmitPrediction handles POST /api/predictions
func (h *PredictionHandler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.PredictionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pred, err := h.predictionService.SubmitPrediction(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, pred)
}

// GetMyPredictions handles GET /api/predictions?period=&league_id=
func (h *PredictionHandler) GetMyPredictions(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter, err := parseTimeFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var leagueID *int64
	if raw := r.URL.Query().Get("league_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid league_id")
			return
		}
		leagueID = &parsed
	}

	preds, err := h.predictionService.GetUserPredictions(r.Context(), user.ID, leagueID, filter, time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load predictions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"predictions": preds})
}
