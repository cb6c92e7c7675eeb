package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"matchpredict-go/middleware"
	"matchpredict-go/services"
)

// StatsHandler serves per-day accuracy charts, cohort metrics and the leaderboard
type StatsHandler struct {
	statsService       *services.StatsService
	leaderboardService *services.LeaderboardService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService, leaderboardService *services.LeaderboardService) *StatsHandler {
	return &StatsHandler{
		statsService:       statsService,
		leaderboardService: leaderboardService,
	}
}

// GetDailyStats handles GET /api/stats/daily?period=&league_id=
func (h *StatsHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
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
	leagueID, err := parseLeagueID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	buckets, err := h.statsService.GetDailyStats(r.Context(), user.ID, leagueID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"period": filter,
		"days":   buckets,
	})
}

// GetAdvancedMetrics handles GET /api/stats/metrics?period=&league_id=
func (h *StatsHandler) GetAdvancedMetrics(w http.ResponseWriter, r *http.Request) {
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
	leagueID, err := parseLeagueID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics, err := h.statsService.GetAdvancedMetrics(r.Context(), user.ID, leagueID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute metrics")
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// GetLeaderboard handles GET /api/leaderboard?period=&limit=
func (h *StatsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTimeFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboardService.GetLeaderboard(r.Context(), filter, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute leaderboard")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"period":  filter,
		"entries": entries,
	})
}

func parseLeagueID(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("league_id")
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("invalid league_id")
	}
	return &parsed, nil
}
