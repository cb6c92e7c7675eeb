package handlers

import (
	"net/http"
	"strconv"
	"time"

	"matchpredict-go/models"
	"matchpredict-go/services"

	"github.com/gorilla/mux"
)

// MatchHandler serves fixture lists and single fixtures
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// GetMatches handles GET /api/matches?date=YYYY-MM-DD&search=&league_id=&sort_by=
func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	sortBy, err := models.ParseSortKey(r.URL.Query().Get("sort_by"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := models.MatchFilters{
		Search: r.URL.Query().Get("search"),
		SortBy: sortBy,
	}
	if raw := r.URL.Query().Get("league_id"); raw != "" {
		leagueID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid league_id")
			return
		}
		filters.LeagueID = &leagueID
	}

	matches, err := h.matchService.GetMatches(r.Context(), day, filters)
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to load fixtures")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    day.Format("2006-01-02"),
		"matches": matches,
	})
}

// GetMatch handles GET /api/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load match")
		return
	}
	if match == nil {
		respondError(w, http.StatusNotFound, "match not found")
		return
	}
	respondJSON(w, http.StatusOK, match)
}
