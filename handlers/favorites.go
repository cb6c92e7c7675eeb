package handlers

import (
	"net/http"
	"strconv"

	"matchpredict-go/middleware"
	"matchpredict-go/services"

	"github.com/gorilla/mux"
)

// FavoriteHandler handles favorite toggling and listing
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// ToggleFavorite handles POST /api/favorites/{matchId}
func (h *FavoriteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	matchID, err := strconv.ParseInt(mux.Vars(r)["matchId"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid match id")
		return
	}

	favorited, err := h.favoriteService.ToggleFavorite(r.Context(), user.ID, matchID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

// ListFavorites handles GET /api/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	favorites, err := h.favoriteService.ListFavorites(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load favorites")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"favorites": favorites})
}
