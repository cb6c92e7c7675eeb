package services

import (
	"context"
	"fmt"
	"time"

	"matchpredict-go/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FavoriteRepository interface for favorite data operations
type FavoriteRepository interface {
	AddFavorite(ctx context.Context, fav *models.FavoriteMatch) error
	RemoveFavorite(ctx context.Context, userID, matchID int64) error
	GetFavorite(ctx context.Context, userID, matchID int64) (*models.FavoriteMatch, error)
	ListByUser(ctx context.Context, userID int64) ([]models.FavoriteMatch, error)
}

// FavoriteService toggles favorite membership and raises the matching
// user-facing notifications.
type FavoriteService struct {
	favRepo   FavoriteRepository
	matchRepo MatchRepository
	notifier  *NotificationService
	logger    zerolog.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favRepo FavoriteRepository, matchRepo MatchRepository, notifier *NotificationService) *FavoriteService {
	return &FavoriteService{
		favRepo:   favRepo,
		matchRepo: matchRepo,
		notifier:  notifier,
		logger:    log.With().Str("component", "favorite_service").Logger(),
	}
}

// ToggleFavorite adds the match to the user's favorites, or removes it when
// already present. Returns true when the match is a favorite afterwards.
// The favorite stores a denormalized snapshot of the fixture so the list
// stays renderable without the provider.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID, matchID int64) (bool, error) {
	existing, err := s.favRepo.GetFavorite(ctx, userID, matchID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	if existing != nil {
		if err := s.favRepo.RemoveFavorite(ctx, userID, matchID); err != nil {
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}
		s.notifier.Notify(ctx, userID, models.NotificationFavoriteRemoved,
			"Favorite removed",
			fmt.Sprintf("%s vs %s removed from your favorites", existing.HomeTeam, existing.AwayTeam))
		return false, nil
	}

	match, err := s.matchRepo.GetMatchByID(ctx, matchID)
	if err != nil {
		return false, fmt.Errorf("failed to load match: %w", err)
	}
	if match == nil {
		return false, fmt.Errorf("match %d not found", matchID)
	}

	fav := &models.FavoriteMatch{
		MatchID:   match.ID,
		UserID:    userID,
		HomeTeam:  match.Teams.Home,
		AwayTeam:  match.Teams.Away,
		League:    match.League.Name,
		MatchDate: match.Date,
		CreatedAt: time.Now(),
	}
	if err := s.favRepo.AddFavorite(ctx, fav); err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	s.notifier.Notify(ctx, userID, models.NotificationFavoriteAdded,
		"Favorite added",
		fmt.Sprintf("%s vs %s added to your favorites", match.Teams.Home, match.Teams.Away))
	return true, nil
}

// ListFavorites returns all matches the user has favorited
func (s *FavoriteService) ListFavorites(ctx context.Context, userID int64) ([]models.FavoriteMatch, error) {
	favorites, err := s.favRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}
