package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"matchpredict-go/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FixtureFetcher fetches fixtures from the external football data provider
type FixtureFetcher interface {
	GetFixturesByDate(ctx context.Context, day time.Time) ([]models.Match, error)
}

// MatchRepository stores read-only fixture snapshots
type MatchRepository interface {
	UpsertMatches(ctx context.Context, matches []models.Match) error
	GetMatchByID(ctx context.Context, id int64) (*models.Match, error)
	GetMatchesByDate(ctx context.Context, day time.Time) ([]models.Match, error)
}

// FixtureCache is a short-TTL cache in front of the fixture provider.
// Implementations must tolerate being nil-backed and report misses with ok=false.
type FixtureCache interface {
	GetFixtures(ctx context.Context, day time.Time) ([]models.Match, bool)
	SetFixtures(ctx context.Context, day time.Time, matches []models.Match)
}

// MatchService serves fixture lists: cache first, then the provider, with the
// database snapshot as fallback when the provider is unreachable.
type MatchService struct {
	fetcher   FixtureFetcher
	matchRepo MatchRepository
	cache     FixtureCache
	logger    zerolog.Logger
}

// NewMatchService creates a new match service
func NewMatchService(fetcher FixtureFetcher, matchRepo MatchRepository, cache FixtureCache) *MatchService {
	return &MatchService{
		fetcher:   fetcher,
		matchRepo: matchRepo,
		cache:     cache,
		logger:    log.With().Str("component", "match_service").Logger(),
	}
}

// FilterAndSortMatches applies free-text search, an optional league filter
// and the chosen ordering over an in-memory fixture list. Search matches
// either team name case-insensitively; an empty search matches everything.
// Sorts are stable so equal keys keep their original relative order between
// re-renders.
func FilterAndSortMatches(matches []models.Match, filters models.MatchFilters) []models.Match {
	filtered := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if !m.HasTeam(filters.Search) {
			continue
		}
		if filters.LeagueID != nil && m.League.ID != *filters.LeagueID {
			continue
		}
		filtered = append(filtered, m)
	}

	switch filters.SortBy {
	case models.SortByProbability:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].HomeWinPercent > filtered[j].HomeWinPercent
		})
	case models.SortByPopularity:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Popularity > filtered[j].Popularity
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Date.Before(filtered[j].Date)
		})
	}
	return filtered
}

// GetMatches returns the fixtures for a day, filtered and sorted
func (s *MatchService) GetMatches(ctx context.Context, day time.Time, filters models.MatchFilters) ([]models.Match, error) {
	matches, err := s.fixturesForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return FilterAndSortMatches(matches, filters), nil
}

// GetMatch returns a single fixture snapshot by provider id
func (s *MatchService) GetMatch(ctx context.Context, id int64) (*models.Match, error) {
	match, err := s.matchRepo.GetMatchByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load match %d: %w", id, err)
	}
	return match, nil
}

func (s *MatchService) fixturesForDay(ctx context.Context, day time.Time) ([]models.Match, error) {
	if s.cache != nil {
		if matches, ok := s.cache.GetFixtures(ctx, day); ok {
			return matches, nil
		}
	}

	matches, err := s.fetcher.GetFixturesByDate(ctx, day)
	if err != nil {
		// Provider down: serve the last stored snapshot instead of failing
		// the whole page.
		s.logger.Warn().Err(err).Time("day", day).Msg("fixture provider unavailable, serving stored snapshot")
		stored, dbErr := s.matchRepo.GetMatchesByDate(ctx, day)
		if dbErr != nil {
			return nil, fmt.Errorf("fixture fetch failed: %w", err)
		}
		return stored, nil
	}

	// Fixture payloads carry neither win probabilities nor popularity; carry
	// both over from the stored rows so refreshing a day never degrades the
	// probability and popularity sorts.
	if stored, err := s.matchRepo.GetMatchesByDate(ctx, day); err == nil {
		storedByID := make(map[int64]models.Match, len(stored))
		for _, m := range stored {
			storedByID[m.ID] = m
		}
		for i := range matches {
			prev, ok := storedByID[matches[i].ID]
			if !ok {
				continue
			}
			if matches[i].HomeWinPercent == 0 {
				matches[i].HomeWinPercent = prev.HomeWinPercent
			}
			matches[i].Popularity = prev.Popularity
		}
	}

	if err := s.matchRepo.UpsertMatches(ctx, matches); err != nil {
		s.logger.Error().Err(err).Msg("failed to store fixture snapshot")
	}
	if s.cache != nil {
		s.cache.SetFixtures(ctx, day, matches)
	}
	return matches, nil
}
