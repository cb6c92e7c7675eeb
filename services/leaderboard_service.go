package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"matchpredict-go/models"
)

// LeaderboardService ranks users by prediction accuracy over a time window
type LeaderboardService struct {
	predRepo PredictionRepository
	now      func() time.Time
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(predRepo PredictionRepository) *LeaderboardService {
	return &LeaderboardService{predRepo: predRepo, now: time.Now}
}

// RankLeaderboard orders entries by correct count, then accuracy rate, then
// name for a stable tie-break, derives rates and points from the raw counts
// and assigns dense ranks. Rates are always recomputed here, never read from
// storage.
func RankLeaderboard(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	ranked := make([]models.LeaderboardEntry, len(entries))
	copy(ranked, entries)

	for i := range ranked {
		ranked[i].Rate = winRate(ranked[i].Correct, ranked[i].Total)
		ranked[i].Points = ranked[i].Correct * 3
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Correct != ranked[j].Correct {
			return ranked[i].Correct > ranked[j].Correct
		}
		if ranked[i].Rate != ranked[j].Rate {
			return ranked[i].Rate > ranked[j].Rate
		}
		return ranked[i].UserName < ranked[j].UserName
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// GetLeaderboard returns the ranked accuracy leaderboard for a time filter
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, filter models.TimeFilter, limit int) ([]models.LeaderboardEntry, error) {
	rng, err := ResolveTimeRange(filter, s.now())
	if err != nil {
		return nil, err
	}

	entries, err := s.predRepo.AggregateAccuracy(ctx, rng, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leaderboard: %w", err)
	}
	return RankLeaderboard(entries), nil
}
