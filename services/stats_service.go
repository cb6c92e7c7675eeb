package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"matchpredict-go/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PredictionReader is the slice of the prediction repository the stats
// service needs. Range filtering happens in the repository so the reducers
// below stay pure.
type PredictionReader interface {
	ListByUser(ctx context.Context, userID int64, leagueID *int64, rng models.TimeRange) ([]models.Prediction, error)
}

// WinPercentReader resolves provider win probabilities for a set of matches
type WinPercentReader interface {
	GetHomeWinPercents(ctx context.Context, matchIDs []int64) (map[int64]float64, error)
}

// StatsService reduces a user's prediction history into chart-ready series
// and comparative cohort metrics.
type StatsService struct {
	predictions PredictionReader
	matches     WinPercentReader
	now         func() time.Time
	logger      zerolog.Logger
}

// NewStatsService creates a new stats service. The clock is injectable so
// range resolution stays deterministic under test.
func NewStatsService(predictions PredictionReader, matches WinPercentReader) *StatsService {
	return &StatsService{
		predictions: predictions,
		matches:     matches,
		now:         time.Now,
		logger:      log.With().Str("component", "stats_service").Logger(),
	}
}

// SetClock overrides the time source, for tests
func (s *StatsService) SetClock(now func() time.Time) {
	s.now = now
}

// ResolveTimeRange converts a coarse window selector into concrete bounds.
// The end is always "now"; the all-time filter resolves to a nil start so the
// query layer can treat it as unconstrained instead of relying on a sentinel
// date. Unknown filters are an error, never a silent fallback.
func ResolveTimeRange(filter models.TimeFilter, now time.Time) (models.TimeRange, error) {
	switch filter {
	case models.TimeFilter7Days, models.TimeFilter30Days, models.TimeFilter90Days:
		start := now.AddDate(0, 0, -filter.Days())
		return models.TimeRange{Start: &start, End: now}, nil
	case models.TimeFilterAll:
		return models.TimeRange{Start: nil, End: now}, nil
	}
	return models.TimeRange{}, fmt.Errorf("unknown time filter %q", filter)
}

// dayKey truncates a timestamp to its UTC calendar date. Pinning the zone
// keeps bucket keys deterministic near midnight regardless of server locale.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// winRate computes round(correct/total*100), guarding the zero denominator
func winRate(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// AggregateByDay groups resolved predictions into per-day accuracy buckets.
// Input rows are assumed to be pre-filtered to the requested user, league and
// time range. Unresolved predictions carry no correctness yet and are
// skipped, which keeps correct+incorrect == total for every bucket. Days
// with no records never appear in the output; zero-filling for chart
// continuity is the caller's concern. Output is ordered ascending by date
// for any permutation of the input.
func AggregateByDay(preds []models.Prediction) []models.DailyBucket {
	byDay := make(map[string]*models.DailyBucket)
	for _, p := range preds {
		if !p.IsResolved() {
			continue
		}
		key := dayKey(p.CreatedAt)
		bucket, ok := byDay[key]
		if !ok {
			bucket = &models.DailyBucket{Date: key}
			byDay[key] = bucket
		}
		if p.IsCorrect() {
			bucket.Correct++
		} else {
			bucket.Incorrect++
		}
		bucket.Total++
	}

	buckets := make([]models.DailyBucket, 0, len(byDay))
	for _, bucket := range byDay {
		bucket.Rate = winRate(bucket.Correct, bucket.Total)
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
	return buckets
}

// ClassifyPredictions partitions a prediction history into comparison cohorts
// and computes each cohort's accuracy plus the first-half/second-half trend.
// homeWinPct maps match ids to the provider's predicted home-win probability
// and feeds the favorites/underdogs cohorts; matches missing from the map
// contribute to neither. Always returns a complete structure, all-zero on
// empty input.
func ClassifyPredictions(preds []models.Prediction, homeWinPct map[int64]float64) models.CohortMetrics {
	var metrics models.CohortMetrics
	if len(preds) == 0 {
		return metrics
	}

	ordered := make([]models.Prediction, len(preds))
	copy(ordered, preds)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	type cohort struct{ correct, total int }
	var overall, home, away, draw, favorites, underdogs cohort

	tally := func(c *cohort, p models.Prediction) {
		if !p.IsResolved() {
			return
		}
		c.total++
		if p.IsCorrect() {
			c.correct++
		}
	}

	for _, p := range ordered {
		tally(&overall, p)
		switch p.Outcome() {
		case models.OutcomeHome:
			tally(&home, p)
		case models.OutcomeAway:
			tally(&away, p)
		default:
			tally(&draw, p)
		}

		// Favorites and underdogs need the provider's leaning; a draw pick
		// sides with neither.
		pct, ok := homeWinPct[p.MatchID]
		if !ok || p.Outcome() == models.OutcomeDraw {
			continue
		}
		favoredHome := pct >= 50
		if (favoredHome && p.Outcome() == models.OutcomeHome) || (!favoredHome && p.Outcome() == models.OutcomeAway) {
			tally(&favorites, p)
		} else {
			tally(&underdogs, p)
		}
	}

	metrics.Overall = winRate(overall.correct, overall.total)
	metrics.Home = winRate(home.correct, home.total)
	metrics.Away = winRate(away.correct, away.total)
	metrics.Draw = winRate(draw.correct, draw.total)
	metrics.Favorites = winRate(favorites.correct, favorites.total)
	metrics.Underdogs = winRate(underdogs.correct, underdogs.total)

	// Chronological halves: on odd-length input the extra record belongs to
	// the second half (everything from the midpoint index onward).
	mid := len(ordered) / 2
	var first, second cohort
	for _, p := range ordered[:mid] {
		tally(&first, p)
	}
	for _, p := range ordered[mid:] {
		tally(&second, p)
	}
	firstRate := winRate(first.correct, first.total)
	secondRate := winRate(second.correct, second.total)
	metrics.Trend = models.TrendInfo{
		Improving:  secondRate > firstRate,
		Percentage: int(math.Abs(float64(secondRate - firstRate))),
	}

	return metrics
}

// GetDailyStats returns per-day accuracy buckets for a user within a time
// filter, optionally scoped to one league.
func (s *StatsService) GetDailyStats(ctx context.Context, userID int64, leagueID *int64, filter models.TimeFilter) ([]models.DailyBucket, error) {
	rng, err := ResolveTimeRange(filter, s.now())
	if err != nil {
		return nil, err
	}

	preds, err := s.predictions.ListByUser(ctx, userID, leagueID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	buckets := AggregateByDay(preds)
	s.logger.Debug().Int64("user_id", userID).Str("filter", string(filter)).
		Int("predictions", len(preds)).Int("buckets", len(buckets)).Msg("aggregated daily stats")
	return buckets, nil
}

// GetAdvancedMetrics returns cohort accuracy and trend for a user's filtered
// prediction history.
func (s *StatsService) GetAdvancedMetrics(ctx context.Context, userID int64, leagueID *int64, filter models.TimeFilter) (models.CohortMetrics, error) {
	rng, err := ResolveTimeRange(filter, s.now())
	if err != nil {
		return models.CohortMetrics{}, err
	}

	preds, err := s.predictions.ListByUser(ctx, userID, leagueID, rng)
	if err != nil {
		return models.CohortMetrics{}, fmt.Errorf("failed to list predictions: %w", err)
	}

	matchIDs := make([]int64, 0, len(preds))
	seen := make(map[int64]bool)
	for _, p := range preds {
		if !seen[p.MatchID] {
			seen[p.MatchID] = true
			matchIDs = append(matchIDs, p.MatchID)
		}
	}

	homeWinPct, err := s.matches.GetHomeWinPercents(ctx, matchIDs)
	if err != nil {
		// Cohort metrics degrade gracefully without provider probabilities;
		// favorites/underdogs stay at zero.
		s.logger.Warn().Err(err).Msg("win percents unavailable, favorites cohorts will be empty")
		homeWinPct = nil
	}

	return ClassifyPredictions(preds, homeWinPct), nil
}
