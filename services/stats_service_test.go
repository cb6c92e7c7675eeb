package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"matchpredict-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedPrediction(matchID int64, correct bool, createdAt time.Time, home, away int) models.Prediction {
	return models.Prediction{
		ID:        fmt.Sprintf("pred-%d-%d", matchID, createdAt.UnixNano()),
		UserID:    1,
		MatchID:   matchID,
		LeagueID:  39,
		HomeScore: home,
		AwayScore: away,
		Correct:   boolPtr(correct),
		CreatedAt: createdAt,
	}
}

func TestResolveTimeRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		filter models.TimeFilter
		days   int
	}{
		{models.TimeFilter7Days, 7},
		{models.TimeFilter30Days, 30},
		{models.TimeFilter90Days, 90},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			rng, err := ResolveTimeRange(tt.filter, now)
			require.NoError(t, err)
			require.NotNil(t, rng.Start)
			assert.Equal(t, now.AddDate(0, 0, -tt.days), *rng.Start)
			assert.Equal(t, now, rng.End)
		})
	}
}

func TestResolveTimeRangeAllTime(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	rng, err := ResolveTimeRange(models.TimeFilterAll, now)
	require.NoError(t, err)
	assert.Nil(t, rng.Start, "all-time range must have no lower bound")
	assert.Equal(t, now, rng.End)

	// A prediction from years back still falls inside the range
	assert.True(t, rng.Contains(now.AddDate(-5, 0, 0)))
}

func TestResolveTimeRangeRejectsUnknownFilter(t *testing.T) {
	_, err := ResolveTimeRange(models.TimeFilter("fortnight"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fortnight")
}

func TestAggregateByDay(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 18, 30, 0, 0, time.UTC)

	preds := []models.Prediction{
		resolvedPrediction(1, true, day1, 2, 1),
		resolvedPrediction(2, true, day1.Add(2*time.Hour), 1, 0),
		resolvedPrediction(3, false, day1.Add(5*time.Hour), 0, 2),
		resolvedPrediction(4, false, day2, 1, 1),
	}

	buckets := AggregateByDay(preds)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2024-01-01", buckets[0].Date)
	assert.Equal(t, 2, buckets[0].Correct)
	assert.Equal(t, 1, buckets[0].Incorrect)
	assert.Equal(t, 3, buckets[0].Total)
	assert.Equal(t, 67, buckets[0].Rate)

	assert.Equal(t, "2024-01-02", buckets[1].Date)
	assert.Equal(t, 0, buckets[1].Correct)
	assert.Equal(t, 1, buckets[1].Incorrect)
	assert.Equal(t, 1, buckets[1].Total)
	assert.Equal(t, 0, buckets[1].Rate)

	for _, b := range buckets {
		assert.Equal(t, b.Total, b.Correct+b.Incorrect, "bucket counts must reconcile")
	}
}

func TestAggregateByDayTwoDayScenario(t *testing.T) {
	day1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	buckets := AggregateByDay([]models.Prediction{
		resolvedPrediction(1, true, day1, 2, 1),
		resolvedPrediction(2, false, day1, 0, 0),
		resolvedPrediction(3, true, day2, 1, 3),
	})

	assert.Equal(t, []models.DailyBucket{
		{Date: "2024-01-01", Correct: 1, Incorrect: 1, Total: 2, Rate: 50},
		{Date: "2024-01-02", Correct: 1, Incorrect: 0, Total: 1, Rate: 100},
	}, buckets)
}

func TestAggregateByDayOrderIndependent(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	preds := []models.Prediction{
		resolvedPrediction(1, true, day.AddDate(0, 0, 2), 1, 0),
		resolvedPrediction(2, false, day, 0, 1),
		resolvedPrediction(3, true, day.AddDate(0, 0, 1), 2, 0),
	}
	reversed := []models.Prediction{preds[2], preds[0], preds[1]}

	assert.Equal(t, AggregateByDay(preds), AggregateByDay(reversed),
		"output must not depend on input order")
}

func TestAggregateByDaySkipsUnresolved(t *testing.T) {
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	pending := models.Prediction{ID: "p1", MatchID: 5, HomeScore: 1, AwayScore: 0, CreatedAt: day}

	buckets := AggregateByDay([]models.Prediction{
		pending,
		resolvedPrediction(6, true, day, 3, 1),
	})
	require.Len(t, buckets, 1)
	assert.Equal(t, 1, buckets[0].Total, "pending predictions must not count")
}

func TestAggregateByDayEmptyInput(t *testing.T) {
	assert.Empty(t, AggregateByDay(nil))
	assert.Empty(t, AggregateByDay([]models.Prediction{}))
}

func TestAggregateByDayUsesUTCDayKeys(t *testing.T) {
	// 23:30 in UTC-3 is 02:30 the next day in UTC
	loc := time.FixedZone("UTC-3", -3*60*60)
	late := time.Date(2024, 1, 1, 23, 30, 0, 0, loc)

	buckets := AggregateByDay([]models.Prediction{resolvedPrediction(1, true, late, 1, 0)})
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-01-02", buckets[0].Date)
}

func TestWinRateRounding(t *testing.T) {
	assert.Equal(t, 0, winRate(0, 0))
	assert.Equal(t, 33, winRate(1, 3))
	assert.Equal(t, 67, winRate(2, 3))
	assert.Equal(t, 50, winRate(1, 2))
	assert.Equal(t, 100, winRate(5, 5))
}

func TestClassifyPredictionsEmptyInput(t *testing.T) {
	metrics := ClassifyPredictions(nil, nil)
	assert.Equal(t, models.CohortMetrics{}, metrics)
}

func TestClassifyPredictionsAllCorrect(t *testing.T) {
	day := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	preds := []models.Prediction{
		resolvedPrediction(1, true, day, 2, 0),                   // home pick
		resolvedPrediction(2, true, day.Add(time.Hour), 0, 1),    // away pick
		resolvedPrediction(3, true, day.Add(2*time.Hour), 1, 1),  // draw pick
		resolvedPrediction(4, true, day.Add(3*time.Hour), 3, 1),  // home pick
	}

	metrics := ClassifyPredictions(preds, nil)
	assert.Equal(t, 100, metrics.Overall)
	assert.Equal(t, 100, metrics.Home)
	assert.Equal(t, 100, metrics.Away)
	assert.Equal(t, 100, metrics.Draw)
	// No probability data: favorites cohorts stay empty
	assert.Equal(t, 0, metrics.Favorites)
	assert.Equal(t, 0, metrics.Underdogs)
	// Both halves at 100: no improvement and no magnitude
	assert.False(t, metrics.Trend.Improving)
	assert.Equal(t, 0, metrics.Trend.Percentage)
}

func TestClassifyPredictionsFavoritesAndUnderdogs(t *testing.T) {
	day := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	preds := []models.Prediction{
		resolvedPrediction(1, true, day, 2, 0),                  // home pick, home favored: favorites
		resolvedPrediction(2, false, day.Add(time.Hour), 0, 1),  // away pick, home favored: underdogs
		resolvedPrediction(3, true, day.Add(2*time.Hour), 0, 2), // away pick, away favored: favorites
		resolvedPrediction(4, true, day.Add(3*time.Hour), 1, 1), // draw pick: neither cohort
		resolvedPrediction(5, true, day.Add(4*time.Hour), 1, 0), // no probability data: neither cohort
	}
	pcts := map[int64]float64{1: 70, 2: 70, 3: 20, 4: 55}

	metrics := ClassifyPredictions(preds, pcts)
	assert.Equal(t, 100, metrics.Favorites, "2 of 2 favorite-side picks correct")
	assert.Equal(t, 0, metrics.Underdogs, "0 of 1 underdog-side picks correct")
}

func TestClassifyPredictionsTrend(t *testing.T) {
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	// First half: 1 of 2 correct. Second half: 2 of 2 correct.
	preds := []models.Prediction{
		resolvedPrediction(1, false, day, 1, 0),
		resolvedPrediction(2, true, day.Add(time.Hour), 1, 0),
		resolvedPrediction(3, true, day.Add(2*time.Hour), 1, 0),
		resolvedPrediction(4, true, day.Add(3*time.Hour), 1, 0),
	}

	metrics := ClassifyPredictions(preds, nil)
	assert.True(t, metrics.Trend.Improving)
	assert.Equal(t, 50, metrics.Trend.Percentage)

	// Input order must not change the chronological split
	shuffled := []models.Prediction{preds[3], preds[0], preds[2], preds[1]}
	assert.Equal(t, metrics, ClassifyPredictions(shuffled, nil))
}

func TestGetDailyStats(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	repo := newFakePredictionRepo()
	repo.add(
		resolvedPrediction(1, true, now.AddDate(0, 0, -2), 1, 0),
		resolvedPrediction(2, false, now.AddDate(0, 0, -1), 0, 1),
		// Outside the 7-day window
		resolvedPrediction(3, true, now.AddDate(0, 0, -20), 2, 0),
	)

	svc := NewStatsService(repo, newFakeMatchRepo())
	svc.SetClock(func() time.Time { return now })

	buckets, err := svc.GetDailyStats(context.Background(), 1, nil, models.TimeFilter7Days)
	require.NoError(t, err)
	assert.Len(t, buckets, 2)

	all, err := svc.GetDailyStats(context.Background(), 1, nil, models.TimeFilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetDailyStatsRejectsUnknownFilter(t *testing.T) {
	svc := NewStatsService(newFakePredictionRepo(), newFakeMatchRepo())
	_, err := svc.GetDailyStats(context.Background(), 1, nil, models.TimeFilter("whenever"))
	require.Error(t, err)
}

func TestGetAdvancedMetricsDegradesWithoutWinPercents(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	repo := newFakePredictionRepo()
	repo.add(resolvedPrediction(1, true, now.AddDate(0, 0, -1), 2, 0))

	matches := newFakeMatchRepo()
	matches.pctErr = assert.AnError

	svc := NewStatsService(repo, matches)
	svc.SetClock(func() time.Time { return now })

	metrics, err := svc.GetAdvancedMetrics(context.Background(), 1, nil, models.TimeFilter7Days)
	require.NoError(t, err, "missing probabilities must not fail the request")
	assert.Equal(t, 100, metrics.Overall)
	assert.Equal(t, 0, metrics.Favorites)
}
