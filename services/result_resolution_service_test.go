package services

import (
	"context"
	"testing"
	"time"

	"matchpredict-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedMatch(id int64, homeScore, awayScore int) models.Match {
	return models.Match{
		ID:        id,
		Date:      time.Now().Add(-2 * time.Hour),
		Status:    models.MatchStatusFinished,
		Teams:     models.Teams{Home: "Liverpool", Away: "Chelsea"},
		HomeScore: intPtr(homeScore),
		AwayScore: intPtr(awayScore),
	}
}

func TestProcessMatchCompletion(t *testing.T) {
	predRepo := newFakePredictionRepo()
	predRepo.add(
		models.Prediction{ID: "p1", UserID: 1, MatchID: 10, HomeScore: 3, AwayScore: 0, CreatedAt: time.Now()}, // home pick
		models.Prediction{ID: "p2", UserID: 2, MatchID: 10, HomeScore: 0, AwayScore: 1, CreatedAt: time.Now()}, // away pick
		models.Prediction{ID: "p3", UserID: 3, MatchID: 10, HomeScore: 1, AwayScore: 1, CreatedAt: time.Now()}, // draw pick
	)

	svc := NewResultResolutionService(predRepo, nil)
	match := finishedMatch(10, 2, 1)
	require.NoError(t, svc.ProcessMatchCompletion(context.Background(), &match))

	// Home won 2-1: only the home pick is correct, exact score is irrelevant
	assert.Equal(t, map[string]bool{"p1": true, "p2": false, "p3": false}, predRepo.correctness)
}

func TestProcessMatchCompletionDraw(t *testing.T) {
	predRepo := newFakePredictionRepo()
	predRepo.add(models.Prediction{ID: "p1", UserID: 1, MatchID: 10, HomeScore: 2, AwayScore: 2, CreatedAt: time.Now()})

	svc := NewResultResolutionService(predRepo, nil)
	match := finishedMatch(10, 0, 0)
	require.NoError(t, svc.ProcessMatchCompletion(context.Background(), &match))
	assert.True(t, predRepo.correctness["p1"], "any draw prediction is correct on a draw")
}

func TestProcessMatchCompletionIsIdempotent(t *testing.T) {
	predRepo := newFakePredictionRepo()
	predRepo.add(models.Prediction{ID: "p1", UserID: 1, MatchID: 10, HomeScore: 1, AwayScore: 0, CreatedAt: time.Now()})

	svc := NewResultResolutionService(predRepo, nil)
	match := finishedMatch(10, 2, 0)
	require.NoError(t, svc.ProcessMatchCompletion(context.Background(), &match))
	// Already resolved rows are no longer fetched, so a re-run changes nothing
	require.NoError(t, svc.ProcessMatchCompletion(context.Background(), &match))
	assert.Len(t, predRepo.correctness, 1)
}

func TestProcessMatchCompletionRejectsUnfinished(t *testing.T) {
	svc := NewResultResolutionService(newFakePredictionRepo(), nil)
	match := fixture(10, "Liverpool", "Chelsea", 39, time.Now())
	require.Error(t, svc.ProcessMatchCompletion(context.Background(), &match))
}

func TestProcessMatchCompletionRequiresScores(t *testing.T) {
	svc := NewResultResolutionService(newFakePredictionRepo(), nil)
	match := models.Match{ID: 10, Status: models.MatchStatusFinished}
	require.Error(t, svc.ProcessMatchCompletion(context.Background(), &match))
}
