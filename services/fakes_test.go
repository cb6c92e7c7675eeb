package services

import (
	"context"
	"errors"
	"time"

	"matchpredict-go/models"
)

// In-memory repository fakes shared by the service tests.

type fakePredictionRepo struct {
	preds       map[string]*models.Prediction
	entries     []models.LeaderboardEntry
	listErr     error
	correctness map[string]bool
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{
		preds:       make(map[string]*models.Prediction),
		correctness: make(map[string]bool),
	}
}

func (r *fakePredictionRepo) add(preds ...models.Prediction) {
	for i := range preds {
		p := preds[i]
		r.preds[p.ID] = &p
	}
}

func (r *fakePredictionRepo) Create(_ context.Context, pred *models.Prediction) error {
	cp := *pred
	r.preds[pred.ID] = &cp
	return nil
}

func (r *fakePredictionRepo) UpdateScores(_ context.Context, id string, homeScore, awayScore int) error {
	p, ok := r.preds[id]
	if !ok || p.IsResolved() {
		return errors.New("prediction not updatable")
	}
	p.HomeScore = homeScore
	p.AwayScore = awayScore
	return nil
}

func (r *fakePredictionRepo) GetByUserAndMatch(_ context.Context, userID, matchID int64) (*models.Prediction, error) {
	for _, p := range r.preds {
		if p.UserID == userID && p.MatchID == matchID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePredictionRepo) ListByUser(_ context.Context, userID int64, leagueID *int64, rng models.TimeRange) ([]models.Prediction, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Prediction
	for _, p := range r.preds {
		if p.UserID != userID {
			continue
		}
		if leagueID != nil && p.LeagueID != *leagueID {
			continue
		}
		if !rng.Contains(p.CreatedAt) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePredictionRepo) ListUnresolvedByMatch(_ context.Context, matchID int64) ([]models.Prediction, error) {
	var out []models.Prediction
	for _, p := range r.preds {
		if p.MatchID == matchID && !p.IsResolved() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePredictionRepo) SetCorrectness(_ context.Context, id string, correct bool) error {
	p, ok := r.preds[id]
	if !ok {
		return errors.New("prediction not found")
	}
	if p.IsResolved() {
		return errors.New("already resolved")
	}
	p.Correct = &correct
	r.correctness[id] = correct
	return nil
}

func (r *fakePredictionRepo) AggregateAccuracy(_ context.Context, _ models.TimeRange, limit int) ([]models.LeaderboardEntry, error) {
	if limit > 0 && len(r.entries) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

type fakeMatchRepo struct {
	matches map[int64]*models.Match
	pcts    map[int64]float64
	pctErr  error
}

func newFakeMatchRepo(matches ...models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{
		matches: make(map[int64]*models.Match),
		pcts:    make(map[int64]float64),
	}
	for i := range matches {
		m := matches[i]
		repo.matches[m.ID] = &m
	}
	return repo
}

func (r *fakeMatchRepo) UpsertMatches(_ context.Context, matches []models.Match) error {
	for i := range matches {
		m := matches[i]
		// Same contract as the SQL upsert: a zero win percent never clobbers
		// an enriched stored value, and popularity is a read-side projection.
		if prev, ok := r.matches[m.ID]; ok {
			if m.HomeWinPercent == 0 {
				m.HomeWinPercent = prev.HomeWinPercent
			}
			m.Popularity = prev.Popularity
		}
		r.matches[m.ID] = &m
	}
	return nil
}

func (r *fakeMatchRepo) GetMatchByID(_ context.Context, id int64) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) GetMatchesByDate(_ context.Context, day time.Time) ([]models.Match, error) {
	var out []models.Match
	key := day.UTC().Format("2006-01-02")
	for _, m := range r.matches {
		if m.Date.UTC().Format("2006-01-02") == key {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) GetHomeWinPercents(_ context.Context, matchIDs []int64) (map[int64]float64, error) {
	if r.pctErr != nil {
		return nil, r.pctErr
	}
	out := make(map[int64]float64)
	for _, id := range matchIDs {
		if m, ok := r.matches[id]; ok && m.HomeWinPercent > 0 {
			out[id] = m.HomeWinPercent
			continue
		}
		if pct, ok := r.pcts[id]; ok {
			out[id] = pct
		}
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }
