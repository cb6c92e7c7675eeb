package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matchpredict-go/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PredictionRepository interface for prediction data operations
type PredictionRepository interface {
	Create(ctx context.Context, pred *models.Prediction) error
	UpdateScores(ctx context.Context, id string, homeScore, awayScore int) error
	GetByUserAndMatch(ctx context.Context, userID, matchID int64) (*models.Prediction, error)
	ListByUser(ctx context.Context, userID int64, leagueID *int64, rng models.TimeRange) ([]models.Prediction, error)
	ListUnresolvedByMatch(ctx context.Context, matchID int64) ([]models.Prediction, error)
	SetCorrectness(ctx context.Context, id string, correct bool) error
	AggregateAccuracy(ctx context.Context, rng models.TimeRange, limit int) ([]models.LeaderboardEntry, error)
}

// PredictionService handles submitting and listing score predictions
type PredictionService struct {
	predRepo  PredictionRepository
	matchRepo MatchRepository
	logger    zerolog.Logger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(predRepo PredictionRepository, matchRepo MatchRepository) *PredictionService {
	return &PredictionService{
		predRepo:  predRepo,
		matchRepo: matchRepo,
		logger:    log.With().Str("component", "prediction_service").Logger(),
	}
}

// SubmitPrediction records or updates a user's score prediction for a match.
// One prediction per user and match; the scores can change up to kickoff and
// never after the prediction has been resolved.
func (s *PredictionService) SubmitPrediction(ctx context.Context, userID int64, req models.PredictionRequest) (*models.Prediction, error) {
	if req.HomeScore < 0 || req.AwayScore < 0 {
		return nil, errors.New("scores must not be negative")
	}

	match, err := s.matchRepo.GetMatchByID(ctx, req.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("match %d not found", req.MatchID)
	}
	if match.Status != models.MatchStatusScheduled {
		return nil, errors.New("predictions close at kickoff")
	}

	existing, err := s.predRepo.GetByUserAndMatch(ctx, userID, req.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing prediction: %w", err)
	}

	if existing != nil {
		if existing.IsResolved() {
			return nil, errors.New("prediction already resolved")
		}
		if err := s.predRepo.UpdateScores(ctx, existing.ID, req.HomeScore, req.AwayScore); err != nil {
			return nil, fmt.Errorf("failed to update prediction: %w", err)
		}
		existing.HomeScore = req.HomeScore
		existing.AwayScore = req.AwayScore
		return existing, nil
	}

	pred := &models.Prediction{
		ID:        uuid.New().String(),
		UserID:    userID,
		MatchID:   match.ID,
		LeagueID:  match.League.ID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
		CreatedAt: time.Now(),
	}
	if err := s.predRepo.Create(ctx, pred); err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}

	s.logger.Info().Int64("user_id", userID).Int64("match_id", match.ID).
		Int("home", req.HomeScore).Int("away", req.AwayScore).Msg("prediction submitted")
	return pred, nil
}

// GetUserPredictions lists a user's predictions within a time filter
func (s *PredictionService) GetUserPredictions(ctx context.Context, userID int64, leagueID *int64, filter models.TimeFilter, now time.Time) ([]models.Prediction, error) {
	rng, err := ResolveTimeRange(filter, now)
	if err != nil {
		return nil, err
	}
	preds, err := s.predRepo.ListByUser(ctx, userID, leagueID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return preds, nil
}
