package services

import (
	"context"
	"fmt"

	"matchpredict-go/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ResultResolutionService sets prediction correctness once a match finishes.
// Correctness is written exactly once: only unresolved predictions are
// fetched, so re-processing a match is a no-op.
type ResultResolutionService struct {
	predRepo PredictionRepository
	notifier *NotificationService
	logger   zerolog.Logger
}

// NewResultResolutionService creates a new result resolution service
func NewResultResolutionService(predRepo PredictionRepository, notifier *NotificationService) *ResultResolutionService {
	return &ResultResolutionService{
		predRepo: predRepo,
		notifier: notifier,
		logger:   log.With().Str("component", "result_resolution").Logger(),
	}
}

// ProcessMatchCompletion resolves all pending predictions for a finished
// match. A prediction is correct when its predicted outcome (home/draw/away)
// matches the final outcome.
func (s *ResultResolutionService) ProcessMatchCompletion(ctx context.Context, match *models.Match) error {
	if !match.IsFinished() {
		return fmt.Errorf("match %d is not finished yet", match.ID)
	}
	winner := match.Winner()
	if winner == "" {
		return fmt.Errorf("match %d finished without final scores", match.ID)
	}

	preds, err := s.predRepo.ListUnresolvedByMatch(ctx, match.ID)
	if err != nil {
		return fmt.Errorf("failed to get predictions for match %d: %w", match.ID, err)
	}
	if len(preds) == 0 {
		return nil
	}

	s.logger.Info().Int64("match_id", match.ID).Int("predictions", len(preds)).
		Str("winner", winner).Msg("resolving predictions")

	for _, pred := range preds {
		correct := pred.Outcome() == winner
		if err := s.predRepo.SetCorrectness(ctx, pred.ID, correct); err != nil {
			return fmt.Errorf("failed to set correctness for prediction %s: %w", pred.ID, err)
		}

		if s.notifier != nil {
			verdict := "missed"
			if correct {
				verdict = "nailed"
			}
			s.notifier.Notify(ctx, pred.UserID, models.NotificationMatchResolved,
				"Match resolved",
				fmt.Sprintf("%s %d-%d %s: you %s this one", match.Teams.Home,
					deref(match.HomeScore), deref(match.AwayScore), match.Teams.Away, verdict))
		}
	}

	return nil
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
