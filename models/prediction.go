package models

import (
	"time"
)

// Predicted outcome labels shared by predictions and finished matches
const (
	OutcomeHome = "home"
	OutcomeAway = "away"
	OutcomeDraw = "draw"
)

// Prediction represents a user's score prediction for a match.
// Correct stays nil until the match finishes; the resolution process sets it
// exactly once, after which the record is immutable.
type Prediction struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	MatchID   int64     `json:"match_id"`
	LeagueID  int64     `json:"league_id"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Correct   *bool     `json:"correct"`
	CreatedAt time.Time `json:"created_at"`
}

// IsResolved returns true once correctness has been determined
func (p *Prediction) IsResolved() bool {
	return p.Correct != nil
}

// IsCorrect returns true for a resolved, correct prediction
func (p *Prediction) IsCorrect() bool {
	return p.Correct != nil && *p.Correct
}

// Outcome returns the match outcome this prediction leans toward
func (p *Prediction) Outcome() string {
	switch {
	case p.HomeScore > p.AwayScore:
		return OutcomeHome
	case p.AwayScore > p.HomeScore:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Points is a read-time projection of the correctness flag; it is never
// persisted so it cannot drift from the stored value.
func (p *Prediction) Points() int {
	if p.IsCorrect() {
		return 3
	}
	return 0
}

// PredictionRequest represents the submit-prediction form data
type PredictionRequest struct {
	MatchID   int64 `json:"match_id"`
	HomeScore int   `json:"home_score"`
	AwayScore int   `json:"away_score"`
}
