package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictionOutcome(t *testing.T) {
	assert.Equal(t, OutcomeHome, (&Prediction{HomeScore: 2, AwayScore: 1}).Outcome())
	assert.Equal(t, OutcomeAway, (&Prediction{HomeScore: 0, AwayScore: 1}).Outcome())
	assert.Equal(t, OutcomeDraw, (&Prediction{HomeScore: 1, AwayScore: 1}).Outcome())
	assert.Equal(t, OutcomeDraw, (&Prediction{}).Outcome())
}

func TestPredictionResolution(t *testing.T) {
	pending := Prediction{}
	assert.False(t, pending.IsResolved())
	assert.False(t, pending.IsCorrect())
	assert.Zero(t, pending.Points())

	correct := true
	resolved := Prediction{Correct: &correct}
	assert.True(t, resolved.IsResolved())
	assert.True(t, resolved.IsCorrect())
	assert.Equal(t, 3, resolved.Points())

	wrong := false
	missed := Prediction{Correct: &wrong}
	assert.True(t, missed.IsResolved())
	assert.False(t, missed.IsCorrect())
	assert.Zero(t, missed.Points())
}

func TestParseTimeFilter(t *testing.T) {
	for _, valid := range []string{"7days", "30days", "90days", "all"} {
		filter, err := ParseTimeFilter(valid)
		assert.NoError(t, err)
		assert.Equal(t, TimeFilter(valid), filter)
	}

	_, err := ParseTimeFilter("14days")
	assert.Error(t, err)

	_, err = ParseTimeFilter("")
	assert.Error(t, err)
}
