package models

import (
	"fmt"
	"strings"
	"time"
)

// MatchStatus represents the current state of a fixture
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusInPlay    MatchStatus = "in_play"
	MatchStatusFinished  MatchStatus = "finished"
	MatchStatusPostponed MatchStatus = "postponed"
)

// League identifies a competition as reported by the fixture provider
type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Teams holds the two sides of a fixture
type Teams struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Match represents a single fixture from the external provider.
// The provider owns this data; we only store read-only snapshots of it.
type Match struct {
	ID             int64       `json:"id"`
	Date           time.Time   `json:"date"`
	Status         MatchStatus `json:"status"`
	League         League      `json:"league"`
	Teams          Teams       `json:"teams"`
	HomeScore      *int        `json:"homeScore,omitempty"`
	AwayScore      *int        `json:"awayScore,omitempty"`
	HomeWinPercent float64     `json:"homeWinPercent,omitempty"` // predicted win probability, 0 when unknown
	Popularity     int         `json:"popularity,omitempty"`     // favorites counter, 0 when unknown
	UpdatedAt      time.Time   `json:"-"`
}

// IsFinished returns true if the match has a final result
func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// Winner returns the final outcome of a finished match: "home", "away" or "draw".
// Empty string when scores are not available yet.
func (m *Match) Winner() string {
	if !m.IsFinished() || m.HomeScore == nil || m.AwayScore == nil {
		return ""
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return OutcomeHome
	case *m.AwayScore > *m.HomeScore:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// HasTeam reports whether either side's name contains the query, case-insensitively.
// An empty query matches every match.
func (m *Match) HasTeam(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(m.Teams.Home), q) ||
		strings.Contains(strings.ToLower(m.Teams.Away), q)
}

// SortKey enumerates the supported fixture orderings
type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByProbability SortKey = "probability"
	SortByPopularity  SortKey = "popularity"
)

// ParseSortKey validates a raw sort selector. An empty value defaults to the
// kickoff-time ordering; anything else unknown is an error, never a silent
// fallback.
func ParseSortKey(raw string) (SortKey, error) {
	if raw == "" {
		return SortByDate, nil
	}
	switch SortKey(raw) {
	case SortByDate, SortByProbability, SortByPopularity:
		return SortKey(raw), nil
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

// MatchFilters describes the filtering and ordering applied to a fixture list
type MatchFilters struct {
	Search   string  `json:"search"`
	LeagueID *int64  `json:"leagueId,omitempty"`
	SortBy   SortKey `json:"sortBy"`
}
