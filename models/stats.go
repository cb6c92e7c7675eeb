package models

import (
	"fmt"
	"time"
)

// TimeFilter is the coarse window selector used to bound which predictions
// participate in aggregation.
type TimeFilter string

const (
	TimeFilter7Days  TimeFilter = "7days"
	TimeFilter30Days TimeFilter = "30days"
	TimeFilter90Days TimeFilter = "90days"
	TimeFilterAll    TimeFilter = "all"
)

// ParseTimeFilter validates a raw filter value. Unknown values are an error,
// never a silent fallback.
func ParseTimeFilter(raw string) (TimeFilter, error) {
	switch TimeFilter(raw) {
	case TimeFilter7Days, TimeFilter30Days, TimeFilter90Days, TimeFilterAll:
		return TimeFilter(raw), nil
	}
	return "", fmt.Errorf("unknown time filter %q", raw)
}

// Days returns the window length in days, or 0 for the all-time filter.
func (f TimeFilter) Days() int {
	switch f {
	case TimeFilter7Days:
		return 7
	case TimeFilter30Days:
		return 30
	case TimeFilter90Days:
		return 90
	default:
		return 0
	}
}

// TimeRange is a resolved time window. A nil Start means "no lower bound",
// so the all-time filter never needs a sentinel date.
type TimeRange struct {
	Start *time.Time `json:"start"`
	End   time.Time  `json:"end"`
}

// Contains reports whether t falls inside the range
func (r TimeRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	return !t.After(r.End)
}

// DailyBucket is one calendar day of prediction results. Rate is always
// derived from the counts, never stored independently.
type DailyBucket struct {
	Date      string `json:"date"` // ISO date key, UTC
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	Total     int    `json:"total"`
	Rate      int    `json:"rate"` // round(correct/total*100)
}

// TrendInfo compares accuracy between the first and second half of a
// prediction history.
type TrendInfo struct {
	Improving  bool `json:"improving"`
	Percentage int  `json:"percentage"` // magnitude of the change
}

// CohortMetrics holds comparative accuracy for prediction cohorts
type CohortMetrics struct {
	Overall   int       `json:"overall"`
	Home      int       `json:"home"`
	Away      int       `json:"away"`
	Draw      int       `json:"draw"`
	Favorites int       `json:"favorites"`
	Underdogs int       `json:"underdogs"`
	Trend     TrendInfo `json:"trend"`
}

// LeaderboardEntry is one user's row in the accuracy leaderboard
type LeaderboardEntry struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Rate     int    `json:"rate"`
	Points   int    `json:"points"`
	Rank     int    `json:"rank"`
}
