package models

import "time"

// FavoriteMatch is a denormalized copy of a fixture a user has favorited,
// keyed by the provider's match id. The copy keeps the list renderable even
// when the provider is unreachable.
type FavoriteMatch struct {
	MatchID   int64     `json:"match_id"`
	UserID    int64     `json:"user_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	League    string    `json:"league"`
	MatchDate time.Time `json:"match_date"`
	CreatedAt time.Time `json:"created_at"`
}
