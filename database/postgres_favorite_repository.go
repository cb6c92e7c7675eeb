package database

import (
	"context"
	"errors"
	"fmt"

	"matchpredict-go/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavoriteRepository implements favorite storage on PostgreSQL
type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFavoriteRepository creates a new favorite repository
func NewPostgresFavoriteRepository(db *Postgres) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{pool: db.Pool}
}

// AddFavorite inserts a denormalized favorite row
func (r *PostgresFavoriteRepository) AddFavorite(ctx context.Context, fav *models.FavoriteMatch) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (match_id, user_id, home_team, away_team, league, match_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, match_id) DO NOTHING
	`, fav.MatchID, fav.UserID, fav.HomeTeam, fav.AwayTeam, fav.League, fav.MatchDate, fav.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a user's favorite for a match
func (r *PostgresFavoriteRepository) RemoveFavorite(ctx context.Context, userID, matchID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND match_id = $2
	`, userID, matchID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// GetFavorite retrieves one favorite row, nil when absent
func (r *PostgresFavoriteRepository) GetFavorite(ctx context.Context, userID, matchID int64) (*models.FavoriteMatch, error) {
	var fav models.FavoriteMatch
	err := r.pool.QueryRow(ctx, `
		SELECT match_id, user_id, home_team, away_team, league, match_date, created_at
		FROM favorites WHERE user_id = $1 AND match_id = $2
	`, userID, matchID).Scan(
		&fav.MatchID, &fav.UserID, &fav.HomeTeam, &fav.AwayTeam, &fav.League, &fav.MatchDate, &fav.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find favorite: %w", err)
	}
	return &fav, nil
}

// ListByUser retrieves all of a user's favorites, upcoming matches first
func (r *PostgresFavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]models.FavoriteMatch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT match_id, user_id, home_team, away_team, league, match_date, created_at
		FROM favorites WHERE user_id = $1
		ORDER BY match_date
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []models.FavoriteMatch
	for rows.Next() {
		var fav models.FavoriteMatch
		if err := rows.Scan(&fav.MatchID, &fav.UserID, &fav.HomeTeam, &fav.AwayTeam, &fav.League, &fav.MatchDate, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}
