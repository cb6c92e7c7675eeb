package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matchpredict-go/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresMatchRepository stores read-only fixture snapshots. Popularity is
// projected from the favorites table at read time rather than stored, so the
// counter can never drift.
type PostgresMatchRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *Postgres) *PostgresMatchRepository {
	return &PostgresMatchRepository{pool: db.Pool}
}

const matchColumns = `
	m.id, m.date, m.status, m.league_id, m.league_name, m.league_country,
	m.home_team, m.away_team, m.home_score, m.away_score, m.home_win_percent,
	m.updated_at,
	(SELECT COUNT(*) FROM favorites f WHERE f.match_id = m.id) AS popularity`

// UpsertMatches inserts or refreshes fixture snapshots in one batch.
// Fixture payloads carry no win probability, so a zero incoming value never
// overwrites a probability that was already enriched for the stored row.
func (r *PostgresMatchRepository) UpsertMatches(ctx context.Context, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	now := time.Now()
	for _, m := range matches {
		batch.Queue(`
			INSERT INTO matches (
				id, date, status, league_id, league_name, league_country,
				home_team, away_team, home_score, away_score, home_win_percent, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				date = EXCLUDED.date,
				status = EXCLUDED.status,
				home_score = EXCLUDED.home_score,
				away_score = EXCLUDED.away_score,
				home_win_percent = CASE
					WHEN EXCLUDED.home_win_percent > 0 THEN EXCLUDED.home_win_percent
					ELSE matches.home_win_percent
				END,
				updated_at = EXCLUDED.updated_at
		`, m.ID, m.Date, m.Status, m.League.ID, m.League.Name, m.League.Country,
			m.Teams.Home, m.Teams.Away, m.HomeScore, m.AwayScore, m.HomeWinPercent, now)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range matches {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert match batch: %w", err)
		}
	}
	return nil
}

// GetMatchByID retrieves one fixture snapshot, nil when not found
func (r *PostgresMatchRepository) GetMatchByID(ctx context.Context, id int64) (*models.Match, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches m WHERE m.id = $1`, id)
	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return match, nil
}

// GetMatchesByDate retrieves all stored fixtures on a UTC calendar day
func (r *PostgresMatchRepository) GetMatchesByDate(ctx context.Context, day time.Time) ([]models.Match, error) {
	dayStart := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	rows, err := r.pool.Query(ctx, `
		SELECT `+matchColumns+` FROM matches m
		WHERE m.date >= $1 AND m.date < $2
		ORDER BY m.date
	`, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

// GetHomeWinPercents resolves stored provider probabilities for a set of matches
func (r *PostgresMatchRepository) GetHomeWinPercents(ctx context.Context, matchIDs []int64) (map[int64]float64, error) {
	result := make(map[int64]float64, len(matchIDs))
	if len(matchIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, home_win_percent FROM matches WHERE id = ANY($1)
	`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query win percents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var pct float64
		if err := rows.Scan(&id, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan win percent: %w", err)
		}
		result[id] = pct
	}
	return result, rows.Err()
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.Date, &m.Status, &m.League.ID, &m.League.Name, &m.League.Country,
		&m.Teams.Home, &m.Teams.Away, &m.HomeScore, &m.AwayScore, &m.HomeWinPercent,
		&m.UpdatedAt, &m.Popularity,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
