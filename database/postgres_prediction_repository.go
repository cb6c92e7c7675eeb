package database

import (
	"context"
	"errors"
	"fmt"

	"matchpredict-go/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPredictionRepository implements prediction storage on PostgreSQL.
// Time-range filtering happens here so the aggregation layer can stay pure.
type PostgresPredictionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *Postgres) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{pool: db.Pool}
}

// Create inserts a new prediction
func (r *PostgresPredictionRepository) Create(ctx context.Context, pred *models.Prediction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO predictions (id, user_id, match_id, league_id, home_score, away_score, correct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, pred.ID, pred.UserID, pred.MatchID, pred.LeagueID, pred.HomeScore, pred.AwayScore, pred.Correct, pred.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// UpdateScores changes the predicted scores of an unresolved prediction
func (r *PostgresPredictionRepository) UpdateScores(ctx context.Context, id string, homeScore, awayScore int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE predictions SET home_score = $1, away_score = $2
		WHERE id = $3 AND correct IS NULL
	`, homeScore, awayScore, id)
	if err != nil {
		return fmt.Errorf("failed to update prediction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("prediction is resolved or missing")
	}
	return nil
}

// GetByUserAndMatch retrieves a user's prediction for a match, nil when absent
func (r *PostgresPredictionRepository) GetByUserAndMatch(ctx context.Context, userID, matchID int64) (*models.Prediction, error) {
	var p models.Prediction
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, match_id, league_id, home_score, away_score, correct, created_at
		FROM predictions WHERE user_id = $1 AND match_id = $2
	`, userID, matchID).Scan(
		&p.ID, &p.UserID, &p.MatchID, &p.LeagueID, &p.HomeScore, &p.AwayScore, &p.Correct, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find prediction: %w", err)
	}
	return &p, nil
}

// ListByUser retrieves a user's predictions inside a resolved time range,
// optionally scoped to one league. A nil range start means no lower bound.
func (r *PostgresPredictionRepository) ListByUser(ctx context.Context, userID int64, leagueID *int64, rng models.TimeRange) ([]models.Prediction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, match_id, league_id, home_score, away_score, correct, created_at
		FROM predictions
		WHERE user_id = $1
		  AND ($2::BIGINT IS NULL OR league_id = $2)
		  AND ($3::TIMESTAMPTZ IS NULL OR created_at >= $3)
		  AND created_at <= $4
		ORDER BY created_at
	`, userID, leagueID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// ListUnresolvedByMatch retrieves all predictions for a match that have no
// correctness yet.
func (r *PostgresPredictionRepository) ListUnresolvedByMatch(ctx context.Context, matchID int64) ([]models.Prediction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, match_id, league_id, home_score, away_score, correct, created_at
		FROM predictions WHERE match_id = $1 AND correct IS NULL
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unresolved predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// SetCorrectness writes the correctness flag exactly once; a second write to
// the same prediction affects no rows.
func (r *PostgresPredictionRepository) SetCorrectness(ctx context.Context, id string, correct bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE predictions SET correct = $1 WHERE id = $2 AND correct IS NULL
	`, correct, id)
	if err != nil {
		return fmt.Errorf("failed to set correctness: %w", err)
	}
	return nil
}

// AggregateAccuracy groups resolved predictions per user inside a time range.
// Only the raw counts come from SQL; rates and ranks are derived by the
// caller.
func (r *PostgresPredictionRepository) AggregateAccuracy(ctx context.Context, rng models.TimeRange, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE p.correct) AS correct
		FROM predictions p
		JOIN users u ON u.id = p.user_id
		WHERE p.correct IS NOT NULL
		  AND ($1::TIMESTAMPTZ IS NULL OR p.created_at >= $1)
		  AND p.created_at <= $2
		GROUP BY u.id, u.name
		ORDER BY correct DESC
		LIMIT $3
	`, rng.Start, rng.End, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate accuracy: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Total, &e.Correct); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func collectPredictions(rows pgx.Rows) ([]models.Prediction, error) {
	var preds []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.MatchID, &p.LeagueID, &p.HomeScore, &p.AwayScore, &p.Correct, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}
