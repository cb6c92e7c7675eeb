package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Config holds PostgreSQL connection parameters
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timeout  time.Duration
}

// Postgres wraps a pgx connection pool
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgresConnection opens a connection pool and bootstraps the schema
func NewPostgresConnection(cfg Config) (*Postgres, error) {
	logger := log.With().Str("component", "postgres").Logger()

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db := &Postgres{Pool: pool}
	if err := db.createTables(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("connected")
	return db, nil
}

// Close releases the connection pool
func (db *Postgres) Close() {
	db.Pool.Close()
}

// createTables creates the schema if it does not exist yet
func (db *Postgres) createTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGINT PRIMARY KEY,
			date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			league_id BIGINT NOT NULL,
			league_name TEXT NOT NULL,
			league_country TEXT NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			home_score INT,
			away_score INT,
			home_win_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_date ON matches (date)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (id),
			match_id BIGINT NOT NULL,
			league_id BIGINT NOT NULL,
			home_score INT NOT NULL,
			away_score INT NOT NULL,
			correct BOOLEAN,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, match_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user_created ON predictions (user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_unresolved ON predictions (match_id) WHERE correct IS NULL`,
		`CREATE TABLE IF NOT EXISTS favorites (
			match_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users (id),
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			league TEXT NOT NULL,
			match_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, match_id)
		)`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			user_id BIGINT PRIMARY KEY REFERENCES users (id),
			tier TEXT NOT NULL,
			status TEXT NOT NULL,
			stripe_customer_id TEXT,
			stripe_subscription_id TEXT,
			payment_id TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (id),
			user_name TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_created ON chat_messages (created_at)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (id),
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
