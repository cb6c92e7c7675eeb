package database

import (
	"context"
	"errors"
	"fmt"

	"matchpredict-go/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements user storage on PostgreSQL
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *Postgres) *PostgresUserRepository {
	return &PostgresUserRepository{pool: db.Pool}
}

// CreateUser inserts a new user and fills in the generated id
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Name, user.Email, user.Password, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email, nil when not found
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `
		SELECT id, name, email, password, created_at, updated_at
		FROM users WHERE email = $1
	`, email)
}

// GetUserByID retrieves a user by id, nil when not found
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `
		SELECT id, name, email, password, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
}

func (r *PostgresUserRepository) getUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
