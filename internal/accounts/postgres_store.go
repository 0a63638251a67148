package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAccountStore is an AccountStore backed by the users/api_usage
// tables original_source/src/handlers.rs queries directly via
// tokio-postgres; here through the same pgx/v5 pool internal/store uses
// for reference records, so a deployment running both surfaces shares
// one driver.
type PostgresAccountStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountStore wraps an already-constructed pool.
func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{pool: pool}
}

func (s *PostgresAccountStore) CreateUser(ctx context.Context, u User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`,
		u.ID, u.Email, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("accounts: create user: %w", err)
	}
	return nil
}

func (s *PostgresAccountStore) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return User{}, fmt.Errorf("accounts: no user %s", email)
		}
		return User{}, fmt.Errorf("accounts: user by email: %w", err)
	}
	return u, nil
}

func (s *PostgresAccountStore) RecordUsage(ctx context.Context, userID, apiLink string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_usage (user_id, api_link, timestamp) VALUES ($1, $2, $3)`,
		userID, apiLink, at)
	if err != nil {
		return fmt.Errorf("accounts: record usage: %w", err)
	}
	return nil
}

func (s *PostgresAccountStore) UsageByUser(ctx context.Context, userID string) ([]APIUsage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, api_link, timestamp FROM api_usage WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("accounts: usage by user: %w", err)
	}
	defer rows.Close()

	var out []APIUsage
	for rows.Next() {
		var u APIUsage
		if err := rows.Scan(&u.ID, &u.UserID, &u.APILink, &u.Timestamp); err != nil {
			return nil, fmt.Errorf("accounts: scan usage row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
