package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/standardbeagle/matchd/internal/identity"
)

// fetchQuery mirrors original_source/src/utils/loader.rs's decade-windowed
// SELECT against the civil-registry table, column names kept as the
// original schema defines them.
const fetchQuery = `
SELECT
	الاسم, اسم_العائلة, اسم_الأب, اسم_الجد,
	اسم_عائلة_الأم, اسم_الأم,
	يوم_الميلاد, شهر_الميلاد, سنة_الميلاد,
	الجنس, مكان_الولادة
FROM tunisian_citizens
WHERE (سنة_الميلاد / 10) * 10 = $1
`

// PostgresStore is a Store backed by a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an already-constructed pool. Callers own the
// pool's lifetime (Close it on shutdown).
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ConnectPostgresStore builds a pool from a DSN and wraps it.
func ConnectPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	return NewPostgresStore(pool), nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Pool exposes the underlying connection pool so a deployment can share
// it with internal/accounts.PostgresAccountStore instead of opening a
// second one against the same DSN.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// FetchByGeneration runs the decade-windowed query and loads every row.
func (s *PostgresStore) FetchByGeneration(ctx context.Context, decadeKey int) ([]identity.NormalizedIdentity, error) {
	rows, err := s.pool.Query(ctx, fetchQuery, decadeKey)
	if err != nil {
		return nil, fmt.Errorf("store: fetch generation %d: %w", decadeKey, err)
	}
	defer rows.Close()

	var out []identity.NormalizedIdentity
	for rows.Next() {
		var raw RawReferenceRow
		if err := rows.Scan(
			&raw.FirstName, &raw.LastName, &raw.FatherName, &raw.GrandfatherName,
			&raw.MotherLastName, &raw.MotherFirstName,
			&raw.Day, &raw.Month, &raw.Year,
			&raw.SexRaw, &raw.PlaceOfBirth,
		); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		out = append(out, loadIdentity(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: row iteration: %w", err)
	}
	return out, nil
}
