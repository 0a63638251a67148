package store

import (
	"context"

	"github.com/standardbeagle/matchd/internal/identity"
)

// MemStore is an in-memory Store backed by a decade-bucketed slice. It
// backs the query/evaluate CLI subcommands and the test suite; it holds
// no lock because it is built once at load time and never mutated
// concurrently with a FetchByGeneration call.
type MemStore struct {
	buckets map[int][]identity.NormalizedIdentity
}

// NewMemStore builds a MemStore from raw rows, running the loader over
// each row once at construction time and bucketing the results by decade.
func NewMemStore(rows []RawReferenceRow) *MemStore {
	buckets := make(map[int][]identity.NormalizedIdentity)
	for _, row := range rows {
		key := GenerationKey(row.Year)
		buckets[key] = append(buckets[key], loadIdentity(row))
	}
	return &MemStore{buckets: buckets}
}

// FetchByGeneration returns the bucket for decadeKey, or nil if empty.
func (m *MemStore) FetchByGeneration(_ context.Context, decadeKey int) ([]identity.NormalizedIdentity, error) {
	return m.buckets[decadeKey], nil
}
