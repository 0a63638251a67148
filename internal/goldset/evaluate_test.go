package goldset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/matchd/internal/identity"
	"github.com/standardbeagle/matchd/internal/matcher"
	"github.com/standardbeagle/matchd/internal/store"
)

func sampleIdentity() identity.Identity {
	return identity.Identity{
		FirstName:  "أحمد",
		LastName:   "طرابلسي",
		FatherName: "محمد",
		DOB:        identity.DOB{Day: 15, Month: 6, Year: 1985},
		Sex:        identity.SexMale,
	}
}

func sampleRow() store.RawReferenceRow {
	q := sampleIdentity()
	return store.RawReferenceRow{
		FirstName: q.FirstName, LastName: q.LastName, FatherName: q.FatherName,
		Day: q.DOB.Day, Month: q.DOB.Month, Year: q.DOB.Year, SexRaw: "1",
	}
}

func TestResolveDropsUnknownIDs(t *testing.T) {
	dict := Dictionary{"id1": sampleIdentity()}
	records := []Record{
		{InputID: "id1", CandidateID: "missing", IsMatch: true},
		{InputID: "missing", CandidateID: "id1", IsMatch: true},
	}
	pairs := Resolve(records, dict)
	assert.Empty(t, pairs)
}

func TestResolveKeepsKnownPairs(t *testing.T) {
	dict := Dictionary{"id1": sampleIdentity(), "id2": sampleIdentity()}
	records := []Record{{InputID: "id1", CandidateID: "id2", IsMatch: true}}
	pairs := Resolve(records, dict)
	require.Len(t, pairs, 1)
	assert.True(t, pairs[0].IsMatch)
}

func TestEvaluateTruePositive(t *testing.T) {
	m := matcher.New(store.NewMemStore([]store.RawReferenceRow{sampleRow()}), 0, 0, 0)
	pairs := []ResolvedPair{{Input: sampleIdentity(), Candidate: sampleIdentity(), IsMatch: true}}

	result, err := Evaluate(context.Background(), m, pairs)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TruePositives)
	assert.Equal(t, 0, result.FalsePositives)
	assert.Equal(t, 1.0, result.Precision())
	assert.Equal(t, 1.0, result.Recall())
}

func TestEvaluateFalseNegativeOnEmptyBucket(t *testing.T) {
	m := matcher.New(store.NewMemStore(nil), 0, 0, 0)
	pairs := []ResolvedPair{{Input: sampleIdentity(), Candidate: sampleIdentity(), IsMatch: true}}

	result, err := Evaluate(context.Background(), m, pairs)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TruePositives)
	assert.Equal(t, 1, result.FalseNegatives)
	assert.Equal(t, 0.0, result.Recall())
}

func TestFormatSummaryContainsMetrics(t *testing.T) {
	r := Result{TruePositives: 2, FalsePositives: 1, FalseNegatives: 1, TrueNegatives: 3}
	s := FormatSummary(r)
	assert.Contains(t, s, "precision=")
	assert.Contains(t, s, "recall=")
}
