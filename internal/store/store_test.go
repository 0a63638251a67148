package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSex(t *testing.T) {
	assert.Equal(t, 1, mapSex("1"))
	assert.Equal(t, 1, mapSex("ذكر"))
	assert.Equal(t, 2, mapSex("2"))
	assert.Equal(t, 2, mapSex("أنثى"))
	assert.Equal(t, 0, mapSex(""))
	assert.Equal(t, 0, mapSex("unknown"))
}

func TestLoadIdentityNormalizesAndSeedsVariations(t *testing.T) {
	row := RawReferenceRow{
		FirstName:    "أحمَد",
		LastName:     "طرابلسي",
		SexRaw:       "1",
		Day:          15, Month: 6, Year: 1985,
		PlaceOfBirth: "تونس",
	}
	n := loadIdentity(row)
	assert.Equal(t, "احمد", n.FirstName)
	assert.Equal(t, 1, n.Sex)
	assert.Equal(t, 1, n.FirstNameVariations.Len())
	assert.Equal(t, []string{"أحمَد"}, n.FirstNameVariations.Values())
}

func TestRawRowToIdentityKeepsTextRaw(t *testing.T) {
	row := RawReferenceRow{
		FirstName: "أحمَد", LastName: "طرابلسي", SexRaw: "ذكر",
		Day: 15, Month: 6, Year: 1985, PlaceOfBirth: "تونس",
	}
	got := RawRowToIdentity(row)
	assert.Equal(t, "أحمَد", got.FirstName, "RawRowToIdentity must not normalize")
	assert.Equal(t, 1, got.Sex)
	assert.Equal(t, 1985, got.DOB.Year)
}

func TestMemStoreBucketsByDecade(t *testing.T) {
	rows := []RawReferenceRow{
		{LastName: "طرابلسي", Year: 1985},
		{LastName: "صالح", Year: 1989},
		{LastName: "الحمامي", Year: 1974},
	}
	s := NewMemStore(rows)

	got, err := s.FetchByGeneration(context.Background(), 1980)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.FetchByGeneration(context.Background(), 1970)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.FetchByGeneration(context.Background(), 2200)
	require.NoError(t, err)
	assert.Empty(t, got)
}
