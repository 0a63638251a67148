// Package store implements spec.md §6's store contract: a single
// operation, FetchByGeneration, that returns every reference record whose
// birth year falls in an exact decade bucket, already run through the
// loader (normalized names and place, sex mapped to 0/1/2, each field
// seeded with a single-entry variation set holding its raw original).
// Grounded on original_source/src/utils/loader.rs
// (generation_key, load_identities_by_generation).
package store

import (
	"context"

	"github.com/standardbeagle/matchd/internal/identity"
	"github.com/standardbeagle/matchd/internal/normalize"
)

// RawReferenceRow is the wire shape a backing store hands back before the
// loader runs: six raw name fields, a birth date as three integers (zero
// meaning absent), a raw sex token as originally stored, and a raw place
// of birth.
type RawReferenceRow struct {
	FirstName       string
	LastName        string
	FatherName      string
	GrandfatherName string
	MotherLastName  string
	MotherFirstName string
	Day             int
	Month           int
	Year            int
	SexRaw          string
	PlaceOfBirth    string
}

// Store is the one operation the match engine consumes.
type Store interface {
	// FetchByGeneration returns every reference record whose
	// (year/10)*10 equals decadeKey, already normalized by the loader.
	// An empty, nil-error result means the bucket is genuinely empty;
	// callers distinguish that from a store error.
	FetchByGeneration(ctx context.Context, decadeKey int) ([]identity.NormalizedIdentity, error)
}

// mapSex maps a store's raw sex token to spec.md §3's 0/1/2 codes. "1" and
// the Arabic masculine token map to male, "2" and the feminine token to
// female; anything else, including an empty string, maps to unknown.
func mapSex(raw string) int {
	switch raw {
	case "1", "ذكر":
		return identity.SexMale
	case "2", "أنثى":
		return identity.SexFemale
	default:
		return identity.SexUnknown
	}
}

// loadIdentity runs the loader over a single raw row: normalizes the six
// name fields and the place of birth via package normalize, maps sex, and
// seeds each name field's variation set with the single raw original
// text, per spec.md §6.
func loadIdentity(row RawReferenceRow) identity.NormalizedIdentity {
	return identity.NormalizedIdentity{
		FirstName:       normalize.Normalize(row.FirstName),
		LastName:        normalize.Normalize(row.LastName),
		FatherName:      normalize.Normalize(row.FatherName),
		GrandfatherName: normalize.Normalize(row.GrandfatherName),
		MotherLastName:  normalize.Normalize(row.MotherLastName),
		MotherFirstName: normalize.Normalize(row.MotherFirstName),
		DOB:             identity.DOB{Day: row.Day, Month: row.Month, Year: row.Year},
		Sex:             mapSex(row.SexRaw),
		PlaceOfBirth:    normalize.Normalize(row.PlaceOfBirth),

		FirstNameVariations:       identity.NewVariationSet(row.FirstName),
		LastNameVariations:        identity.NewVariationSet(row.LastName),
		FatherNameVariations:      identity.NewVariationSet(row.FatherName),
		GrandfatherNameVariations: identity.NewVariationSet(row.GrandfatherName),
		MotherLastNameVariations:  identity.NewVariationSet(row.MotherLastName),
		MotherFirstNameVariations: identity.NewVariationSet(row.MotherFirstName),
	}
}

// GenerationKey mirrors identity.GenerationKey for a bare year, used by
// store implementations bucketing rows before filtering.
func GenerationKey(year int) int {
	return (year / 10) * 10
}

// RawRowToIdentity converts a RawReferenceRow to the raw identity.Identity
// shape a matcher query takes, without running it through the
// loader's normalization pass. Used by matchd's query/evaluate
// subcommands, which read fixture rows meant to stand in for either side
// of a match.
func RawRowToIdentity(row RawReferenceRow) identity.Identity {
	return identity.Identity{
		FirstName:       row.FirstName,
		LastName:        row.LastName,
		FatherName:      row.FatherName,
		GrandfatherName: row.GrandfatherName,
		MotherLastName:  row.MotherLastName,
		MotherFirstName: row.MotherFirstName,
		DOB:             identity.DOB{Day: row.Day, Month: row.Month, Year: row.Year},
		Sex:             mapSex(row.SexRaw),
		PlaceOfBirth:    row.PlaceOfBirth,
	}
}
