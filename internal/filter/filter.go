// Package filter implements spec.md §4.4: the cheap pre-filter that
// discards reference candidates before the expensive per-field score
// runs. Grounded on
// original_source/src/utils/matching.rs (should_consider_candidate).
package filter

import (
	"github.com/standardbeagle/matchd/internal/identity"
	"github.com/standardbeagle/matchd/internal/phonetic"
)

// decadeWindow is the filter's birth-year tolerance, wider than the
// generation bucket on purpose: the bucket is the coarse retrieval axis,
// this is the fine one.
const decadeWindow = 10

// Keep reports whether candidate survives the pre-filter against query.
// All three gates must pass: sex equality, a ±10 year birth-year window
// (skipped if either dob is absent), and last-name phonetic equality.
// Only sex, year, and last name are examined; every other field is left
// to the scorer.
func Keep(query, candidate identity.NormalizedIdentity) bool {
	if query.Sex != candidate.Sex {
		return false
	}
	if query.DOB.Present() && candidate.DOB.Present() {
		diff := query.DOB.Year - candidate.DOB.Year
		if diff < 0 {
			diff = -diff
		}
		if diff > decadeWindow {
			return false
		}
	}
	return phonetic.Encode(query.LastName) == phonetic.Encode(candidate.LastName)
}
