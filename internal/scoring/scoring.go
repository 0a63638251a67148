// Package scoring implements spec.md §4.3: the pair scorer. It combines
// plain Jaro similarity, length-normalized Levenshtein, and a phonetic
// bonus into a per-field score, and a variation-aware wrapper that picks
// the best score across a base string and its known surface variants.
// Grounded on original_source/src/utils/matching.rs
// (score_pair_with_soundex, combo, best_score_against_variations), using
// github.com/hbollon/go-edlib for the Jaro and Levenshtein primitives in
// place of the original's strsim crate, the way internal/semantic's
// FuzzyMatcher does for the teacher's own fuzzy matching.
package scoring

import (
	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/matchd/internal/normalize"
	"github.com/standardbeagle/matchd/internal/phonetic"
)

// ScorePair returns the similarity between a and b, both assumed already
// normalized per package normalize. a is the query side: the Levenshtein
// normalization denominator is authoritative on |a|, so callers must pass
// the query string first.
func ScorePair(a, b string) float64 {
	j := jaro(a, b)
	lev := levNorm(a, b)
	base := ((j + lev) / 2) * 0.8
	bonus := 0.0
	if phonetic.Encode(a) == phonetic.Encode(b) {
		bonus = 0.2
	}
	score := base + bonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Combo returns the average of the phonetic match indicator (0 or 1) and
// the plain Jaro similarity. Unlike ScorePair, it carries no Levenshtein
// term and no additive bonus; it is used for the first- and last-name
// weighted components of the full-record score.
func Combo(a, b string) float64 {
	p := 0.0
	if phonetic.Encode(a) == phonetic.Encode(b) {
		p = 1.0
	}
	return (p + jaro(a, b)) / 2
}

// BestScoreAgainstVariations returns the maximum of ScorePair(queryNorm,
// baseNorm) and ScorePair(queryNorm, N(v)) for every raw variation v,
// normalizing each v lazily at call time. variationsRaw may be empty, in
// which case the result is just ScorePair(queryNorm, baseNorm).
func BestScoreAgainstVariations(queryNorm, baseNorm string, variationsRaw []string) float64 {
	best := ScorePair(queryNorm, baseNorm)
	for _, v := range variationsRaw {
		if s := ScorePair(queryNorm, normalize.Normalize(v)); s > best {
			best = s
		}
	}
	return best
}

// Jaro returns standard Jaro similarity (no Winkler prefix boost) between
// a and b. Exported for the matcher's total-score formula, which weighs
// plain Jaro on the father, grandfather, mother-first-name, and place
// fields directly, without the variation-aware or phonetic-bonus wrapping
// ScorePair and Combo add.
func Jaro(a, b string) float64 {
	return jaro(a, b)
}

// jaro computes standard Jaro similarity with no Winkler prefix boost,
// operating on a and b as sequences of runes.
func jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Jaro)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// levNorm computes 1 - min(levenshtein(a, b), |a|) / max(|a|, 1), runes
// counted as Unicode scalar values. The numerator is capped at |a| so the
// result stays in [0,1] even when b is much longer than a; when a is
// empty the result is 1 if b is also empty, else 0.
func levNorm(a, b string) float64 {
	lenA := len([]rune(a))
	if lenA == 0 {
		if b == "" {
			return 1.0
		}
		return 0.0
	}
	dist := edlib.LevenshteinDistance(a, b)
	if dist > lenA {
		dist = lenA
	}
	return 1.0 - float64(dist)/float64(lenA)
}
