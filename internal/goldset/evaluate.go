package goldset

import (
	"context"
	"fmt"

	"github.com/standardbeagle/matchd/internal/identity"
	"github.com/standardbeagle/matchd/internal/normalize"
)

// Dictionary resolves a gold-set record's input_id/candidate_id strings to
// the Identity they name, replacing the original's IdentityNode
// linked-list walk (original_source/gold_set.rs's find_identity_by_id)
// with a plain map lookup.
type Dictionary map[string]identity.Identity

// ResolvedPair is one gold-set record with both sides resolved to
// identities, mirroring the original's
// Vec<(GoldSetIdentity, GoldSetIdentity, bool)> return shape.
type ResolvedPair struct {
	Input     identity.Identity
	Candidate identity.Identity
	IsMatch   bool
}

// Resolve looks up both IDs of every record in dict, dropping any record
// whose input_id or candidate_id is not present, matching the original's
// silent-skip behavior on unresolved IDs.
func Resolve(records []Record, dict Dictionary) []ResolvedPair {
	out := make([]ResolvedPair, 0, len(records))
	for _, r := range records {
		input, ok := dict[r.InputID]
		if !ok {
			continue
		}
		candidate, ok := dict[r.CandidateID]
		if !ok {
			continue
		}
		out = append(out, ResolvedPair{Input: input, Candidate: candidate, IsMatch: r.IsMatch})
	}
	return out
}

// Matcher is the subset of *matcher.Matcher evaluation depends on.
type Matcher interface {
	Match(ctx context.Context, query identity.Identity) ([]identity.MatchResult, error)
}

// Result summarizes evaluation of a matcher against a resolved gold set.
type Result struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	TrueNegatives  int
}

// Precision returns TP / (TP + FP), or 0 if the matcher never predicted a
// match.
func (r Result) Precision() float64 {
	denom := r.TruePositives + r.FalsePositives
	if denom == 0 {
		return 0
	}
	return float64(r.TruePositives) / float64(denom)
}

// Recall returns TP / (TP + FN), or 0 if no gold-set pair was a true
// match.
func (r Result) Recall() float64 {
	denom := r.TruePositives + r.FalseNegatives
	if denom == 0 {
		return 0
	}
	return float64(r.TruePositives) / float64(denom)
}

// Evaluate runs m against every resolved pair and tallies the confusion
// matrix: a pair is a predicted match if the candidate identity appears
// among the results Match(pair.Input) returns. Candidate identity is
// matched by its normalized first/last/father name, the three fields the
// gold set fixtures in this corpus vary least.
func Evaluate(ctx context.Context, m Matcher, pairs []ResolvedPair) (Result, error) {
	var res Result
	for _, p := range pairs {
		results, err := m.Match(ctx, p.Input)
		if err != nil {
			results = nil
		}
		predicted := candidateInResults(p.Candidate, results)
		switch {
		case predicted && p.IsMatch:
			res.TruePositives++
		case predicted && !p.IsMatch:
			res.FalsePositives++
		case !predicted && p.IsMatch:
			res.FalseNegatives++
		default:
			res.TrueNegatives++
		}
	}
	return res, nil
}

func candidateInResults(candidate identity.Identity, results []identity.MatchResult) bool {
	first := normalize.Normalize(candidate.FirstName)
	last := normalize.Normalize(candidate.LastName)
	father := normalize.Normalize(candidate.FatherName)
	for _, r := range results {
		if r.Matched.FirstName == first && r.Matched.LastName == last && r.Matched.FatherName == father {
			return true
		}
	}
	return false
}

// FormatSummary renders a one-line human-readable precision/recall report,
// used by matchd evaluate.
func FormatSummary(r Result) string {
	return fmt.Sprintf("precision=%.3f recall=%.3f tp=%d fp=%d fn=%d tn=%d",
		r.Precision(), r.Recall(), r.TruePositives, r.FalsePositives, r.FalseNegatives, r.TrueNegatives)
}
