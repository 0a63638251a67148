// Package matcher implements spec.md §4.5: the match engine. It buckets
// by generation, fetches the candidate decade from the store, normalizes
// the query once, runs the §4.4 filter, fans per-candidate scoring out
// across a worker pool, and returns the ranked, thresholded top-K.
//
// Grounded on original_source/src/utils/loader.rs (generation_key) and
// matching.rs (calculate_full_score) for the scoring semantics; the
// fan-out shape follows the pattern the other_examples pack's
// gnames/gndb worker shows for golang.org/x/sync/errgroup
// (errgroup.WithContext plus a fixed number of producer goroutines),
// adapted from a channel pipeline to a bounded index-sharded map since
// the scoring work here has no I/O and needs no back-pressure: each
// goroutine owns a disjoint slice of result indices, so no locking is
// needed in the hot path (spec.md §5's shared-resource policy).
package matcher

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/matchd/internal/apperr"
	"github.com/standardbeagle/matchd/internal/filter"
	"github.com/standardbeagle/matchd/internal/identity"
	"github.com/standardbeagle/matchd/internal/normalize"
	"github.com/standardbeagle/matchd/internal/scoring"
	"github.com/standardbeagle/matchd/internal/store"
)

// DefaultThreshold and DefaultTopK are the reference values spec.md §6
// documents; a deployment may override both.
const (
	DefaultThreshold = 75
	DefaultTopK      = 3
)

// Matcher runs the match pipeline against a Store.
type Matcher struct {
	store     store.Store
	threshold int
	topK      int
	workers   int
}

// New builds a Matcher. threshold and topK of 0 fall back to the
// documented defaults; workers of 0 falls back to NumCPU (min 1).
func New(s store.Store, threshold, topK, workers int) *Matcher {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	return &Matcher{store: s, threshold: threshold, topK: topK, workers: workers}
}

// Match runs the full pipeline for query and returns the ranked,
// thresholded, top-K results. A *apperr.Error with KindEmptyBucket is
// returned when the store has no records for the query's generation;
// callers map that to a 404, distinct from an empty result after
// filtering (which is a plain nil, nil return).
func (m *Matcher) Match(ctx context.Context, query identity.Identity) ([]identity.MatchResult, error) {
	genKey := identity.GenerationKey(query.DOB)

	rows, err := m.store.FetchByGeneration(ctx, genKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, "matcher.fetch", err)
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.KindEmptyBucket, "matcher.fetch", "no reference records for this generation")
	}

	q := normalizeQuery(query)

	survivors := make([]identity.NormalizedIdentity, 0, len(rows))
	for _, candidate := range rows {
		if filter.Keep(q, candidate) {
			survivors = append(survivors, candidate)
		}
	}
	if len(survivors) == 0 {
		return nil, nil
	}

	results, err := m.scoreParallel(ctx, q, survivors)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})

	var out []identity.MatchResult
	for _, r := range results {
		if r.TotalScore < m.threshold {
			continue
		}
		out = append(out, r)
		if len(out) == m.topK {
			break
		}
	}
	return out, nil
}

// scoreParallel computes one MatchResult per survivor, fanned out across
// m.workers goroutines. Every goroutine writes only to the disjoint slice
// of result indices it owns, so results needs no lock.
func (m *Matcher) scoreParallel(ctx context.Context, query identity.NormalizedIdentity, survivors []identity.NormalizedIdentity) ([]identity.MatchResult, error) {
	results := make([]identity.MatchResult, len(survivors))
	workers := m.workers
	if workers > len(survivors) {
		workers = len(survivors)
	}

	g, gCtx := errgroup.WithContext(ctx)
	chunk := (len(survivors) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= len(survivors) {
			break
		}
		end := start + chunk
		if end > len(survivors) {
			end = len(survivors)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}
				results[i] = scoreRecord(query, survivors[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "matcher.score", err)
	}
	return results, nil
}

// normalizeQuery normalizes the six query name fields and the place of
// birth once (spec.md §4.5 step 3). A query carries no variation set of
// its own: it has no known surface variants, only the candidate side
// does.
func normalizeQuery(q identity.Identity) identity.NormalizedIdentity {
	return identity.NormalizedIdentity{
		FirstName:       normalize.Normalize(q.FirstName),
		LastName:        normalize.Normalize(q.LastName),
		FatherName:      normalize.Normalize(q.FatherName),
		GrandfatherName: normalize.Normalize(q.GrandfatherName),
		MotherLastName:  normalize.Normalize(q.MotherLastName),
		MotherFirstName: normalize.Normalize(q.MotherFirstName),
		DOB:             q.DOB,
		Sex:             q.Sex,
		PlaceOfBirth:    normalize.Normalize(q.PlaceOfBirth),
	}
}

// scoreRecord computes the full breakdown and weighted total score for
// one query/candidate pair, per spec.md §4.5.
func scoreRecord(q, c identity.NormalizedIdentity) identity.MatchResult {
	firstBest := scoring.BestScoreAgainstVariations(q.FirstName, c.FirstName, c.FirstNameVariations.Values())
	lastBest := scoring.BestScoreAgainstVariations(q.LastName, c.LastName, c.LastNameVariations.Values())
	fatherBest := scoring.BestScoreAgainstVariations(q.FatherName, c.FatherName, c.FatherNameVariations.Values())
	grandfatherBest := scoring.BestScoreAgainstVariations(q.GrandfatherName, c.GrandfatherName, c.GrandfatherNameVariations.Values())
	motherLastBest := scoring.BestScoreAgainstVariations(q.MotherLastName, c.MotherLastName, c.MotherLastNameVariations.Values())
	motherFirstBest := scoring.BestScoreAgainstVariations(q.MotherFirstName, c.MotherFirstName, c.MotherFirstNameVariations.Values())

	dobScore := 0.0
	dobTripleEqual := false
	if q.DOB.Present() && c.DOB.Present() {
		matches := 0
		if q.DOB.Day == c.DOB.Day {
			matches++
		}
		if q.DOB.Month == c.DOB.Month {
			matches++
		}
		if q.DOB.Year == c.DOB.Year {
			matches++
		}
		dobScore = float64(matches) / 3
		dobTripleEqual = q.DOB.Equal(c.DOB)
	}

	placeScore := scoring.ScorePair(q.PlaceOfBirth, c.PlaceOfBirth)

	sexScore := 0.0
	if q.Sex == c.Sex {
		sexScore = 1.0
	}

	breakdown := []identity.FieldScore{
		{Label: identity.FieldFirstName, Score: roundHalfUp(firstBest * 100)},
		{Label: identity.FieldLastName, Score: roundHalfUp(lastBest * 100)},
		{Label: identity.FieldFatherName, Score: roundHalfUp(fatherBest * 100)},
		{Label: identity.FieldGrandfatherName, Score: roundHalfUp(grandfatherBest * 100)},
		{Label: identity.FieldMotherLastName, Score: roundHalfUp(motherLastBest * 100)},
		{Label: identity.FieldMotherFirstName, Score: roundHalfUp(motherFirstBest * 100)},
		{Label: identity.FieldDOB, Score: roundHalfUp(dobScore * 100)},
		{Label: identity.FieldPlace, Score: roundHalfUp(placeScore * 100)},
		{Label: identity.FieldSex, Score: roundHalfUp(sexScore * 100)},
	}

	// The weighted total uses plain combo/jaro on the base normalized
	// strings, not the variation-aware best score above, and it
	// deliberately omits mother-last: only five of the six name fields
	// carry weight in the aggregate (spec.md §4.5's documented asymmetry).
	dobTerm := 0.0
	if dobTripleEqual {
		dobTerm = 1.0
	}
	total := 0.35*scoring.Combo(q.FirstName, c.FirstName) +
		0.30*scoring.Combo(q.LastName, c.LastName) +
		0.10*scoring.Jaro(q.FatherName, c.FatherName) +
		0.05*scoring.Jaro(q.GrandfatherName, c.GrandfatherName) +
		0.05*scoring.Jaro(q.MotherFirstName, c.MotherFirstName) +
		0.10*dobTerm +
		0.05*scoring.Jaro(q.PlaceOfBirth, c.PlaceOfBirth)

	return identity.MatchResult{
		Matched:    c,
		TotalScore: roundHalfUp(total * 100),
		Breakdown:  breakdown,
	}
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
