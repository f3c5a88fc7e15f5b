package match

import "github.com/cwoodfield/paritylens/internal/domain"

// Match selects, for every contract in a, the single highest-scoring
// candidate in b, and emits the pair when its score is at least
// minSimilarity. Ties go to the candidate encountered first in b's order, so
// results are reproducible for a fixed input order.
//
// This is a greedy many-to-one assignment: the same b contract may be the
// best match for several a contracts, and no b-side deduplication is done.
// With minSimilarity 0 every a contract matches its best available
// candidate; callers wanting quality pass their own floor (e.g. 70).
//
// An empty b yields an empty result, not an error.
func Match(a, b []domain.Contract, minSimilarity float64) []domain.ContractMatch {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	matches := make([]domain.ContractMatch, 0, len(a))
	for _, ca := range a {
		best := -1
		bestScore := 0.0
		for i, cb := range b {
			score := Similarity(ca, cb)
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if bestScore < minSimilarity {
			continue
		}
		matches = append(matches, domain.ContractMatch{
			A:     ca,
			B:     b[best],
			Score: bestScore,
		})
	}
	return matches
}
