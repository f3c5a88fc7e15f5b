// Package match pairs contracts across platforms that describe the same
// real-world event.
package match

import (
	"strings"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/pkg/hashset"
)

// Weighting of the two similarity components. Category taxonomies differ
// far more between platforms than event wording does, so the lexical title
// component dominates.
const (
	titleWeight    = 0.7
	categoryWeight = 0.3
)

// Similarity scores how likely two contracts represent the same event, in
// [0,100]. It is a pure, symmetric function: token-set overlap of the
// lowercased titles (Jaccard, 0-100) blended with exact category equality
// (0 or 100).
func Similarity(a, b domain.Contract) float64 {
	title := titleOverlap(a.Title, b.Title)

	var category float64
	if a.Category == b.Category {
		category = 100
	}

	return titleWeight*title + categoryWeight*category
}

// titleOverlap returns |intersection| / |union| * 100 over whitespace
// tokens. The union of two empty token sets is defined as empty, yielding 0.
func titleOverlap(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)

	union := ta.UnionCount(tb)
	if union == 0 {
		return 0
	}
	return float64(ta.IntersectCount(tb)) / float64(union) * 100
}

func tokenize(title string) hashset.Set[string] {
	return hashset.SetFromSlice(strings.Fields(strings.ToLower(title)))
}
