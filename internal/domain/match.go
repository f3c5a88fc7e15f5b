package domain

// ContractMatch pairs one contract from each platform that likely represent
// the same real-world event. Matches are views computed fresh per evaluation
// pass; they are never persisted.
type ContractMatch struct {
	A     Contract `json:"a"`
	B     Contract `json:"b"`
	Score float64  `json:"score"` // similarity in [0,100], symmetric
}
