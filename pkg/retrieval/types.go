package retrieval

import "context"

// Candidate is one vector-index hit: a chunk reference plus its retrieval
// distance. Pool order (ascending distance) is the index's coarse ranking.
type Candidate struct {
	Id       string
	Content  string
	Topic    string
	Country  string
	Source   string
	Distance float64
}

// RankedCandidate carries the pairwise relevance score from the second
// stage. Final ordering is by Score descending.
type RankedCandidate struct {
	Candidate
	Score float64
}

// Filter is the conjunctive metadata predicate for the vector index. Empty
// fields are unconstrained; both set means both must match.
type Filter struct {
	Topic   string
	Country string
}

// VectorIndex is the external coarse-retrieval collaborator.
type VectorIndex interface {
	Query(ctx context.Context, text string, k int, filter Filter) ([]Candidate, error)
}
