package rerank

import "context"

// Scorer computes a pairwise relevance score for (query, content).
// Higher means more relevant. Scores are comparable within one query only.
type Scorer interface {
	Score(ctx context.Context, query string, content string) (float64, error)
}
