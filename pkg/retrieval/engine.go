package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-policyassist-be/internal/constant"
	"ai-policyassist-be/internal/pkg/logger"
	"ai-policyassist-be/pkg/rerank"

	gocache "github.com/patrickmn/go-cache"
)

// Engine runs the two-stage pipeline: oversampled vector search followed by
// pairwise reranking. Any collaborator failure degrades to an empty result;
// the caller never sees an error from Retrieve.
type Engine struct {
	index      VectorIndex
	scorer     rerank.Scorer
	poolSize   int
	scoreCache *gocache.Cache
	logger     logger.ILogger
}

func NewEngine(index VectorIndex, scorer rerank.Scorer, log logger.ILogger) *Engine {
	return &Engine{
		index:      index,
		scorer:     scorer,
		poolSize:   constant.RetrievalPoolSize,
		scoreCache: gocache.New(5*time.Minute, 10*time.Minute),
		logger:     log,
	}
}

// Retrieve returns up to topK candidates ordered by relevance score
// descending. Ties keep the pool order. An empty pool yields an empty
// slice, not an error.
func (e *Engine) Retrieve(ctx context.Context, query string, topK int, topic, country string) []RankedCandidate {
	if topK <= 0 {
		topK = 5
	}

	filter := Filter{
		Topic:   strings.ToLower(topic),
		Country: strings.ToLower(country),
	}

	// Stage 1: oversampled pool. Pool size is fixed regardless of topK so
	// the reranker always has enough material to reorder.
	pool, err := e.index.Query(ctx, query, e.poolSize, filter)
	if err != nil {
		e.logger.Error("retrieval", "vector index query failed, degrading to empty result", map[string]interface{}{
			"error": err.Error(),
			"query": query,
		})
		return []RankedCandidate{}
	}

	if len(pool) == 0 {
		return []RankedCandidate{}
	}

	// Stage 2: pairwise rescoring of every pool candidate.
	ranked := make([]RankedCandidate, len(pool))
	for i, c := range pool {
		score, err := e.scoreCandidate(ctx, query, c)
		if err != nil {
			e.logger.Error("retrieval", "relevance scoring failed, degrading to empty result", map[string]interface{}{
				"error":    err.Error(),
				"chunk_id": c.Id,
			})
			return []RankedCandidate{}
		}
		ranked[i] = RankedCandidate{Candidate: c, Score: score}
	}

	// Stable sort keeps the original pool order for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

func (e *Engine) scoreCandidate(ctx context.Context, query string, c Candidate) (float64, error) {
	key := fmt.Sprintf("%s|%s", query, c.Id)
	if cached, found := e.scoreCache.Get(key); found {
		return cached.(float64), nil
	}

	score, err := e.scorer.Score(ctx, query, c.Content)
	if err != nil {
		return 0, err
	}

	e.scoreCache.Set(key, score, gocache.DefaultExpiration)
	return score, nil
}
