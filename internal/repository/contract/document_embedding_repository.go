package contract

import (
	"context"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/repository/specification"
)

// ScoredChunk pairs a chunk with its cosine distance from the query vector.
type ScoredChunk struct {
	Chunk    *entity.DocumentChunk
	Distance float64
}

type DocumentEmbeddingRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk, embeddings [][]float32) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar returns up to limit chunks ordered by ascending cosine
	// distance. Empty topic/country means no filter on that field; both
	// given means both must match.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, topic, country string) ([]*ScoredChunk, error)
}
