package retrieval

import (
	"context"
	"fmt"

	"ai-policyassist-be/internal/repository/unitofwork"
	"ai-policyassist-be/pkg/embedding"
)

// PgVectorIndex implements VectorIndex on top of the document_embeddings
// table: the query text is embedded, then matched by cosine distance with
// the metadata predicate pushed into SQL.
type PgVectorIndex struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

var _ VectorIndex = &PgVectorIndex{}

func NewPgVectorIndex(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider) *PgVectorIndex {
	return &PgVectorIndex{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (idx *PgVectorIndex) Query(ctx context.Context, text string, k int, filter Filter) ([]Candidate, error) {
	embResp, err := idx.embeddingProvider.Generate(text, "retrieval_query")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := idx.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentEmbeddingRepository().SearchSimilar(ctx, embResp.Embedding.Values, k, filter.Topic, filter.Country)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	candidates := make([]Candidate, len(scored))
	for i, s := range scored {
		candidates[i] = Candidate{
			Id:       s.Chunk.Id.String(),
			Content:  s.Chunk.Content,
			Topic:    s.Chunk.Topic,
			Country:  s.Chunk.Country,
			Source:   s.Chunk.Source,
			Distance: s.Distance,
		}
	}
	return candidates, nil
}
