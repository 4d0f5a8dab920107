package implementation

import (
	"context"
	"fmt"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/mapper"
	"ai-policyassist-be/internal/model"
	"ai-policyassist-be/internal/repository/contract"
	"ai-policyassist-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentEmbeddingRepository(db *gorm.DB) contract.DocumentEmbeddingRepository {
	return &DocumentEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	models := make([]*model.DocumentEmbedding, len(chunks))
	for i, c := range chunks {
		models[i] = &model.DocumentEmbedding{
			Id:             c.Id,
			Content:        c.Content,
			Topic:          c.Topic,
			Country:        c.Country,
			Source:         c.Source,
			EmbeddingValue: pgvector.NewVector(embeddings[i]),
		}
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DocumentEmbedding{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *DocumentEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, topic, country string) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.DocumentEmbedding
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	// pgvector cosine distance: embedding_value <=> vector
	query := r.db.WithContext(ctx).
		Table("document_embeddings").
		Select("document_embeddings.*, embedding_value <=> ? as distance", queryVector).
		Where("deleted_at IS NULL")

	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if country != "" {
		query = query.Where("country = ?", country)
	}

	err := query.
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredChunk{
			Chunk:    r.mapper.ToEntity(&res.DocumentEmbedding),
			Distance: res.Distance,
		}
	}
	return scored, nil
}
