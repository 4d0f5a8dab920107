package mapper

import (
	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(mo *model.DocumentEmbedding) *entity.DocumentChunk {
	return &entity.DocumentChunk{
		Id:        mo.Id,
		Content:   mo.Content,
		Topic:     mo.Topic,
		Country:   mo.Country,
		Source:    mo.Source,
		CreatedAt: mo.CreatedAt,
	}
}
