package unitofwork

import (
	"context"

	"ai-policyassist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatTurnRepository() contract.ChatTurnRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
}
