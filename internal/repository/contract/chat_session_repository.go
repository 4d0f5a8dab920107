package contract

import (
	"context"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MaxSessionNumber returns the highest session number ever allocated
	// for the user, including soft-deleted sessions (numbers are never
	// reused). Zero when the user has no sessions.
	MaxSessionNumber(ctx context.Context, userId uuid.UUID) (int64, error)

	// DemoteCurrent clears the current flag on every session of the user.
	DemoteCurrent(ctx context.Context, userId uuid.UUID) error

	// SoftDelete marks the session deleted/inactive/non-current. Idempotent.
	SoftDelete(ctx context.Context, userId uuid.UUID, sessionNumber int64) error
}
