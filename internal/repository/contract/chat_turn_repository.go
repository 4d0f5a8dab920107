package contract

import (
	"context"

	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatTurnRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatTurn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MaxTurnNumber returns the highest turn number ever allocated within
	// the (user, session) scope, including soft-deleted turns. Zero when
	// the session has no turns.
	MaxTurnNumber(ctx context.Context, userId uuid.UUID, sessionNumber int64) (int64, error)

	// UpdateAnswer sets the answer of an existing turn. Returns the number
	// of rows updated so callers can distinguish a missing turn.
	UpdateAnswer(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64, answer string) (int64, error)

	// SoftDelete marks the turn deleted/inactive/non-current. Idempotent.
	SoftDelete(ctx context.Context, userId uuid.UUID, sessionNumber, turnNumber int64) error
}
