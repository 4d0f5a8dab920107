package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurn struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	SessionNumber int64
	TurnNumber    int64
	Question      string
	Answer        *string
	Current       bool
	Active        bool
	Deleted       bool
	CreatedAt     time.Time
}

// Exchange is one answered (or pending) question/answer pair as handed to
// the gate and the downstream agent.
type Exchange struct {
	Question string
	Answer   string
}
