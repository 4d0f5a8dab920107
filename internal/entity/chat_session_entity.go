package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	SessionNumber int64
	Current       bool
	Active        bool
	Deleted       bool
	CreatedAt     time.Time
}
