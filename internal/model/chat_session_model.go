package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession rows are append-only: they are soft-updated (flags) but never
// physically deleted, so session numbers stay monotonic per user. The
// deleted flag is an ordinary column rather than gorm.DeletedAt because
// audit queries still need to see deleted rows.
type ChatSession struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_session_number,priority:1"`
	SessionNumber int64     `gorm:"not null;uniqueIndex:idx_user_session_number,priority:2"`
	Current       bool      `gorm:"not null;default:true"`
	Active        bool      `gorm:"not null;default:true"`
	Deleted       bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
