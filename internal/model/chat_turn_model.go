package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn holds one question/answer exchange. Answer stays NULL while the
// turn is in flight or abandoned; a retry allocates a fresh turn number
// instead of overwriting this row.
type ChatTurn struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_session_turn,priority:1"`
	SessionNumber int64     `gorm:"not null;uniqueIndex:idx_user_session_turn,priority:2"`
	TurnNumber    int64     `gorm:"column:chat_number;not null;uniqueIndex:idx_user_session_turn,priority:3"`
	Question      string    `gorm:"type:text;not null"`
	Answer        *string   `gorm:"type:text"`
	Current       bool      `gorm:"not null;default:true"`
	Active        bool      `gorm:"not null;default:true"`
	Deleted       bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatTurn) TableName() string {
	return "chats"
}
