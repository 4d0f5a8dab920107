package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type BySessionNumber struct {
	SessionNumber int64
}

func (s BySessionNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_number = ?", s.SessionNumber)
}

type ByTurnNumber struct {
	TurnNumber int64
}

func (s ByTurnNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_number = ?", s.TurnNumber)
}

type ExcludeTurnNumber struct {
	TurnNumber int64
}

func (s ExcludeTurnNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_number != ?", s.TurnNumber)
}

// NotDeleted filters the soft-delete flag. The ledger tables keep deleted
// rows visible to gorm, so this must be applied explicitly.
type NotDeleted struct{}

func (s NotDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = false")
}
