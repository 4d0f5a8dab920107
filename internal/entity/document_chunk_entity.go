package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is an indexed fragment of a policy document. The embedding
// vector itself never leaves the repository layer.
type DocumentChunk struct {
	Id        uuid.UUID
	Content   string
	Topic     string
	Country   string
	Source    string
	CreatedAt time.Time
}
