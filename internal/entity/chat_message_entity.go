package entity

import (
	"time"

	"github.com/google/uuid"

	"omniops-core/pkg/agent"
)

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Chat          string
	Role          string
	ChatSessionId uuid.UUID `gorm:"type:uuid;index"`
	ToolsUsed     []agent.ToolUsage
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
