package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChatMessage rows are append-only: they are created once and never updated.
type ChatMessage struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId   uuid.UUID      `gorm:"type:uuid;not null;index;index:idx_chat_messages_session_seq,priority:1"`
	Role            string         `gorm:"type:varchar(50);not null"`
	Content         string         `gorm:"type:text;not null"`
	Sequence        int64          `gorm:"not null;default:0;index:idx_chat_messages_session_seq,priority:2"` // per-session replay order, 1-based
	AudioResourceId *uuid.UUID     `gorm:"type:uuid;index"` // at most one resource per assistant message
	RetrievalMeta   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
