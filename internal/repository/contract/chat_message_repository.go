package contract

import (
	"context"
	"time"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"

	"github.com/google/uuid"
)

// MessageStats aggregates per-session message activity
type MessageStats struct {
	MessageCount     int64
	FirstMessageTime *time.Time
	LastMessageTime  *time.Time
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	// FindRecentBySessionId returns the last `limit` messages of a session in
	// chronological order (oldest first).
	FindRecentBySessionId(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error)
	StatsBySessionId(ctx context.Context, sessionId uuid.UUID) (*MessageStats, error)
}
