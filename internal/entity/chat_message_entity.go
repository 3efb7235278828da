package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is append-only: once created it is never mutated.
type ChatMessage struct {
	Id              uuid.UUID
	ChatSessionId   uuid.UUID
	Role            string
	Content         string
	Sequence        int64
	AudioResourceId *uuid.UUID
	RetrievalMeta   []byte // raw JSON metadata about the retrieval decision
	CreatedAt       time.Time
}
