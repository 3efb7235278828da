package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConsultRequest struct {
	Query     string     `json:"query" validate:"required"`
	SessionId *uuid.UUID `json:"session_id,omitempty"`
}

// AudioFileInfo describes the single recording grounding a response
type AudioFileInfo struct {
	Id       string  `json:"id"`
	Filename string  `json:"filename"`
	Summary  string  `json:"summary"`
	Score    float64 `json:"score"`
}

type ConsultResponse struct {
	Response           string          `json:"response"`
	Query              string          `json:"query"`
	AudioFiles         []AudioFileInfo `json:"audio_files"`
	AudioProvided      bool            `json:"audio_provided"`
	ConversationLength int64           `json:"conversation_length"`
	SessionId          string          `json:"session_id"`
}

type ResetSessionRequest struct {
	SessionId *uuid.UUID `json:"session_id,omitempty"`
}

type ResetSessionResponse struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type SessionStatusResponse struct {
	SessionId string `json:"session_id"`
	IsActive  bool   `json:"is_active"`
	// ConversationLength mirrors MessageCount; kept so existing clients
	// reading either field keep working.
	ConversationLength int64      `json:"conversation_length"`
	MessageCount       int64      `json:"message_count"`
	FirstMessageTime   *time.Time `json:"first_message_time,omitempty"`
	LastMessageTime    *time.Time `json:"last_message_time,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type HistoryMessage struct {
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	AudioFiles []AudioFileInfo `json:"audio_files,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

type SessionHistoryResponse struct {
	SessionId string           `json:"session_id"`
	Messages  []HistoryMessage `json:"messages"`
	Count     int              `json:"count"`
}
