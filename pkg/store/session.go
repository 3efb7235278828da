package store

import "time"

// Resource is the retrieval-facing view of an ingested audio recording.
// Score is the cosine similarity of the recording against the last query.
type Resource struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	Summary     string  `json:"summary"`
	StoragePath string  `json:"storage_path"`
	Score       float64 `json:"score"`
}

// Session represents the active consultation session state in memory.
// It mirrors the persisted chat_sessions row plus the hot counters the
// status endpoint reads without touching the database.
type Session struct {
	ID string `json:"id"` // ChatSessionID

	// Last resource surfaced to this session, if any
	LastResource *Resource `json:"last_resource"`

	// Metadata for last interaction
	LastQuery    string `json:"last_query"`
	MessageCount int64  `json:"message_count"`

	// Mirror of the persisted session row, refreshed on every turn.
	// FirstMessageTime stays nil for sessions resumed after a cache miss;
	// readers must fall back to the durable stats in that case.
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	FirstMessageTime *time.Time `json:"first_message_time,omitempty"`
	LastMessageTime  *time.Time `json:"last_message_time,omitempty"`
}
