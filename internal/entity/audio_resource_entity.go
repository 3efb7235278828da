package entity

import (
	"time"

	"github.com/google/uuid"
)

type AudioResource struct {
	Id               uuid.UUID
	Filename         string
	OriginalFilename string
	StoragePath      string
	Transcription    string
	Summary          string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}

type AudioEmbedding struct {
	Id              uuid.UUID
	AudioResourceId uuid.UUID
	Document        string
	EmbeddingValue  []float32
	CreatedAt       time.Time
}
