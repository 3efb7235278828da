package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type AudioEmbedding struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AudioResourceId uuid.UUID       `gorm:"type:uuid;not null;index"`
	Document        string          `gorm:"type:text"` // the summary text that was embedded
	EmbeddingValue  pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-ada-002 dimensions
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

func (AudioEmbedding) TableName() string {
	return "audio_embeddings"
}
