package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AudioResource struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename         string         `gorm:"type:text;not null"`
	OriginalFilename string         `gorm:"type:text"`
	StoragePath      string         `gorm:"type:text;not null"`
	Transcription    string         `gorm:"type:text"`
	Summary          string         `gorm:"type:text;not null"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index"` // ingestion time, used as the retrieval tie-breaker
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (AudioResource) TableName() string {
	return "audio_resources"
}
