package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByAudioResourceID struct {
	AudioResourceID uuid.UUID
}

func (s ByAudioResourceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("audio_resource_id = ?", s.AudioResourceID)
}
