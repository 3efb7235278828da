package mapper

import (
	"time"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type AudioMapper struct{}

func NewAudioMapper() *AudioMapper {
	return &AudioMapper{}
}

func (m *AudioMapper) ResourceToEntity(r *model.AudioResource) *entity.AudioResource {
	if r == nil {
		return nil
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.AudioResource{
		Id:               r.Id,
		Filename:         r.Filename,
		OriginalFilename: r.OriginalFilename,
		StoragePath:      r.StoragePath,
		Transcription:    r.Transcription,
		Summary:          r.Summary,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        r.DeletedAt.Valid,
	}
}

func (m *AudioMapper) ResourceToModel(r *entity.AudioResource) *model.AudioResource {
	if r == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	} else if r.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.AudioResource{
		Id:               r.Id,
		Filename:         r.Filename,
		OriginalFilename: r.OriginalFilename,
		StoragePath:      r.StoragePath,
		Transcription:    r.Transcription,
		Summary:          r.Summary,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

func (m *AudioMapper) EmbeddingToEntity(e *model.AudioEmbedding) *entity.AudioEmbedding {
	if e == nil {
		return nil
	}

	return &entity.AudioEmbedding{
		Id:              e.Id,
		AudioResourceId: e.AudioResourceId,
		Document:        e.Document,
		EmbeddingValue:  e.EmbeddingValue.Slice(),
		CreatedAt:       e.CreatedAt,
	}
}

func (m *AudioMapper) EmbeddingToModel(e *entity.AudioEmbedding) *model.AudioEmbedding {
	if e == nil {
		return nil
	}

	return &model.AudioEmbedding{
		Id:              e.Id,
		AudioResourceId: e.AudioResourceId,
		Document:        e.Document,
		EmbeddingValue:  pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:       e.CreatedAt,
	}
}
