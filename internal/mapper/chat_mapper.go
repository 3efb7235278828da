package mapper

import (
	"time"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:        s.Id,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	return &entity.ChatMessage{
		Id:              msg.Id,
		ChatSessionId:   msg.ChatSessionId,
		Role:            msg.Role,
		Content:         msg.Content,
		Sequence:        msg.Sequence,
		AudioResourceId: msg.AudioResourceId,
		RetrievalMeta:   []byte(msg.RetrievalMeta),
		CreatedAt:       msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	return &model.ChatMessage{
		Id:              msg.Id,
		ChatSessionId:   msg.ChatSessionId,
		Role:            msg.Role,
		Content:         msg.Content,
		Sequence:        msg.Sequence,
		AudioResourceId: msg.AudioResourceId,
		RetrievalMeta:   datatypes.JSON(msg.RetrievalMeta),
		CreatedAt:       msg.CreatedAt,
	}
}
