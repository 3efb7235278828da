package unitofwork

import (
	"context"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	AudioResourceRepository() contract.AudioResourceRepository
	AudioEmbeddingRepository() contract.AudioEmbeddingRepository
}
