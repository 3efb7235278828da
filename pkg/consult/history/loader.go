package history

import (
	"context"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/constant"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm"

	"github.com/google/uuid"
)

// Loader fetches the recent conversation window for LLM context
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{
		uowFactory: uowFactory,
	}
}

// Load returns the last `limit` turns of a session in chronological
// order, mapped to provider-agnostic messages. System messages stored
// in the transcript are skipped, the composer injects its own.
func (l *Loader) Load(ctx context.Context, sessionId uuid.UUID, limit int) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatMessageRepository().FindRecentBySessionId(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(chats))
	for _, chat := range chats {
		if chat.Role == constant.MessageRoleSystem {
			continue
		}
		messages = append(messages, llm.Message{
			Role:    chat.Role,
			Content: chat.Content,
		})
	}
	return messages, nil
}
