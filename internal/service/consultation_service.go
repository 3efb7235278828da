package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/constant"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/dto"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/logger"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/serverutils"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/memory"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/consult/history"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/consult/prompt"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/events"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm"
	pkgNats "github.com/Alpha-Bytes-Department/daissy-ai/pkg/nats"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/retrieval"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/store"

	"github.com/google/uuid"
)

// IConsultationService defines the consultation engine interface
type IConsultationService interface {
	Consult(ctx context.Context, request *dto.ConsultRequest) (*dto.ConsultResponse, error)
	ResetSession(ctx context.Context, request *dto.ResetSessionRequest) (*dto.ResetSessionResponse, error)
	GetSessionStatus(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStatusResponse, error)
	GetSessionHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error)
}

// ConsultationConfig bundles the tunables for one turn
type ConsultationConfig struct {
	ContextWindow     int
	Retrieval         retrieval.Config
	GenerationTimeout time.Duration
	RetrievalTimeout  time.Duration
}

func DefaultConsultationConfig() ConsultationConfig {
	return ConsultationConfig{
		ContextWindow:     10,
		Retrieval:         retrieval.DefaultConfig(),
		GenerationTimeout: 60 * time.Second,
		RetrievalTimeout:  10 * time.Second,
	}
}

// consultationService coordinates the domain components
type consultationService struct {
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	stateRepo      *memory.SessionStateRepository
	locks          *memory.LockRegistry
	eventPublisher *pkgNats.Publisher
	logger         logger.ILogger
	config         ConsultationConfig

	// Domain components
	selector      *retrieval.Selector
	historyLoader *history.Loader
	promptBuilder *prompt.Builder
}

func NewConsultationService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	selector *retrieval.Selector,
	stateRepo *memory.SessionStateRepository,
	locks *memory.LockRegistry,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
	config ConsultationConfig,
) IConsultationService {
	return &consultationService{
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		stateRepo:      stateRepo,
		locks:          locks,
		eventPublisher: eventPublisher,
		logger:         log,
		config:         config,

		selector:      selector,
		historyLoader: history.NewLoader(uowFactory),
		promptBuilder: prompt.NewBuilder(),
	}
}

// Consult runs one conversational turn: resolve the session, retrieve at
// most one relevant recording, generate a grounded answer, then append
// both sides of the exchange in a single transaction.
func (cs *consultationService) Consult(ctx context.Context, request *dto.ConsultRequest) (*dto.ConsultResponse, error) {
	query := strings.TrimSpace(request.Query)
	if query == "" {
		return nil, serverutils.NewInvalidQuery("query must not be blank")
	}

	session, err := cs.resolveSession(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}

	// Turns against the same session are serialized, distinct sessions
	// proceed in parallel.
	release := cs.locks.Acquire(session.Id.String())
	defer release()

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := cs.historyLoader.Load(ctx, session.Id, cs.config.ContextWindow)
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}

	resource := cs.retrieve(ctx, uow, query)

	answer, err := cs.generate(ctx, conversation, query, resource)
	if err != nil {
		return nil, serverutils.NewGenerationError(err)
	}

	conversationLength, turnTime, err := cs.appendTurn(ctx, session, query, answer, resource)
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}

	cs.rememberTurn(session, query, resource, conversationLength, turnTime)
	cs.publishCompleted(ctx, session.Id, resource != nil)

	response := &dto.ConsultResponse{
		Response:           answer,
		Query:              query,
		AudioFiles:         audioFilesFor(resource),
		AudioProvided:      resource != nil,
		ConversationLength: conversationLength,
		SessionId:          session.Id.String(),
	}
	return response, nil
}

// resolveSession loads the requested session or creates a fresh one
// when no id was supplied.
func (cs *consultationService) resolveSession(ctx context.Context, sessionId *uuid.UUID) (*entity.ChatSession, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if sessionId == nil {
		session := &entity.ChatSession{
			Id:       uuid.New(),
			IsActive: true,
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, serverutils.NewPersistenceError(err)
		}
		return session, nil
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: *sessionId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}
	if session == nil {
		return nil, serverutils.NewSessionNotFound(sessionId.String())
	}
	return session, nil
}

// retrieve runs the selector under its own deadline. Retrieval failures
// degrade to an ungrounded turn instead of failing the request.
func (cs *consultationService) retrieve(ctx context.Context, uow unitofwork.UnitOfWork, query string) *store.Resource {
	retrievalCtx, cancel := context.WithTimeout(ctx, cs.config.RetrievalTimeout)
	defer cancel()

	resource, err := cs.selector.Select(retrievalCtx, uow, query, cs.config.Retrieval)
	if err != nil {
		cs.logger.Warn("consultation", "retrieval degraded, answering without corpus", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return resource
}

func (cs *consultationService) generate(ctx context.Context, conversation []llm.Message, query string, resource *store.Resource) (string, error) {
	generationCtx, cancel := context.WithTimeout(ctx, cs.config.GenerationTimeout)
	defer cancel()

	messages := cs.promptBuilder.Build(conversation, query, resource)
	return cs.llmProvider.Chat(generationCtx, messages)
}

// appendTurn persists the user query and the assistant answer in one
// transaction so the transcript never holds half a turn. Both rows share
// the turn timestamp; replay order comes from the per-session sequence,
// assigned under the session lock, so back-to-back turns never interleave
// however close their clocks land. Returns the session's message count
// after the append and the turn timestamp.
func (cs *consultationService) appendTurn(ctx context.Context, session *entity.ChatSession, query, answer string, resource *store.Resource) (int64, time.Time, error) {
	now := time.Now()

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, now, err
	}
	defer uow.Rollback()

	base, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
	)
	if err != nil {
		return 0, now, err
	}

	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.MessageRoleUser,
		Content:       query,
		Sequence:      base + 1,
		CreatedAt:     now,
	}
	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.MessageRoleAssistant,
		Content:       answer,
		Sequence:      base + 2,
		CreatedAt:     now,
	}
	if resource != nil {
		if resourceId, err := uuid.Parse(resource.ID); err == nil {
			assistantMessage.AudioResourceId = &resourceId
		}
		if meta, err := json.Marshal(audioFilesFor(resource)); err == nil {
			assistantMessage.RetrievalMeta = meta
		}
	}

	if err := uow.ChatMessageRepository().CreateBulk(ctx, []*entity.ChatMessage{userMessage, assistantMessage}); err != nil {
		return 0, now, err
	}

	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return 0, now, err
	}

	if err := uow.Commit(); err != nil {
		return 0, now, err
	}
	return base + 2, now, nil
}

// publishCompleted emits the turn-completed event. Notification is
// auxiliary, a broker failure only logs a warning.
func (cs *consultationService) publishCompleted(ctx context.Context, sessionId uuid.UUID, audioProvided bool) {
	if cs.eventPublisher == nil {
		return
	}
	evt := events.NewConsultationCompleted(sessionId.String(), audioProvided)
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.logger.Warn("consultation", "failed to publish completion event", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}

// rememberTurn refreshes the hot session state so status reads skip the
// database while the session is warm. FirstMessageTime is only known when
// the cache watched the session from its first turn; resumed sessions
// leave it nil and status falls back to the durable stats.
func (cs *consultationService) rememberTurn(session *entity.ChatSession, query string, resource *store.Resource, count int64, turnTime time.Time) {
	var first *time.Time
	if prev, ok := cs.stateRepo.Get(session.Id.String()); ok && prev.FirstMessageTime != nil {
		first = prev.FirstMessageTime
	} else if count == 2 {
		first = &turnTime
	}

	last := turnTime
	state := &store.Session{
		ID:               session.Id.String(),
		LastQuery:        query,
		LastResource:     resource,
		MessageCount:     count,
		IsActive:         true,
		CreatedAt:        session.CreatedAt,
		FirstMessageTime: first,
		LastMessageTime:  &last,
	}
	cs.stateRepo.Save(state)
}

// ResetSession deactivates the given session and hands back a fresh one.
// The old transcript is retained for audit, it just stops accepting turns.
func (cs *consultationService) ResetSession(ctx context.Context, request *dto.ResetSessionRequest) (*dto.ResetSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if request.SessionId != nil {
		release := cs.locks.Acquire(request.SessionId.String())
		defer release()

		session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: *request.SessionId})
		if err != nil {
			return nil, serverutils.NewPersistenceError(err)
		}
		if session == nil {
			return nil, serverutils.NewSessionNotFound(request.SessionId.String())
		}

		if session.IsActive {
			session.IsActive = false
			if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
				return nil, serverutils.NewPersistenceError(err)
			}
		}
		cs.stateRepo.Delete(session.Id.String())
	}

	fresh := &entity.ChatSession{
		Id:       uuid.New(),
		IsActive: true,
	}
	if err := uow.ChatSessionRepository().Create(ctx, fresh); err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}

	return &dto.ResetSessionResponse{
		SessionId: fresh.Id.String(),
		Message:   "session reset",
	}, nil
}

func (cs *consultationService) GetSessionStatus(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStatusResponse, error) {
	// Warm sessions answer from the in-memory state without touching the
	// database. The cache is deleted on reset and expires on idle, so a
	// hit is always an active session.
	if state, ok := cs.stateRepo.Get(sessionId.String()); ok && state.FirstMessageTime != nil {
		return &dto.SessionStatusResponse{
			SessionId:          state.ID,
			IsActive:           state.IsActive,
			ConversationLength: state.MessageCount,
			MessageCount:       state.MessageCount,
			FirstMessageTime:   state.FirstMessageTime,
			LastMessageTime:    state.LastMessageTime,
			CreatedAt:          state.CreatedAt,
		}, nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}
	if session == nil {
		return nil, serverutils.NewSessionNotFound(sessionId.String())
	}

	stats, err := uow.ChatMessageRepository().StatsBySessionId(ctx, sessionId)
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}

	return &dto.SessionStatusResponse{
		SessionId:          session.Id.String(),
		IsActive:           session.IsActive,
		ConversationLength: stats.MessageCount,
		MessageCount:       stats.MessageCount,
		FirstMessageTime:   stats.FirstMessageTime,
		LastMessageTime:    stats.LastMessageTime,
		CreatedAt:          session.CreatedAt,
	}, nil
}

func (cs *consultationService) GetSessionHistory(ctx context.Context, sessionId uuid.UUID) (*dto.SessionHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}
	if session == nil {
		return nil, serverutils.NewSessionNotFound(sessionId.String())
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "sequence", Desc: false},
	)
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}

	historyMessages := make([]dto.HistoryMessage, len(messages))
	for i, msg := range messages {
		entry := dto.HistoryMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		}
		if len(msg.RetrievalMeta) > 0 {
			var audioFiles []dto.AudioFileInfo
			if err := json.Unmarshal(msg.RetrievalMeta, &audioFiles); err == nil {
				entry.AudioFiles = audioFiles
			}
		}
		historyMessages[i] = entry
	}

	return &dto.SessionHistoryResponse{
		SessionId: session.Id.String(),
		Messages:  historyMessages,
		Count:     len(historyMessages),
	}, nil
}

// audioFilesFor maps the selected resource into the response shape.
// At most one entry, an empty slice when the turn was ungrounded.
func audioFilesFor(resource *store.Resource) []dto.AudioFileInfo {
	if resource == nil {
		return []dto.AudioFileInfo{}
	}
	return []dto.AudioFileInfo{{
		Id:       resource.ID,
		Filename: resource.Filename,
		Summary:  resource.Summary,
		Score:    resource.Score,
	}}
}
