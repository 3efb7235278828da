package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/constant"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/dto"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/serverutils"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/contract"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/memory"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/embedding"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- In-memory fixture ---

type fixtureStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*entity.ChatSession
	messages  []*entity.ChatMessage
	resources map[uuid.UUID]*entity.AudioResource
	scored    []*contract.ScoredAudioEmbedding

	failAppend         bool
	failStats          bool
	failResourceCreate bool
	searchErr          error
}

func newFixtureStore() *fixtureStore {
	return &fixtureStore{
		sessions:  make(map[uuid.UUID]*entity.ChatSession),
		resources: make(map[uuid.UUID]*entity.AudioResource),
	}
}

type fixtureUow struct {
	unitofwork.UnitOfWork
	store *fixtureStore
}

func (u *fixtureUow) Begin(ctx context.Context) error { return nil }
func (u *fixtureUow) Commit() error                   { return nil }
func (u *fixtureUow) Rollback() error                 { return nil }

func (u *fixtureUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fixtureSessionRepo{store: u.store}
}
func (u *fixtureUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fixtureMessageRepo{store: u.store}
}
func (u *fixtureUow) AudioResourceRepository() contract.AudioResourceRepository {
	return &fixtureResourceRepo{store: u.store}
}
func (u *fixtureUow) AudioEmbeddingRepository() contract.AudioEmbeddingRepository {
	return &fixtureEmbeddingRepo{store: u.store}
}

type fixtureFactory struct {
	store *fixtureStore
}

func (f *fixtureFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fixtureUow{store: f.store}
}

type fixtureSessionRepo struct {
	contract.ChatSessionRepository
	store *fixtureStore
}

func (r *fixtureSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *fixtureSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *fixtureSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var id uuid.UUID
	activeOnly := false
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id = s.ID
		case specification.ActiveOnly:
			activeOnly = true
		}
	}

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, nil
	}
	if activeOnly && !session.IsActive {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

type fixtureMessageRepo struct {
	contract.ChatMessageRepository
	store *fixtureStore
}

func (r *fixtureMessageRepo) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failAppend {
		return errors.New("database unavailable")
	}
	for _, msg := range messages {
		copied := *msg
		r.store.messages = append(r.store.messages, &copied)
	}
	return nil
}

func (r *fixtureMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sessionId uuid.UUID
	for _, spec := range specs {
		if s, ok := spec.(specification.ByChatSessionID); ok {
			sessionId = s.ChatSessionID
		}
	}
	var count int64
	for _, msg := range r.store.messages {
		if msg.ChatSessionId == sessionId {
			count++
		}
	}
	return count, nil
}

func (r *fixtureMessageRepo) FindRecentBySessionId(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*entity.ChatMessage
	for _, msg := range r.store.messages {
		if msg.ChatSessionId == sessionId {
			copied := *msg
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

func (r *fixtureMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return r.FindRecentBySessionId(ctx, sessionIdFrom(specs), 0)
}

func sessionIdFrom(specs []specification.Specification) uuid.UUID {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByChatSessionID); ok {
			return s.ChatSessionID
		}
	}
	return uuid.Nil
}

func (r *fixtureMessageRepo) StatsBySessionId(ctx context.Context, sessionId uuid.UUID) (*contract.MessageStats, error) {
	r.store.mu.Lock()
	failStats := r.store.failStats
	r.store.mu.Unlock()
	if failStats {
		return nil, errors.New("database unavailable")
	}
	messages, _ := r.FindRecentBySessionId(ctx, sessionId, 0)
	stats := &contract.MessageStats{MessageCount: int64(len(messages))}
	if len(messages) > 0 {
		first := messages[0].CreatedAt
		last := messages[len(messages)-1].CreatedAt
		stats.FirstMessageTime = &first
		stats.LastMessageTime = &last
	}
	return stats, nil
}

type fixtureResourceRepo struct {
	contract.AudioResourceRepository
	store *fixtureStore
}

func (r *fixtureResourceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioResource, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			if resource, found := r.store.resources[byID.ID]; found {
				copied := *resource
				return &copied, nil
			}
		}
	}
	return nil, nil
}

type fixtureEmbeddingRepo struct {
	contract.AudioEmbeddingRepository
	store *fixtureStore
}

func (r *fixtureEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, threshold float64) ([]*contract.ScoredAudioEmbedding, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.searchErr != nil {
		return nil, r.store.searchErr
	}
	return r.store.scored, nil
}

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, nil)
}

type stubEmbedder struct{}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

// --- Harness ---

func newTestService(store *fixtureStore, llmProvider llm.LLMProvider) IConsultationService {
	factory := &fixtureFactory{store: store}
	selector := retrieval.NewSelector(&stubEmbedder{}, zap.NewNop())
	return NewConsultationService(
		factory,
		llmProvider,
		selector,
		memory.NewSessionStateRepository(),
		memory.NewLockRegistry(),
		nil,
		noopLogger{},
		DefaultConsultationConfig(),
	)
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func seedResource(store *fixtureStore, similarity float64) *entity.AudioResource {
	resource := &entity.AudioResource{
		Id:               uuid.New(),
		Filename:         "stored.mp3",
		OriginalFilename: "visit-recording.mp3",
		Summary:          "discussion about symptoms",
		CreatedAt:        time.Now(),
	}
	store.resources[resource.Id] = resource
	store.scored = []*contract.ScoredAudioEmbedding{{
		Embedding: &entity.AudioEmbedding{
			Id:              uuid.New(),
			AudioResourceId: resource.Id,
		},
		Similarity: similarity,
	}}
	return resource
}

// --- Tests ---

func TestConsult_BlankQueryRejected(t *testing.T) {
	svc := newTestService(newFixtureStore(), &stubLLM{reply: "hi"})

	_, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "   "})

	require.Error(t, err)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindInvalidQuery, appErr.Kind)
}

func TestConsult_NewSessionCreatedWhenNoneGiven(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "hello there"})

	res, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "hello"})

	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionId)
	assert.Equal(t, "hello there", res.Response)
	assert.Equal(t, int64(2), res.ConversationLength)

	sessionId := uuid.MustParse(res.SessionId)
	assert.True(t, store.sessions[sessionId].IsActive)
}

func TestConsult_UnknownSessionRejected(t *testing.T) {
	svc := newTestService(newFixtureStore(), &stubLLM{reply: "hi"})

	missing := uuid.New()
	_, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "hello", SessionId: &missing})

	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindSessionNotFound, appErr.Kind)
}

func TestConsult_GroundedTurnCarriesSingleResource(t *testing.T) {
	store := newFixtureStore()
	resource := seedResource(store, 0.87)
	svc := newTestService(store, &stubLLM{reply: "grounded answer"})

	res, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "what were the symptoms?"})

	require.NoError(t, err)
	assert.True(t, res.AudioProvided)
	require.Len(t, res.AudioFiles, 1)
	assert.Equal(t, resource.Id.String(), res.AudioFiles[0].Id)
	assert.Equal(t, "visit-recording.mp3", res.AudioFiles[0].Filename)
	assert.InDelta(t, 0.87, res.AudioFiles[0].Score, 1e-9)

	// Assistant message records its grounding
	var assistant *entity.ChatMessage
	for _, msg := range store.messages {
		if msg.Role == constant.MessageRoleAssistant {
			assistant = msg
		}
	}
	require.NotNil(t, assistant)
	require.NotNil(t, assistant.AudioResourceId)
	assert.Equal(t, resource.Id, *assistant.AudioResourceId)
	assert.NotEmpty(t, assistant.RetrievalMeta)
}

func TestConsult_RetrievalFailureDegradesGracefully(t *testing.T) {
	store := newFixtureStore()
	store.searchErr = errors.New("vector index down")
	svc := newTestService(store, &stubLLM{reply: "ungrounded answer"})

	res, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "anything"})

	require.NoError(t, err)
	assert.False(t, res.AudioProvided)
	assert.Empty(t, res.AudioFiles)
	assert.Equal(t, "ungrounded answer", res.Response)
}

func TestConsult_GenerationFailureLeavesTranscriptUntouched(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{err: errors.New("model overloaded")})

	_, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "hello"})

	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindGenerationError, appErr.Kind)
	assert.Empty(t, store.messages)
}

func TestConsult_AppendFailureReportsPersistenceError(t *testing.T) {
	store := newFixtureStore()
	store.failAppend = true
	svc := newTestService(store, &stubLLM{reply: "answer"})

	_, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "hello"})

	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindPersistenceError, appErr.Kind)
	assert.Empty(t, store.messages)
}

func TestConsult_TurnsAccumulate(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "answer"})

	first, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "first"})
	require.NoError(t, err)

	sessionId := uuid.MustParse(first.SessionId)
	second, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "second", SessionId: &sessionId})
	require.NoError(t, err)

	assert.Equal(t, first.SessionId, second.SessionId)
	assert.Equal(t, int64(4), second.ConversationLength)
}

func TestResetSession_DeactivatesAndIssuesFresh(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "answer"})

	res, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "hello"})
	require.NoError(t, err)
	oldId := uuid.MustParse(res.SessionId)

	reset, err := svc.ResetSession(context.Background(), &dto.ResetSessionRequest{SessionId: &oldId})
	require.NoError(t, err)
	assert.NotEqual(t, oldId.String(), reset.SessionId)

	// Old transcript survives, the session just stops accepting turns
	assert.False(t, store.sessions[oldId].IsActive)
	assert.Len(t, store.messages, 2)

	_, err = svc.Consult(context.Background(), &dto.ConsultRequest{Query: "again", SessionId: &oldId})
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindSessionNotFound, appErr.Kind)
}

func TestResetSession_WithoutIdCreatesFresh(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "answer"})

	reset, err := svc.ResetSession(context.Background(), &dto.ResetSessionRequest{})
	require.NoError(t, err)

	freshId := uuid.MustParse(reset.SessionId)
	assert.True(t, store.sessions[freshId].IsActive)
}

func TestGetSessionStatus(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "answer"})

	res, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "hello"})
	require.NoError(t, err)
	sessionId := uuid.MustParse(res.SessionId)

	status, err := svc.GetSessionStatus(context.Background(), sessionId)
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	assert.Equal(t, int64(2), status.MessageCount)
	assert.Equal(t, int64(2), status.ConversationLength)
	assert.NotNil(t, status.FirstMessageTime)
	assert.NotNil(t, status.LastMessageTime)
}

func TestGetSessionHistory_ChronologicalWithMeta(t *testing.T) {
	store := newFixtureStore()
	seedResource(store, 0.9)
	svc := newTestService(store, &stubLLM{reply: "grounded"})

	res, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "tell me"})
	require.NoError(t, err)
	sessionId := uuid.MustParse(res.SessionId)

	history, err := svc.GetSessionHistory(context.Background(), sessionId)
	require.NoError(t, err)
	require.Equal(t, 2, history.Count)
	assert.Equal(t, constant.MessageRoleUser, history.Messages[0].Role)
	assert.Equal(t, constant.MessageRoleAssistant, history.Messages[1].Role)
	require.Len(t, history.Messages[1].AudioFiles, 1)
	assert.Equal(t, "visit-recording.mp3", history.Messages[1].AudioFiles[0].Filename)
}

func TestConsult_BackToBackTurnsReplayInOrder(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "answer"})

	first, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "one"})
	require.NoError(t, err)
	sessionId := uuid.MustParse(first.SessionId)

	// Second turn lands within the same clock tick as the first; replay
	// order must come from the sequence, not from timestamp arithmetic.
	_, err = svc.Consult(context.Background(), &dto.ConsultRequest{Query: "two", SessionId: &sessionId})
	require.NoError(t, err)

	history, err := svc.GetSessionHistory(context.Background(), sessionId)
	require.NoError(t, err)
	require.Equal(t, 4, history.Count)

	roles := make([]string, len(history.Messages))
	for i, msg := range history.Messages {
		roles[i] = msg.Role
	}
	assert.Equal(t, []string{
		constant.MessageRoleUser,
		constant.MessageRoleAssistant,
		constant.MessageRoleUser,
		constant.MessageRoleAssistant,
	}, roles)
	assert.Equal(t, "one", history.Messages[0].Content)
	assert.Equal(t, "two", history.Messages[2].Content)

	// Both rows of a turn share the turn timestamp, and timestamps never
	// move backwards between turns.
	for i := 1; i < len(history.Messages); i++ {
		assert.False(t, history.Messages[i].Timestamp.Before(history.Messages[i-1].Timestamp))
	}

	// Appending a turn touches the session row
	require.NotNil(t, store.sessions[sessionId].UpdatedAt)
}

func TestConsult_ConcurrentTurnsStayPaired(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "answer"})

	first, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "warmup"})
	require.NoError(t, err)
	sessionId := uuid.MustParse(first.SessionId)

	const turns = 8
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "concurrent", SessionId: &sessionId})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := svc.GetSessionHistory(context.Background(), sessionId)
	require.NoError(t, err)
	require.Equal(t, 2*(turns+1), history.Count)

	// Strict non-overlapping user/assistant pairs, no interleaving
	for i := 0; i < len(history.Messages); i += 2 {
		assert.Equal(t, constant.MessageRoleUser, history.Messages[i].Role)
		assert.Equal(t, constant.MessageRoleAssistant, history.Messages[i+1].Role)
	}

	// Sequences are a gap-free total order
	store.mu.Lock()
	defer store.mu.Unlock()
	seen := make(map[int64]bool)
	for _, msg := range store.messages {
		seen[msg.Sequence] = true
	}
	for seq := int64(1); seq <= int64(2*(turns+1)); seq++ {
		assert.True(t, seen[seq], "missing sequence %d", seq)
	}
}

func TestGetSessionStatus_ServedFromWarmState(t *testing.T) {
	store := newFixtureStore()
	svc := newTestService(store, &stubLLM{reply: "answer"})

	res, err := svc.Consult(context.Background(), &dto.ConsultRequest{Query: "hello"})
	require.NoError(t, err)
	sessionId := uuid.MustParse(res.SessionId)

	// With the durable stats unavailable, a warm session still answers
	store.mu.Lock()
	store.failStats = true
	store.mu.Unlock()

	status, err := svc.GetSessionStatus(context.Background(), sessionId)
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	assert.Equal(t, int64(2), status.MessageCount)
	assert.NotNil(t, status.FirstMessageTime)
	assert.NotNil(t, status.LastMessageTime)

	// A session the cache never saw falls through to the durable stats
	reset, err := svc.ResetSession(context.Background(), &dto.ResetSessionRequest{})
	require.NoError(t, err)
	coldId := uuid.MustParse(reset.SessionId)
	_, err = svc.GetSessionStatus(context.Background(), coldId)
	require.Error(t, err)
}
