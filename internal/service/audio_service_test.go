package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/serverutils"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/transcribe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (r *fixtureResourceRepo) Create(ctx context.Context, resource *entity.AudioResource) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failResourceCreate {
		return errors.New("database unavailable")
	}
	copied := *resource
	r.store.resources[resource.Id] = &copied
	return nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	return s.text, s.err
}

type recordingPublisher struct {
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestAudioService(store *fixtureStore, transcriber transcribe.Transcriber, publisher IPublisherService) IAudioService {
	processor := transcribe.NewProcessor(transcriber, &stubLLM{reply: "a short summary"})
	return NewAudioService(
		&fixtureFactory{store: store},
		processor,
		&stubEmbedder{},
		publisher,
		noopLogger{},
	)
}

func writeUploadedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.mp3")
	require.NoError(t, os.WriteFile(path, []byte("audio bytes"), 0o644))
	return path
}

func TestIngest_ProcessingFailureRemovesStoredFile(t *testing.T) {
	store := newFixtureStore()
	svc := newTestAudioService(store, &stubTranscriber{err: errors.New("whisper unavailable")}, nil)

	path := writeUploadedFile(t)
	_, err := svc.Ingest(context.Background(), "recording.mp3", "visit.mp3", path)

	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindGenerationError, appErr.Kind)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "stored file should be cleaned up")
	assert.Empty(t, store.resources)
}

func TestIngest_PersistenceFailureRemovesStoredFile(t *testing.T) {
	store := newFixtureStore()
	store.failResourceCreate = true
	svc := newTestAudioService(store, &stubTranscriber{text: "we discussed the treatment plan"}, nil)

	path := writeUploadedFile(t)
	_, err := svc.Ingest(context.Background(), "recording.mp3", "visit.mp3", path)

	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindPersistenceError, appErr.Kind)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "stored file should be cleaned up")
}

func TestIngest_SuccessKeepsFileAndQueuesEmbedJob(t *testing.T) {
	store := newFixtureStore()
	publisher := &recordingPublisher{}
	svc := newTestAudioService(store, &stubTranscriber{text: "we discussed the treatment plan"}, publisher)

	path := writeUploadedFile(t)
	res, err := svc.Ingest(context.Background(), "recording.mp3", "visit.mp3", path)

	require.NoError(t, err)
	assert.Equal(t, "processing", res.Status)
	assert.Len(t, publisher.payloads, 1)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "successful ingest keeps the stored file")
	assert.Len(t, store.resources, 1)
}

func TestDelete_UnknownResourceRejected(t *testing.T) {
	store := newFixtureStore()
	svc := newTestAudioService(store, &stubTranscriber{}, nil)

	err := svc.Delete(context.Background(), uuid.New())

	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, serverutils.KindResourceNotFound, appErr.Kind)
}
