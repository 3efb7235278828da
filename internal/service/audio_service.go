package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/dto"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/logger"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/serverutils"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/embedding"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/transcribe"

	"github.com/google/uuid"
)

// IAudioService manages the audio corpus: ingestion, search, lifecycle
type IAudioService interface {
	Ingest(ctx context.Context, filename, originalFilename, storagePath string) (*dto.AudioUploadResponse, error)
	Search(ctx context.Context, request *dto.AudioSearchRequest) (*dto.AudioSearchResponse, error)
	List(ctx context.Context) (*dto.AudioListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.AudioResourceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type audioService struct {
	uowFactory        unitofwork.RepositoryFactory
	processor         *transcribe.Processor
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	logger            logger.ILogger
}

func NewAudioService(
	uowFactory unitofwork.RepositoryFactory,
	processor *transcribe.Processor,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	log logger.ILogger,
) IAudioService {
	return &audioService{
		uowFactory:        uowFactory,
		processor:         processor,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		logger:            log,
	}
}

// Ingest transcribes and summarizes a stored recording, persists the
// resource, and queues the embedding job for the async consumer.
func (s *audioService) Ingest(ctx context.Context, filename, originalFilename, storagePath string) (*dto.AudioUploadResponse, error) {
	result, err := s.processor.Process(ctx, storagePath)
	if err != nil {
		s.removeStoredFile(storagePath)
		return nil, serverutils.NewGenerationError(fmt.Errorf("process recording: %w", err))
	}

	resource := entity.AudioResource{
		Id:               uuid.New(),
		Filename:         filename,
		OriginalFilename: originalFilename,
		StoragePath:      storagePath,
		Transcription:    result.Transcription,
		Summary:          result.Summary,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AudioResourceRepository().Create(ctx, &resource); err != nil {
		s.removeStoredFile(storagePath)
		return nil, serverutils.NewPersistenceError(err)
	}

	msgPayload := dto.PublishEmbedAudioMessage{
		AudioResourceId: resource.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	s.logger.Info("audio", "recording ingested", map[string]interface{}{
		"audio_resource_id": resource.Id.String(),
		"filename":          originalFilename,
	})

	return &dto.AudioUploadResponse{
		Id:               resource.Id.String(),
		Filename:         resource.Filename,
		OriginalFilename: resource.OriginalFilename,
		Status:           "processing",
	}, nil
}

// Search runs a raw similarity search over the corpus, no threshold cut
func (s *audioService) Search(ctx context.Context, request *dto.AudioSearchRequest) (*dto.AudioSearchResponse, error) {
	topK := request.TopK
	if topK <= 0 {
		topK = 5
	}

	embeddingRes, err := s.embeddingProvider.Generate(request.Query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, serverutils.NewGenerationError(fmt.Errorf("embed query: %w", err))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.AudioEmbeddingRepository().SearchSimilarWithScore(
		ctx, embeddingRes.Embedding.Values, topK, 0,
	)
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}

	results := make([]dto.AudioSearchResult, 0, len(scored))
	seen := make(map[uuid.UUID]bool)
	for _, sc := range scored {
		if seen[sc.Embedding.AudioResourceId] {
			continue
		}
		seen[sc.Embedding.AudioResourceId] = true

		resource, err := uow.AudioResourceRepository().FindOne(ctx,
			specification.ByID{ID: sc.Embedding.AudioResourceId},
		)
		if err != nil {
			return nil, serverutils.NewPersistenceError(err)
		}
		if resource == nil {
			continue
		}
		results = append(results, dto.AudioSearchResult{
			Id:       resource.Id.String(),
			Filename: resource.OriginalFilename,
			Summary:  resource.Summary,
			Score:    sc.Similarity,
		})
	}

	return &dto.AudioSearchResponse{
		Query:   request.Query,
		Results: results,
		Count:   len(results),
	}, nil
}

func (s *audioService) List(ctx context.Context) (*dto.AudioListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	resources, err := uow.AudioResourceRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}

	items := make([]dto.AudioResourceResponse, len(resources))
	for i, r := range resources {
		items[i] = dto.AudioResourceResponse{
			Id:               r.Id.String(),
			Filename:         r.Filename,
			OriginalFilename: r.OriginalFilename,
			Summary:          r.Summary,
			CreatedAt:        r.CreatedAt,
		}
	}

	return &dto.AudioListResponse{
		Resources: items,
		Count:     len(items),
	}, nil
}

func (s *audioService) Get(ctx context.Context, id uuid.UUID) (*dto.AudioResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	resource, err := uow.AudioResourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, serverutils.NewPersistenceError(err)
	}
	if resource == nil {
		return nil, serverutils.NewResourceNotFound(id.String())
	}

	return &dto.AudioResourceResponse{
		Id:               resource.Id.String(),
		Filename:         resource.Filename,
		OriginalFilename: resource.OriginalFilename,
		Transcription:    resource.Transcription,
		Summary:          resource.Summary,
		CreatedAt:        resource.CreatedAt,
	}, nil
}

// Delete removes the resource, its embeddings, and the stored file.
func (s *audioService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	resource, err := uow.AudioResourceRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return serverutils.NewPersistenceError(err)
	}
	if resource == nil {
		return serverutils.NewResourceNotFound(id.String())
	}

	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewPersistenceError(err)
	}
	defer uow.Rollback()

	if err := uow.AudioEmbeddingRepository().DeleteByAudioResourceId(ctx, id); err != nil {
		return serverutils.NewPersistenceError(err)
	}
	if err := uow.AudioResourceRepository().Delete(ctx, id); err != nil {
		return serverutils.NewPersistenceError(err)
	}
	if err := uow.Commit(); err != nil {
		return serverutils.NewPersistenceError(err)
	}

	s.removeStoredFile(resource.StoragePath)

	return nil
}

// removeStoredFile drops an uploaded file from disk. The transcript of
// record is the database row, so a leftover file only costs disk space
// and a warning is enough.
func (s *audioService) removeStoredFile(storagePath string) {
	if storagePath == "" {
		return
	}
	if err := os.Remove(storagePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("audio", "failed to remove stored file", map[string]interface{}{
			"path":  storagePath,
			"error": err.Error(),
		})
	}
}
