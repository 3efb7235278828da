package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/dto"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/logger"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/embedding"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/events"
	pkgNats "github.com/Alpha-Bytes-Department/daissy-ai/pkg/nats"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IngestNotifier pushes ingestion updates to connected clients
type IngestNotifier interface {
	NotifyIngested(audioResourceId, filename string)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pkgNats.Publisher
	notifier          IngestNotifier
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pkgNats.Publisher,
	notifier IngestNotifier,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		notifier:          notifier,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedAudioMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("consumer", "processing audio embedding", map[string]interface{}{
		"audio_resource_id": payload.AudioResourceId.String(),
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	resource, err := uow.AudioResourceRepository().FindOne(ctx, specification.ByID{ID: payload.AudioResourceId})
	if err != nil {
		cs.logger.Error("consumer", "failed to load audio resource", map[string]interface{}{
			"audio_resource_id": payload.AudioResourceId.String(),
			"error":             err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}
	if resource == nil {
		cs.logger.Warn("consumer", "audio resource not found, skipping", map[string]interface{}{
			"audio_resource_id": payload.AudioResourceId.String(),
		})
		msg.Ack() // Resource deleted? Ack.
		return
	}

	document := fmt.Sprintf(`Recording: %s

Summary:
%s

Transcript:
%s

Ingested At: %s`,
		resource.OriginalFilename,
		resource.Summary,
		resource.Transcription,
		resource.CreatedAt.Format(time.RFC3339),
	)

	// ChunkSize 1500 chars (approx 375 tokens), overlap 200 chars
	chunks := utils.SplitText(document, 1500, 200)

	var newEmbeddings []*entity.AudioEmbedding
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskTypeDocument)
		if err != nil {
			cs.logger.Error("consumer", "failed to generate embedding", map[string]interface{}{
				"audio_resource_id": payload.AudioResourceId.String(),
				"chunk":             i,
				"error":             err.Error(),
			})
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.AudioEmbedding{
			Id:              uuid.New(),
			AudioResourceId: resource.Id,
			Document:        chunk,
			EmbeddingValue:  res.Embedding.Values,
			CreatedAt:       time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("consumer", "failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	// Re-ingest replaces previous vectors
	if err := uow.AudioEmbeddingRepository().DeleteByAudioResourceId(ctx, resource.Id); err != nil {
		cs.logger.Error("consumer", "failed to delete old embeddings", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.AudioEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			cs.logger.Error("consumer", "failed to create embeddings", map[string]interface{}{"error": err.Error()})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("consumer", "failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info("consumer", "audio resource indexed", map[string]interface{}{
		"audio_resource_id": resource.Id.String(),
		"chunks":            len(newEmbeddings),
	})

	if cs.eventPublisher != nil {
		evt := events.NewAudioIngested(resource.Id.String(), resource.OriginalFilename)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("consumer", "failed to publish ingest event", map[string]interface{}{"error": err.Error()})
		}
	}
	if cs.notifier != nil {
		cs.notifier.NotifyIngested(resource.Id.String(), resource.OriginalFilename)
	}

	msg.Ack()
}
