package retrieval

import (
	"context"
	"fmt"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/contract"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/unitofwork"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/embedding"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Selector runs vector search over ingested recordings and picks at most
// one resource to ground a consultation turn.
type Selector struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *zap.Logger
}

func NewSelector(embeddingProvider embedding.EmbeddingProvider, logger *zap.Logger) *Selector {
	return &Selector{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	Threshold float64
	TopK      int
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		Threshold: 0.5,
		TopK:      3,
	}
}

// Select embeds the query, searches the corpus, and returns the single
// best-matching resource at or above the threshold. A nil resource with
// a nil error means nothing in the corpus was relevant enough.
func (s *Selector) Select(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	config Config,
) (*store.Resource, error) {

	embeddingRes, err := s.embeddingProvider.Generate(query, embedding.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scoredResults, err := uow.AudioEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		config.TopK,
		config.Threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	s.logger.Debug("vector search results", zap.Int("count", len(scoredResults)))

	best := pickBest(scoredResults)
	if best == nil {
		return nil, nil
	}

	resource, err := s.hydrate(ctx, uow, best)
	if err != nil {
		return nil, fmt.Errorf("hydrate resource: %w", err)
	}
	return resource, nil
}

// pickBest returns the highest-scored embedding, deduplicated by
// resource. Results arrive ordered by similarity with ties already
// broken toward the most recently ingested resource, so the first
// entry wins.
func pickBest(results []*contract.ScoredAudioEmbedding) *contract.ScoredAudioEmbedding {
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

func (s *Selector) hydrate(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	scored *contract.ScoredAudioEmbedding,
) (*store.Resource, error) {

	resource, err := uow.AudioResourceRepository().FindOne(ctx,
		specification.ByID{ID: scored.Embedding.AudioResourceId},
	)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		// Resource removed between search and hydrate
		s.logger.Warn("embedding points at missing resource",
			zap.String("audio_resource_id", scored.Embedding.AudioResourceId.String()))
		return nil, nil
	}

	return &store.Resource{
		ID:          resource.Id.String(),
		Filename:    resource.OriginalFilename,
		Summary:     resource.Summary,
		StoragePath: resource.StoragePath,
		Score:       clampScore(scored.Similarity),
	}, nil
}

// clampScore bounds similarity into [0, 1]. Floating point noise in the
// distance computation can push values slightly outside the range.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// ResourceID parses the resource identifier back into a UUID.
func ResourceID(r *store.Resource) (uuid.UUID, error) {
	return uuid.Parse(r.ID)
}
