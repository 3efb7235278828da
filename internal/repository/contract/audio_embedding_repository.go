package contract

import (
	"context"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredAudioEmbedding wraps AudioEmbedding with its similarity score
type ScoredAudioEmbedding struct {
	Embedding  *entity.AudioEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type AudioEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.AudioEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.AudioEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByAudioResourceId(ctx context.Context, audioResourceId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AudioEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.AudioEmbedding, error)
	// SearchSimilarWithScore returns embeddings with their similarity scores,
	// filtered by threshold. Ties on similarity resolve to the most recently
	// ingested resource.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredAudioEmbedding, error)
}
