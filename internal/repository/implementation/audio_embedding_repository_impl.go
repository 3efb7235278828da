package implementation

import (
	"context"
	"errors"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/mapper"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/model"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/contract"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type AudioEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AudioMapper
}

func NewAudioEmbeddingRepository(db *gorm.DB) contract.AudioEmbeddingRepository {
	return &AudioEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewAudioMapper(),
	}
}

func (r *AudioEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AudioEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.AudioEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *AudioEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.AudioEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.AudioEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.EmbeddingToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.EmbeddingToEntity(m)
	}
	return nil
}

func (r *AudioEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AudioEmbedding{}, id).Error
}

func (r *AudioEmbeddingRepositoryImpl) DeleteByAudioResourceId(ctx context.Context, audioResourceId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("audio_resource_id = ?", audioResourceId).Delete(&model.AudioEmbedding{}).Error
}

func (r *AudioEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioEmbedding, error) {
	var m model.AudioEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EmbeddingToEntity(&m), nil
}

func (r *AudioEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AudioEmbedding, error) {
	var models []*model.AudioEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AudioEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

func (r *AudioEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.AudioEmbedding{}).Count(&count).Error
	return count, err
}

func (r *AudioEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.AudioEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}
	var models []*model.AudioEmbedding

	// Cosine distance via pgvector: embedding_value <=> vector.
	// Soft-deleted embeddings and resources must not surface.
	err := r.db.WithContext(ctx).
		Joins("JOIN audio_resources ON audio_resources.id = audio_embeddings.audio_resource_id").
		Where("audio_embeddings.deleted_at IS NULL").
		Where("audio_resources.deleted_at IS NULL").
		Order(gorm.Expr("embedding_value <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error

	if err != nil {
		return nil, err
	}

	entities := make([]*entity.AudioEmbedding, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EmbeddingToEntity(m)
	}
	return entities, nil
}

// SearchSimilarWithScore returns embeddings with similarity scores, filtered by threshold
func (r *AudioEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredAudioEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.AudioEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("audio_embeddings").
		Select("audio_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN audio_resources ON audio_resources.id = audio_embeddings.audio_resource_id").
		Where("audio_embeddings.deleted_at IS NULL").
		Where("audio_resources.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC, audio_resources.created_at DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredAudioEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredAudioEmbedding{
			Embedding:  r.mapper.EmbeddingToEntity(&res.AudioEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
