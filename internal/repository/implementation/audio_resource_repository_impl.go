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
	"gorm.io/gorm"
)

type AudioResourceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AudioMapper
}

func NewAudioResourceRepository(db *gorm.DB) contract.AudioResourceRepository {
	return &AudioResourceRepositoryImpl{
		db:     db,
		mapper: mapper.NewAudioMapper(),
	}
}

func (r *AudioResourceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AudioResourceRepositoryImpl) Create(ctx context.Context, resource *entity.AudioResource) error {
	m := r.mapper.ResourceToModel(resource)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*resource = *r.mapper.ResourceToEntity(m)
	return nil
}

func (r *AudioResourceRepositoryImpl) Update(ctx context.Context, resource *entity.AudioResource) error {
	m := r.mapper.ResourceToModel(resource)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*resource = *r.mapper.ResourceToEntity(m)
	return nil
}

func (r *AudioResourceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AudioResource{}, id).Error
}

func (r *AudioResourceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioResource, error) {
	var m model.AudioResource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ResourceToEntity(&m), nil
}

func (r *AudioResourceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AudioResource, error) {
	var models []*model.AudioResource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AudioResource, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ResourceToEntity(m)
	}
	return entities, nil
}

func (r *AudioResourceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AudioResource{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
