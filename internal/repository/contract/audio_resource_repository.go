package contract

import (
	"context"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/entity"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/repository/specification"

	"github.com/google/uuid"
)

type AudioResourceRepository interface {
	Create(ctx context.Context, resource *entity.AudioResource) error
	Update(ctx context.Context, resource *entity.AudioResource) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AudioResource, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AudioResource, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
