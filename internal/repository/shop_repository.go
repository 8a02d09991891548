package repository

import (
	"context"

	"github.com/google/uuid"

	"shopapi/internal/domain/model"
)

type ShopRepository interface {
	Create(ctx context.Context, s *model.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Shop, error)
	List(ctx context.Context, page int, limit int) ([]model.Shop, int64, error)
	Update(ctx context.Context, s model.Shop) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
