package repository

import (
	"context"

	"github.com/google/uuid"

	"shopapi/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *uuid.UUID
	ShopID     *uuid.UUID
	Status     string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Product, error)
	// バリアントとギャラリーを含めて取得
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (model.Product, error)
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	Update(ctx context.Context, p model.Product) error
	// バリアント・ギャラリーも一緒に消す
	Delete(ctx context.Context, id uuid.UUID) error
}

type VariantRepository interface {
	Create(ctx context.Context, v *model.ProductVariant) error
	FindByID(ctx context.Context, id uuid.UUID) (model.ProductVariant, error)
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]model.ProductVariant, error)
	Update(ctx context.Context, v model.ProductVariant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GalleryRepository interface {
	CreateBulk(ctx context.Context, images []model.ProductGallery) error
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]model.ProductGallery, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
