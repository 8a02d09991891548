package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) CheckAvailability(ctx context.Context, variantID uuid.UUID, qty int64) (bool, error) {
	var v model.ProductVariant

	err := r.db.WithContext(ctx).
		Select("quantity").
		Where("id = ?", variantID).
		First(&v).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, repo.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return v.Quantity >= qty, nil
}

// 在庫減算。SELECT ... FOR UPDATEで行ロックを取ってから減らすので、
// 同じバリアントへの同時減算は直列化され、マイナスには絶対ならない。
func (r *InventoryGormRepository) Decrement(ctx context.Context, variantID uuid.UUID, qty int64) error {
	var v model.ProductVariant

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", variantID).
		First(&v).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if err != nil {
		return translateLockErr(err)
	}

	if v.Quantity < qty {
		return repo.ErrInsufficientStock
	}

	res := r.db.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return translateLockErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫戻し（キャンセル時のみ）。上限チェックは無し。
func (r *InventoryGormRepository) Increment(ctx context.Context, variantID uuid.UUID, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("id = ?", variantID).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if res.Error != nil {
		return translateLockErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
