package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを取得し、無ければ作成。
// user_idのunique制約との同時作成レースはON CONFLICT DO NOTHINGで吸収する。
// エラーにしないのでトランザクション内から呼ばれても後続の文が通る。
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (model.Cart, error) {
	var cart model.Cart

	findErr := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if findErr == nil {
		return cart, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return model.Cart{}, findErr
	}

	newCart := model.Cart{UserID: userID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&newCart)
	if res.Error != nil {
		return model.Cart{}, res.Error
	}
	if res.RowsAffected == 1 {
		return newCart, nil
	}

	// 同時作成に負けたので勝った方のカートを読み直す
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

func (r *CartItemGormRepository) Create(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, cartItemID uuid.UUID) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 本人の明細だけ。他人のものはErrNotFound。
func (r *CartItemGormRepository) FindByIDAndUser(ctx context.Context, cartItemID uuid.UUID, userID uuid.UUID) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

// カート表示用。商品タイトルとバリアントラベルを結合して返す。
func (r *CartItemGormRepository) ListDetailedByUserID(ctx context.Context, userID uuid.UUID) ([]repo.CartItemDetail, error) {
	var details []repo.CartItemDetail

	if err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.*, products.title AS product_title, product_variants.label AS variant_label, product_variants.base_price AS base_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("JOIN product_variants ON product_variants.id = cart_items.variant_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at asc").
		Scan(&details).Error; err != nil {
		return nil, err
	}

	return details, nil
}

func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, qty int64, totalPrice decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Updates(map[string]interface{}{
			"quantity":    qty,
			"total_price": totalPrice,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemGormRepository) DeleteByIDAndUser(ctx context.Context, cartItemID uuid.UUID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 全明細を削除して、消したIDを返す
func (r *CartItemGormRepository) DeleteAllByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var items []model.CartItem

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return repo.ErrNotFound
		}
		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}
