package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/domain/model"
)

type CartRepository interface {
	// ユーザーのカートを取得し、無ければ作成。
	// user_idのunique制約で同時呼び出しでも二重作成しない。
	GetOrCreateByUserID(ctx context.Context, userID uuid.UUID) (model.Cart, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (model.Cart, error)
}

// カート一覧表示用の読み取りモデル（商品・バリアント情報を結合）
type CartItemDetail struct {
	model.CartItem
	ProductTitle string          `json:"product_title"`
	VariantLabel string          `json:"variant_label"`
	BasePrice    decimal.Decimal `json:"base_price"`
}

type CartItemRepository interface {
	Create(ctx context.Context, item *model.CartItem) error
	FindByID(ctx context.Context, cartItemID uuid.UUID) (model.CartItem, error)
	// 本人の明細だけ返す。他人のものはErrNotFound。
	FindByIDAndUser(ctx context.Context, cartItemID uuid.UUID, userID uuid.UUID) (model.CartItem, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	ListDetailedByUserID(ctx context.Context, userID uuid.UUID) ([]CartItemDetail, error)
	UpdateQuantity(ctx context.Context, cartItemID uuid.UUID, qty int64, totalPrice decimal.Decimal) error
	DeleteByIDAndUser(ctx context.Context, cartItemID uuid.UUID, userID uuid.UUID) error
	// 全明細を削除して、消したIDを返す
	DeleteAllByUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
