package repository

import (
	"context"

	"github.com/google/uuid"

	"shopapi/internal/domain/model"
)

// 管理者用の注文一覧フィルタ
type AdminOrderFilter struct {
	UserID *uuid.UUID
	Status string
	// order_itemsのshop_idで絞る
	ShopID *uuid.UUID
}

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, orderID uuid.UUID) (model.Order, error)
	// ステータス更新用。行ロックを取って読む。
	FindByIDForUpdate(ctx context.Context, orderID uuid.UUID) (model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, status string) ([]model.Order, error)
	ListAdmin(ctx context.Context, f AdminOrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
}
