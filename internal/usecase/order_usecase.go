package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

// 注文番号の衝突リトライ上限。unique制約が最後の砦。
const orderNumberRetries = 3

type OrderUsecase struct {
	tx            repo.TransactionManager
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	log           *zap.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:            tx,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		log:           log,
	}
}

type OrderItemOutput struct {
	ProductID  uuid.UUID       `json:"product_id"`
	VariantID  uuid.UUID       `json:"variant_id"`
	ShopID     uuid.UUID       `json:"shop_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderOutput struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	OrderNumber    string            `json:"order_number"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	OrderStatus    string            `json:"order_status"`
	PaymentStatus  string            `json:"payment_status"`
	BillingAddress string            `json:"billing_address,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemOutput `json:"items"`
}

// PlaceOrderはカートを注文に変換する。
// 在庫チェック・減算・スナップショット・カート削除まで1トランザクション。
// 途中で失敗したら全部ロールバックされ、カートも在庫も元のまま。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID uuid.UUID, billingAddress string) (OrderOutput, error) {
	billingAddress = strings.TrimSpace(billingAddress)
	if billingAddress == "" {
		return OrderOutput{}, NewValidationError("billing_address is required")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return NewInternalError("db error")
		}
		if len(cartItems) == 0 {
			return NewEmptyCartError()
		}

		// 在庫確認と減算は同じトランザクション内。
		// Decrementが行ロックを取るので、同じバリアントを触る注文同士は直列化される。
		for _, ci := range cartItems {
			ok, err := r.Inventory().CheckAvailability(ctx, ci.VariantID, ci.Quantity)
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError(fmt.Sprintf("variant %s not found", ci.VariantID))
			}
			if err != nil {
				return NewInternalError("db error")
			}
			if !ok {
				return NewInsufficientStockError(
					fmt.Sprintf("insufficient stock for product %s", ci.ProductID))
			}
		}

		for _, ci := range cartItems {
			err := r.Inventory().Decrement(ctx, ci.VariantID, ci.Quantity)
			if errors.Is(err, repo.ErrInsufficientStock) {
				// チェック後にロック待ちで先を越されたケース
				return NewInsufficientStockError(
					fmt.Sprintf("insufficient stock for product %s", ci.ProductID))
			}
			if errors.Is(err, repo.ErrLockContention) {
				return NewConflictError("stock is locked by another order, please retry")
			}
			if err != nil {
				return NewInternalError("db error")
			}
		}

		total := decimal.Zero
		for _, ci := range cartItems {
			total = total.Add(ci.TotalPrice)
		}

		order, err := createOrderWithUniqueNumber(ctx, r, model.Order{
			UserID:         userID,
			TotalAmount:    total,
			OrderStatus:    model.OrderStatusPending,
			PaymentStatus:  model.PaymentStatusUnpaid,
			BillingAddress: billingAddress,
		})
		if err != nil {
			return err
		}

		// カート明細をそのままスナップショット。再計算はしない。
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			orderItems = append(orderItems, model.OrderItem{
				ProductID:  ci.ProductID,
				VariantID:  ci.VariantID,
				ShopID:     ci.ShopID,
				Quantity:   ci.Quantity,
				UnitPrice:  ci.UnitPrice,
				TotalPrice: ci.TotalPrice,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return NewInternalError("db error")
		}

		if _, err := r.CartItems().DeleteAllByUserID(ctx, userID); err != nil {
			return NewInternalError("db error")
		}

		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.log.Info("order placed",
		zap.String("order_id", out.ID.String()),
		zap.String("order_number", out.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("total_amount", out.TotalAmount.String()),
		zap.Int("item_count", len(out.Items)),
	)

	return out, nil
}

// 注文番号を採番して保存する。衝突したら採番し直す。
func createOrderWithUniqueNumber(ctx context.Context, r repo.TxRepos, order model.Order) (model.Order, error) {
	for i := 0; i < orderNumberRetries; i++ {
		order.ID = uuid.Nil
		order.OrderNumber = newOrderNumber(time.Now())

		err := r.Orders().Create(ctx, &order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return model.Order{}, NewInternalError("db error")
		}
	}
	return model.Order{}, NewInternalError("could not generate a unique order number")
}

// ORD-<ミリ秒タイムスタンプ>-<3桁乱数>
func newOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// crypto/randが死んでいる環境では諦めてタイムスタンプのみ
		return fmt.Sprintf("ORD-%d-000", now.UnixMilli())
	}
	return fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), n.Int64())
}

// ListMyOrdersは自分の注文一覧。statusで絞り込みできる。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID uuid.UUID, status string) ([]OrderOutput, error) {
	if status != "" && !isValidOrderStatus(status) {
		return nil, NewValidationError("invalid status")
	}

	orders, err := u.orderRepo.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, NewInternalError("db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewInternalError("db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

// GetMyOrderは自分の注文の詳細。他人の注文は存在しない扱い。
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (OrderOutput, error) {
	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return OrderOutput{}, NewInternalError("db error")
	}
	if o.UserID != userID {
		return OrderOutput{}, NewNotFoundError("order not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewInternalError("db error")
	}

	return toOrderOutput(o, items), nil
}

// CancelMyOrderは本人によるキャンセル。配達完了後は不可。
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (model.OrderStatus, error) {
	var newStatus model.OrderStatus

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found")
		}
		if errors.Is(err, repo.ErrLockContention) {
			return NewConflictError("order is being updated, please retry")
		}
		if err != nil {
			return NewInternalError("db error")
		}
		if o.UserID != userID {
			return NewForbiddenError("you do not own this order")
		}

		if err := applyStatusTransition(ctx, r, o, model.OrderStatusCancelled, u.log); err != nil {
			return err
		}
		newStatus = model.OrderStatusCancelled
		return nil
	})

	if err != nil {
		return "", err
	}
	return newStatus, nil
}

func isValidOrderStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPending, model.OrderStatusShipped,
		model.OrderStatusDelivered, model.OrderStatusCancelled:
		return true
	}
	return false
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			ShopID:     it.ShopID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}

	return OrderOutput{
		ID:             o.ID,
		UserID:         o.UserID,
		OrderNumber:    o.OrderNumber,
		TotalAmount:    o.TotalAmount,
		OrderStatus:    string(o.OrderStatus),
		PaymentStatus:  string(o.PaymentStatus),
		BillingAddress: o.BillingAddress,
		CreatedAt:      o.CreatedAt,
		Items:          outItems,
	}
}
