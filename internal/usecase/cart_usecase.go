package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// 複数ステップの書き込みはTransactionManager経由でまとめて行う。
type CartUsecase struct {
	tx           repo.TransactionManager
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:           tx,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
	}
}

type AddCartItemInput struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  int64
}

type CartProductResponse struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	ShopID uuid.UUID `json:"shop_id"`
}

type CartVariantResponse struct {
	ID        uuid.UUID       `json:"id"`
	Label     string          `json:"label"`
	BasePrice decimal.Decimal `json:"base_price"`
}

type CartItemResponse struct {
	ID         uuid.UUID           `json:"id"`
	Product    CartProductResponse `json:"product"`
	Variant    CartVariantResponse `json:"variant"`
	Quantity   int64               `json:"quantity"`
	UnitPrice  decimal.Decimal     `json:"unit_price"`
	TotalPrice decimal.Decimal     `json:"total_price"`
}

type CartResponse struct {
	CartID uuid.UUID          `json:"cart_id"`
	UserID uuid.UUID          `json:"user_id"`
	Items  []CartItemResponse `json:"items"`
	Total  decimal.Decimal    `json:"total_cart_value"`
}

// AddItemはカートに明細を追加する。
// 在庫は確認するだけで引き当てない（引き当ては注文確定時）。
func (u *CartUsecase) AddItem(ctx context.Context, userID uuid.UUID, in AddCartItemInput) (model.CartItem, error) {
	if in.Quantity < 1 {
		return model.CartItem{}, NewValidationError("quantity must be at least 1")
	}

	var item model.CartItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product not found")
		}
		if err != nil {
			return NewInternalError("db error")
		}

		switch p.Status {
		case model.ProductStatusInactive:
			return NewConflictError("this product is inactive and cannot be added to the cart")
		case model.ProductStatusOutOfStock:
			return NewConflictError("this product is out_of_stock and cannot be added to the cart")
		}

		v, err := r.Variants().FindByID(ctx, in.VariantID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("variant not found")
		}
		if err != nil {
			return NewInternalError("db error")
		}
		if v.ProductID != p.ID {
			return NewNotFoundError("variant not found")
		}

		if v.Quantity < in.Quantity {
			return NewInsufficientStockError("insufficient stock available for this variant")
		}

		unitPrice, err := ComputeUnitPrice(v.BasePrice, p.DiscountType, p.DiscountAmount)
		if err != nil {
			return err
		}

		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewInternalError("db error")
		}

		item = model.CartItem{
			UserID:     userID,
			CartID:     cart.ID,
			ProductID:  p.ID,
			ShopID:     p.ShopID,
			VariantID:  v.ID,
			Quantity:   in.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: lineTotal(unitPrice, in.Quantity),
		}
		if err := r.CartItems().Create(ctx, &item); err != nil {
			return NewInternalError("db error")
		}
		return nil
	})

	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// GetCartはカートのサマリを返す。カートが無ければ空サマリ。
func (u *CartUsecase) GetCart(ctx context.Context, userID uuid.UUID) (CartResponse, error) {
	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{UserID: userID, Items: []CartItemResponse{}, Total: decimal.Zero}, nil
	}
	if err != nil {
		return CartResponse{}, NewInternalError("db error")
	}

	details, err := u.cartItemRepo.ListDetailedByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewInternalError("db error")
	}

	items := make([]CartItemResponse, 0, len(details))
	total := decimal.Zero

	for _, d := range details {
		items = append(items, CartItemResponse{
			ID: d.ID,
			Product: CartProductResponse{
				ID:     d.ProductID,
				Title:  d.ProductTitle,
				ShopID: d.ShopID,
			},
			Variant: CartVariantResponse{
				ID:        d.VariantID,
				Label:     d.VariantLabel,
				BasePrice: d.BasePrice,
			},
			Quantity:   d.Quantity,
			UnitPrice:  d.UnitPrice,
			TotalPrice: d.TotalPrice,
		})
		total = total.Add(d.TotalPrice)
	}

	return CartResponse{
		CartID: cart.ID,
		UserID: userID,
		Items:  items,
		Total:  total,
	}, nil
}

// UpdateItemQuantityは数量を変更する。
// 単価は保存済みスナップショットのまま。在庫チェックは増分だけ。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, cartItemID uuid.UUID, qty int64) (model.CartItem, error) {
	if qty < 1 {
		return model.CartItem{}, NewValidationError("quantity must be at least 1")
	}

	var updated model.CartItem

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.CartItems().FindByIDAndUser(ctx, cartItemID, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("cart item not found")
		}
		if err != nil {
			return NewInternalError("db error")
		}

		// 増えた分だけ現在庫と突き合わせる
		delta := qty - item.Quantity
		if delta > 0 {
			ok, err := r.Inventory().CheckAvailability(ctx, item.VariantID, delta)
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("variant not found")
			}
			if err != nil {
				return NewInternalError("db error")
			}
			if !ok {
				return NewInsufficientStockError(
					fmt.Sprintf("insufficient stock for product %s", item.ProductID))
			}
		}

		newTotal := lineTotal(item.UnitPrice, qty)
		if err := r.CartItems().UpdateQuantity(ctx, item.ID, qty, newTotal); err != nil {
			return NewInternalError("db error")
		}

		item.Quantity = qty
		item.TotalPrice = newTotal
		updated = item
		return nil
	})

	if err != nil {
		return model.CartItem{}, err
	}
	return updated, nil
}

// RemoveItemは本人の明細だけ削除できる。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID uuid.UUID, cartItemID uuid.UUID) error {
	err := u.cartItemRepo.DeleteByIDAndUser(ctx, cartItemID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("cart item not found or does not belong to user")
	}
	if err != nil {
		return NewInternalError("db error")
	}
	return nil
}

// Clearは全明細を削除して、消したIDを返す。空のカートはエラー。
func (u *CartUsecase) Clear(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := u.cartItemRepo.DeleteAllByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewNotFoundError("no cart items found for this user")
	}
	if err != nil {
		return nil, NewInternalError("db error")
	}
	return ids, nil
}
