package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
	"shopapi/internal/usecase"
)

type cartFixture struct {
	tx        *TxManagerMock
	products  *ProductRepoMock
	variants  *VariantRepoMock
	carts     *CartRepoMock
	cartItems *CartItemRepoMock
	inventory *InventoryRepoMock
	uc        *usecase.CartUsecase
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		tx:        new(TxManagerMock),
		products:  new(ProductRepoMock),
		variants:  new(VariantRepoMock),
		carts:     new(CartRepoMock),
		cartItems: new(CartItemRepoMock),
		inventory: new(InventoryRepoMock),
	}
	f.tx.Repos = &TxReposMock{
		products:  f.products,
		variants:  f.variants,
		carts:     f.carts,
		cartItems: f.cartItems,
		inventory: f.inventory,
	}
	f.tx.On("WithinTx", mock.Anything).Return(nil).Maybe()
	f.uc = usecase.NewCartUsecase(f.tx, f.carts, f.cartItems)
	return f
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_QuantityTooSmall(t *testing.T) {
	f := newCartFixture()

	_, err := f.uc.AddItem(context.Background(), uuid.New(), usecase.AddCartItemInput{
		ProductID: uuid.New(), VariantID: uuid.New(), Quantity: 0,
	})
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))
}

func TestCartUsecase_AddItem_ProductNotFound(t *testing.T) {
	f := newCartFixture()
	productID := uuid.New()

	f.products.On("FindByID", mock.Anything, productID).Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.AddItem(context.Background(), uuid.New(), usecase.AddCartItemInput{
		ProductID: productID, VariantID: uuid.New(), Quantity: 1,
	})
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))
}

func TestCartUsecase_AddItem_InactiveProduct(t *testing.T) {
	f := newCartFixture()
	productID := uuid.New()

	p := model.Product{Status: model.ProductStatusInactive}
	p.ID = productID
	f.products.On("FindByID", mock.Anything, productID).Return(p, nil)

	_, err := f.uc.AddItem(context.Background(), uuid.New(), usecase.AddCartItemInput{
		ProductID: productID, VariantID: uuid.New(), Quantity: 1,
	})
	assert.True(t, usecase.IsKind(err, usecase.KindConflict))
}

func TestCartUsecase_AddItem_OutOfStockProduct(t *testing.T) {
	f := newCartFixture()
	productID := uuid.New()

	p := model.Product{Status: model.ProductStatusOutOfStock}
	p.ID = productID
	f.products.On("FindByID", mock.Anything, productID).Return(p, nil)

	_, err := f.uc.AddItem(context.Background(), uuid.New(), usecase.AddCartItemInput{
		ProductID: productID, VariantID: uuid.New(), Quantity: 1,
	})
	assert.True(t, usecase.IsKind(err, usecase.KindConflict))
}

func TestCartUsecase_AddItem_VariantBelongsToOtherProduct(t *testing.T) {
	f := newCartFixture()
	productID := uuid.New()
	variantID := uuid.New()

	p := model.Product{Status: model.ProductStatusActive}
	p.ID = productID
	f.products.On("FindByID", mock.Anything, productID).Return(p, nil)

	v := model.ProductVariant{ProductID: uuid.New(), Quantity: 10}
	v.ID = variantID
	f.variants.On("FindByID", mock.Anything, variantID).Return(v, nil)

	_, err := f.uc.AddItem(context.Background(), uuid.New(), usecase.AddCartItemInput{
		ProductID: productID, VariantID: variantID, Quantity: 1,
	})
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))
}

func TestCartUsecase_AddItem_InsufficientStock(t *testing.T) {
	f := newCartFixture()
	productID := uuid.New()
	variantID := uuid.New()

	p := model.Product{Status: model.ProductStatusActive}
	p.ID = productID
	f.products.On("FindByID", mock.Anything, productID).Return(p, nil)

	v := model.ProductVariant{ProductID: productID, Quantity: 2}
	v.ID = variantID
	f.variants.On("FindByID", mock.Anything, variantID).Return(v, nil)

	_, err := f.uc.AddItem(context.Background(), uuid.New(), usecase.AddCartItemInput{
		ProductID: productID, VariantID: variantID, Quantity: 3,
	})
	assert.True(t, usecase.IsKind(err, usecase.KindInsufficientStock))
}

// 割引を適用した単価がスナップショットとして保存される
func TestCartUsecase_AddItem_SnapshotsDiscountedPrice(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()
	shopID := uuid.New()
	cartID := uuid.New()

	p := model.Product{
		ShopID:         shopID,
		Status:         model.ProductStatusActive,
		DiscountType:   model.DiscountTypePercentage,
		DiscountAmount: dec("10"),
	}
	p.ID = productID
	f.products.On("FindByID", mock.Anything, productID).Return(p, nil)

	v := model.ProductVariant{ProductID: productID, Quantity: 10, BasePrice: dec("100")}
	v.ID = variantID
	f.variants.On("FindByID", mock.Anything, variantID).Return(v, nil)

	cart := model.Cart{UserID: userID}
	cart.ID = cartID
	f.carts.On("GetOrCreateByUserID", mock.Anything, userID).Return(cart, nil)

	f.cartItems.On("Create", mock.Anything, mock.MatchedBy(func(it *model.CartItem) bool {
		return it.CartID == cartID &&
			it.ShopID == shopID &&
			it.Quantity == 2 &&
			it.UnitPrice.Equal(dec("90.00")) &&
			it.TotalPrice.Equal(dec("180.00"))
	})).Return(nil)

	item, err := f.uc.AddItem(context.Background(), userID, usecase.AddCartItemInput{
		ProductID: productID, VariantID: variantID, Quantity: 2,
	})
	assert.NoError(t, err)
	assert.True(t, item.UnitPrice.Equal(dec("90.00")))

	f.cartItems.AssertExpectations(t)
}

// =====================
// UpdateItemQuantity
// =====================

// 増分だけ在庫チェックする。単価は保存済みのまま。
func TestCartUsecase_UpdateItemQuantity_ChecksOnlyDelta(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	itemID := uuid.New()
	variantID := uuid.New()

	item := model.CartItem{
		UserID:    userID,
		VariantID: variantID,
		Quantity:  2,
		UnitPrice: dec("90.00"),
	}
	item.ID = itemID
	f.cartItems.On("FindByIDAndUser", mock.Anything, itemID, userID).Return(item, nil)

	// 2 → 5 なので増分は3
	f.inventory.On("CheckAvailability", mock.Anything, variantID, int64(3)).Return(true, nil)
	f.cartItems.On("UpdateQuantity", mock.Anything, itemID, int64(5),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec("450.00")) })).Return(nil)

	updated, err := f.uc.UpdateItemQuantity(context.Background(), userID, itemID, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), updated.Quantity)
	assert.True(t, updated.TotalPrice.Equal(dec("450.00")))

	f.inventory.AssertExpectations(t)
	f.cartItems.AssertExpectations(t)
}

// 数量を減らす場合は在庫チェック不要
func TestCartUsecase_UpdateItemQuantity_DecreaseSkipsStockCheck(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	itemID := uuid.New()

	item := model.CartItem{UserID: userID, Quantity: 5, UnitPrice: dec("10.00")}
	item.ID = itemID
	f.cartItems.On("FindByIDAndUser", mock.Anything, itemID, userID).Return(item, nil)
	f.cartItems.On("UpdateQuantity", mock.Anything, itemID, int64(1), mock.Anything).Return(nil)

	_, err := f.uc.UpdateItemQuantity(context.Background(), userID, itemID, 1)
	assert.NoError(t, err)

	f.inventory.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateItemQuantity_InsufficientStock(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	itemID := uuid.New()
	variantID := uuid.New()

	item := model.CartItem{UserID: userID, VariantID: variantID, Quantity: 1, UnitPrice: dec("10.00")}
	item.ID = itemID
	f.cartItems.On("FindByIDAndUser", mock.Anything, itemID, userID).Return(item, nil)
	f.inventory.On("CheckAvailability", mock.Anything, variantID, int64(9)).Return(false, nil)

	_, err := f.uc.UpdateItemQuantity(context.Background(), userID, itemID, 10)
	assert.True(t, usecase.IsKind(err, usecase.KindInsufficientStock))
}

func TestCartUsecase_UpdateItemQuantity_OtherUsersItem(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	itemID := uuid.New()

	f.cartItems.On("FindByIDAndUser", mock.Anything, itemID, userID).Return(model.CartItem{}, repo.ErrNotFound)

	_, err := f.uc.UpdateItemQuantity(context.Background(), userID, itemID, 2)
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))
}

// =====================
// GetCart / RemoveItem / Clear
// =====================

func TestCartUsecase_GetCart_EmptyWhenNoCart(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()

	f.carts.On("FindByUserID", mock.Anything, userID).Return(model.Cart{}, repo.ErrNotFound)

	out, err := f.uc.GetCart(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
	assert.True(t, out.Total.Equal(decimal.Zero))
}

func TestCartUsecase_GetCart_SumsLineTotals(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()

	cart := model.Cart{UserID: userID}
	cart.ID = uuid.New()
	f.carts.On("FindByUserID", mock.Anything, userID).Return(cart, nil)

	d1 := repo.CartItemDetail{ProductTitle: "Tea", VariantLabel: "250g"}
	d1.TotalPrice = dec("180.00")
	d2 := repo.CartItemDetail{ProductTitle: "Coffee", VariantLabel: "1kg"}
	d2.TotalPrice = dec("45.50")
	f.cartItems.On("ListDetailedByUserID", mock.Anything, userID).Return([]repo.CartItemDetail{d1, d2}, nil)

	out, err := f.uc.GetCart(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Items))
	assert.True(t, out.Total.Equal(dec("225.50")), "total=%s", out.Total)
}

func TestCartUsecase_RemoveItem_NotOwned(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	itemID := uuid.New()

	f.cartItems.On("DeleteByIDAndUser", mock.Anything, itemID, userID).Return(repo.ErrNotFound)

	err := f.uc.RemoveItem(context.Background(), userID, itemID)
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))
}

func TestCartUsecase_Clear_ReturnsDeletedIDs(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	f.cartItems.On("DeleteAllByUserID", mock.Anything, userID).Return(ids, nil)

	got, err := f.uc.Clear(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, ids, got)
}

func TestCartUsecase_Clear_EmptyCart(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()

	f.cartItems.On("DeleteAllByUserID", mock.Anything, userID).Return(nil, repo.ErrNotFound)

	_, err := f.uc.Clear(context.Background(), userID)
	assert.True(t, usecase.IsKind(err, usecase.KindNotFound))
}
