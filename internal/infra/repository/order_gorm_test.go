package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopapi/internal/domain/model"
	infraRepo "shopapi/internal/infra/repository"
	repo "shopapi/internal/repository"
)

func testOrder(userID uuid.UUID, number string) model.Order {
	return model.Order{
		UserID:         userID,
		OrderNumber:    number,
		TotalAmount:    decimal.NewFromInt(100),
		OrderStatus:    model.OrderStatusPending,
		PaymentStatus:  model.PaymentStatusUnpaid,
		BillingAddress: "1-2-3 Chiyoda, Tokyo",
	}
}

// order_numberのunique衝突が起きても、同じトランザクションで
// 別の番号を採番してINSERTし直せること。
// SAVEPOINT無しだと衝突後のトランザクションは全文エラーになる。
func TestOrderGorm_DuplicateNumberKeepsTxUsable(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.Order{}))

	userID := uuid.New()
	number := "ORD-test-" + uuid.NewString()
	t.Cleanup(func() {
		db.Where("user_id = ?", userID).Delete(&model.Order{})
	})

	seed := testOrder(userID, number)
	require.NoError(t, db.Create(&seed).Error)

	tm := infraRepo.NewTxManagerGorm(db)
	err := tm.WithinTx(context.Background(), func(r repo.TxRepos) error {
		dup := testOrder(userID, number)
		require.ErrorIs(t, r.Orders().Create(context.Background(), &dup), repo.ErrDuplicate)

		// 衝突の後でも同じトランザクションでINSERTが通ること
		retry := testOrder(userID, number+"-retry")
		return r.Orders().Create(context.Background(), &retry)
	})
	assert.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
