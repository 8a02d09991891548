package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shopapi/internal/domain/model"
	infraRepo "shopapi/internal/infra/repository"
	repo "shopapi/internal/repository"
)

// TEST_DATABASE_URLが設定されているときだけ実DBで動かす
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ProductVariant{}))
	return db
}

func seedVariant(t *testing.T, db *gorm.DB, stock int64) uuid.UUID {
	t.Helper()

	v := model.ProductVariant{
		ProductID: uuid.New(),
		Label:     "test",
		Quantity:  stock,
		BasePrice: decimal.NewFromInt(10),
	}
	require.NoError(t, db.Create(&v).Error)
	t.Cleanup(func() {
		db.Where("id = ?", v.ID).Delete(&model.ProductVariant{})
	})
	return v.ID
}

func TestInventoryGorm_Decrement_InsufficientStock(t *testing.T) {
	db := openTestDB(t)
	variantID := seedVariant(t, db, 2)

	tm := infraRepo.NewTxManagerGorm(db)
	err := tm.WithinTx(context.Background(), func(r repo.TxRepos) error {
		return r.Inventory().Decrement(context.Background(), variantID, 3)
	})
	assert.True(t, errors.Is(err, repo.ErrInsufficientStock))

	var v model.ProductVariant
	require.NoError(t, db.First(&v, "id = ?", variantID).Error)
	assert.Equal(t, int64(2), v.Quantity)
}

// 同じバリアントに同時に減算をかけても在庫がマイナスにならないこと。
// 行ロックで直列化されるので、成功数はちょうど初期在庫と一致する。
func TestInventoryGorm_Decrement_ConcurrentNeverNegative(t *testing.T) {
	db := openTestDB(t)

	const stock = 5
	const workers = 8
	variantID := seedVariant(t, db, stock)

	tm := infraRepo.NewTxManagerGorm(db)

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = tm.WithinTx(context.Background(), func(r repo.TxRepos) error {
				return r.Inventory().Decrement(context.Background(), variantID, 1)
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, repo.ErrInsufficientStock), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, stock, succeeded)

	var v model.ProductVariant
	require.NoError(t, db.First(&v, "id = ?", variantID).Error)
	assert.Equal(t, int64(0), v.Quantity)
}

func TestInventoryGorm_IncrementRestoresStock(t *testing.T) {
	db := openTestDB(t)
	variantID := seedVariant(t, db, 3)

	inv := infraRepo.NewInventoryGormRepository(db)
	require.NoError(t, inv.Increment(context.Background(), variantID, 2))

	var v model.ProductVariant
	require.NoError(t, db.First(&v, "id = ?", variantID).Error)
	assert.Equal(t, int64(5), v.Quantity)
}

// unique制約でカートが二重に作られないこと。
// カート追加と同じく、各ワーカーはトランザクションの中から呼ぶ。
func TestCartGorm_GetOrCreateConcurrent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.Cart{}))

	userID := uuid.New()
	t.Cleanup(func() {
		db.Where("user_id = ?", userID).Delete(&model.Cart{})
	})

	tm := infraRepo.NewTxManagerGorm(db)

	const workers = 4
	var wg sync.WaitGroup
	got := make([]model.Cart, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := tm.WithinTx(context.Background(), func(r repo.TxRepos) error {
				c, err := r.Carts().GetOrCreateByUserID(context.Background(), userID)
				got[i] = c
				return err
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, got[0].ID, got[i].ID)
	}
}
