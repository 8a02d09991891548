package repository

import (
	"context"

	"github.com/google/uuid"
)

// バリアント単位の在庫カウンタ。
// Decrementは行ロック必須で、複数リクエストが同じバリアントを触っても直列化される。
type InventoryRepository interface {
	CheckAvailability(ctx context.Context, variantID uuid.UUID, qty int64) (bool, error)

	// 在庫が足りなければErrInsufficientStock。マイナスには絶対しない。
	Decrement(ctx context.Context, variantID uuid.UUID, qty int64) error

	// 在庫戻し（キャンセル時のみ）。上限チェックは無し。
	Increment(ctx context.Context, variantID uuid.UUID, qty int64) error
}
