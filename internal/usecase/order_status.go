package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

// 許可している遷移。pending → shipped → delivered、
// 終端前ならいつでもcancelledへ。逆行と飛ばしは不可。
func canTransition(from model.OrderStatus, to model.OrderStatus) bool {
	switch {
	case to == model.OrderStatusCancelled:
		return !from.IsTerminal()
	case from == model.OrderStatusPending && to == model.OrderStatusShipped:
		return true
	case from == model.OrderStatusShipped && to == model.OrderStatusDelivered:
		return true
	}
	return false
}

// applyStatusTransitionはロック済みの注文にステータス遷移を適用する。
// 呼び出し側がFindByIDForUpdateで行ロックを取ってから呼ぶこと。
// cancelledへの遷移は同じトランザクション内で在庫を戻す。
// 遷移前のステータスがcancelledならここまで来ないので、二重戻しは起きない。
func applyStatusTransition(ctx context.Context, r repo.TxRepos, o model.Order, to model.OrderStatus, log *zap.Logger) error {
	// 同じステータスへの更新は何もしない
	if o.OrderStatus == to {
		return nil
	}

	if !canTransition(o.OrderStatus, to) {
		return NewConflictError("cannot change order status from " +
			string(o.OrderStatus) + " to " + string(to))
	}

	if to == model.OrderStatusCancelled {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewInternalError("db error")
		}
		for _, it := range items {
			if err := r.Inventory().Increment(ctx, it.VariantID, it.Quantity); err != nil {
				if errors.Is(err, repo.ErrLockContention) {
					return NewConflictError("stock is locked by another order, please retry")
				}
				return NewInternalError("db error")
			}
		}

		log.Info("order cancelled, stock restored",
			zap.String("order_id", o.ID.String()),
			zap.String("previous_status", string(o.OrderStatus)),
			zap.Int("restored_lines", len(items)),
		)
	}

	if err := r.Orders().UpdateStatus(ctx, o.ID, to); err != nil {
		if errors.Is(err, repo.ErrLockContention) {
			return NewConflictError("order is being updated, please retry")
		}
		return NewInternalError("db error")
	}
	return nil
}
