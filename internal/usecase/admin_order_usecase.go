package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
)

type AdminOrderUsecase struct {
	tx  repo.TransactionManager
	log *zap.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, log *zap.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, log: log}
}

type AdminOrderListInput struct {
	UserID *uuid.UUID
	Status string
	ShopID *uuid.UUID
}

// 全注文の一覧。user_id / status / shop_idで絞り込める。
func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) ([]OrderOutput, error) {
	if in.Status != "" && !isValidOrderStatus(in.Status) {
		return nil, NewValidationError("invalid status")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAdmin(ctx, repo.AdminOrderFilter{
			UserID: in.UserID,
			Status: in.Status,
			ShopID: in.ShopID,
		})
		if err != nil {
			return NewInternalError("db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewInternalError("db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

// UpdateStatusは管理者によるステータス変更。
// cancelledへの遷移は在庫を戻す（1回だけ）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (model.OrderStatus, error) {
	newStatus := model.OrderStatus(strings.TrimSpace(status))
	if !isValidOrderStatus(string(newStatus)) {
		return "", NewValidationError("invalid status")
	}

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

		return applyStatusTransition(ctx, r, o, newStatus, u.log)
	})

	if err != nil {
		return "", err
	}
	return newStatus, nil
}
