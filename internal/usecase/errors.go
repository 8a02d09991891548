package usecase

import (
	"errors"
	"net/http"
)

// エラー種別。handlerはAsAppErrorで拾ってHTTPステータスに変換する。
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindForbidden         ErrorKind = "forbidden"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindEmptyCart         ErrorKind = "empty_cart"
	KindInternal          ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInsufficientStock, KindEmptyCart:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind ErrorKind, message string) error {
	return &AppError{Kind: kind, Message: message}
}

func NewValidationError(message string) error   { return newError(KindValidation, message) }
func NewUnauthorizedError(message string) error { return newError(KindUnauthorized, message) }
func NewForbiddenError(message string) error    { return newError(KindForbidden, message) }
func NewNotFoundError(message string) error     { return newError(KindNotFound, message) }
func NewConflictError(message string) error     { return newError(KindConflict, message) }
func NewInternalError(message string) error     { return newError(KindInternal, message) }

// 在庫エラーはどの商品で足りなかったかをメッセージに含める
func NewInsufficientStockError(message string) error {
	return newError(KindInsufficientStock, message)
}

func NewEmptyCartError() error {
	return newError(KindEmptyCart, "cart is empty")
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// エラー種別の判定（テストで使う）
func IsKind(err error, kind ErrorKind) bool {
	ae, ok := AsAppError(err)
	return ok && ae.Kind == kind
}
