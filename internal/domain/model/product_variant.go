package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 購入単位のSKU。quantityが在庫カウンタ。
type ProductVariant struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Label     string          `gorm:"type:varchar(255);not null" json:"label"`
	Quantity  int64           `gorm:"not null;default:0" json:"quantity"`
	BasePrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
}
