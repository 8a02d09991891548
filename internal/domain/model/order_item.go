package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 注文明細。注文時点のカート明細の不変スナップショットで、作成後は更新しない。
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"variant_id"`
	ShopID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"shop_id"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
}
