package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// カート明細。unit_priceは追加時点のスナップショット。
// total_priceは常にquantity * unit_price。
type CartItem struct {
	BaseModel
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CartID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ShopID     uuid.UUID       `gorm:"type:uuid;not null" json:"shop_id"`
	VariantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"variant_id"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
}
