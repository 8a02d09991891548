package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

type DiscountType string

const (
	DiscountTypeFlat       DiscountType = "flat"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeNone       DiscountType = ""
)

// 商品本体。価格と在庫はバリアント側が持つ。
type Product struct {
	BaseModel
	ShopID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"shop_id"`
	CategoryID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"category_id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string        `gorm:"type:text" json:"description"`
	// discount_amountはdiscount_typeが設定されている時だけ意味を持つ
	DiscountType   DiscountType    `gorm:"type:varchar(20);not null;default:''" json:"discount_type"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	Status         ProductStatus   `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	Variants []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Gallery  []ProductGallery `gorm:"constraint:OnDelete:CASCADE" json:"gallery,omitempty"`
}
