package usecase

import (
	"github.com/shopspring/decimal"

	"shopapi/internal/domain/model"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeUnitPriceはバリアントの定価と商品の割引設定から販売単価を出す。
// percentage: base - base*amount/100、flat: base - amount、それ以外は定価のまま。
// 結果は0未満にならないように切り上げて、小数2桁に丸める。
func ComputeUnitPrice(basePrice decimal.Decimal, discountType model.DiscountType, discountAmount decimal.Decimal) (decimal.Decimal, error) {
	if basePrice.IsNegative() {
		return decimal.Zero, NewValidationError("base price must not be negative")
	}
	if discountAmount.IsNegative() {
		return decimal.Zero, NewValidationError("discount amount must not be negative")
	}

	unit := basePrice

	switch discountType {
	case model.DiscountTypePercentage:
		unit = basePrice.Sub(basePrice.Mul(discountAmount).Div(oneHundred))
	case model.DiscountTypeFlat:
		unit = basePrice.Sub(discountAmount)
	}

	if unit.IsNegative() {
		unit = decimal.Zero
	}

	return unit.Round(2), nil
}

// 明細合計。常にquantity * unit_price。
func lineTotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity)).Round(2)
}
