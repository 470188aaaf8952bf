// Package pricing computes booking costs and checks discount-code eligibility.
package pricing

import (
	"github.com/shopspring/decimal"

	"studiobooking/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Line is one additional service priced at its unit price.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Breakdown struct {
	BaseCost       decimal.Decimal `json:"base_cost"`
	ServicesCost   decimal.Decimal `json:"services_cost"`
	PreDiscount    decimal.Decimal `json:"pre_discount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	VatAmount      decimal.Decimal `json:"vat_amount"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// PriceBooking computes the cost breakdown. discount may be nil. Amounts are rounded to 2 places.
func PriceBooking(pricePerHour decimal.Decimal, durationHours int, lines []Line, discount *domain.DiscountCode, vatRatePercent decimal.Decimal) Breakdown {
	base := pricePerHour.Mul(decimal.NewFromInt(int64(durationHours))).Round(2)
	services := ServicesCost(lines)
	return Finish(base, services, discount, vatRatePercent)
}

// Finish applies discount and VAT to already computed base and services costs.
func Finish(base, services decimal.Decimal, discount *domain.DiscountCode, vatRatePercent decimal.Decimal) Breakdown {
	pre := base.Add(services)
	off := DiscountAmount(discount, pre)
	taxable := pre.Sub(off)
	vat := taxable.Mul(vatRatePercent).Div(hundred).Round(2)

	return Breakdown{
		BaseCost:       base,
		ServicesCost:   services,
		PreDiscount:    pre,
		DiscountAmount: off,
		VatAmount:      vat,
		TotalCost:      taxable.Add(vat),
	}
}

// ServicesCost sums unit price times quantity.
func ServicesCost(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2)
}

// DiscountAmount never exceeds preDiscount.
func DiscountAmount(code *domain.DiscountCode, preDiscount decimal.Decimal) decimal.Decimal {
	if code == nil || !preDiscount.IsPositive() {
		return decimal.Zero
	}

	var off decimal.Decimal
	switch code.Type {
	case domain.DiscountPercentage:
		off = preDiscount.Mul(code.Value).Div(hundred)
	case domain.DiscountFixedAmount:
		off = code.Value
	default:
		return decimal.Zero
	}

	if off.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(off, preDiscount).Round(2)
}
