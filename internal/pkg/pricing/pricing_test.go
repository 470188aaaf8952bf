package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestPriceBookingWithoutDiscount(t *testing.T) {
	got := PriceBooking(dec("600"), 2, nil, nil, dec("5"))

	assertDec(t, "1200", got.BaseCost)
	assertDec(t, "0", got.ServicesCost)
	assertDec(t, "0", got.DiscountAmount)
	assertDec(t, "60", got.VatAmount)
	assertDec(t, "1260", got.TotalCost)
}

func TestPriceBookingWithServicesAndPercentage(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("150"), Quantity: 2},
		{UnitPrice: dec("99.50"), Quantity: 1},
	}
	code := &domain.DiscountCode{Type: domain.DiscountPercentage, Value: dec("10")}

	got := PriceBooking(dec("500"), 3, lines, code, dec("5"))

	assertDec(t, "1500", got.BaseCost)
	assertDec(t, "399.5", got.ServicesCost)
	assertDec(t, "1899.5", got.PreDiscount)
	assertDec(t, "189.95", got.DiscountAmount)
	assertDec(t, "85.48", got.VatAmount)
	assertDec(t, "1795.03", got.TotalCost)
}

func TestFixedDiscountIsClamped(t *testing.T) {
	code := &domain.DiscountCode{Type: domain.DiscountFixedAmount, Value: dec("2000")}

	got := PriceBooking(dec("600"), 1, nil, code, dec("5"))

	assertDec(t, "600", got.DiscountAmount)
	assertDec(t, "0", got.VatAmount)
	assertDec(t, "0", got.TotalCost)
}

func TestPriceBookingIsMonotonicInDuration(t *testing.T) {
	codes := []*domain.DiscountCode{
		nil,
		{Type: domain.DiscountPercentage, Value: dec("25")},
		{Type: domain.DiscountFixedAmount, Value: dec("700")},
	}
	for _, code := range codes {
		prev := decimal.NewFromInt(-1)
		for hours := 1; hours <= 12; hours++ {
			got := PriceBooking(dec("450"), hours, []Line{{UnitPrice: dec("80"), Quantity: 1}}, code, dec("5"))
			require.True(t, got.TotalCost.GreaterThanOrEqual(prev), "hours=%d", hours)
			require.True(t, got.DiscountAmount.LessThanOrEqual(got.PreDiscount))
			require.False(t, got.TotalCost.IsNegative())
			prev = got.TotalCost
		}
	}
}

func TestEligibilityFixedBelowMinimum(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	code := &domain.DiscountCode{
		Type:      domain.DiscountFixedAmount,
		Value:     dec("200"),
		MinAmount: decimal.NewNullDecimal(dec("1000")),
		IsActive:  true,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
	}

	err := CheckEligibility(code, Eligibility{PreDiscount: dec("900"), Now: now})
	assert.ErrorIs(t, err, ErrDiscountBelowMin)

	assert.NoError(t, CheckEligibility(code, Eligibility{PreDiscount: dec("1000"), Now: now}))
}

func TestEligibilityFirstTimeOnly(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	code := &domain.DiscountCode{
		Type:          domain.DiscountPercentage,
		Value:         dec("15"),
		IsActive:      true,
		FirstTimeOnly: true,
		StartDate:     now.AddDate(0, -1, 0),
		EndDate:       now.AddDate(0, 1, 0),
	}

	err := CheckEligibility(code, Eligibility{PreDiscount: dec("500"), HasEmail: true, PriorBookings: 1, Now: now})
	assert.ErrorIs(t, err, ErrDiscountFirstTime)

	err = CheckEligibility(code, Eligibility{PreDiscount: dec("500"), Now: now})
	assert.ErrorIs(t, err, ErrDiscountNeedsEmail)

	assert.NoError(t, CheckEligibility(code, Eligibility{PreDiscount: dec("500"), HasEmail: true, Now: now}))
}

func TestEligibilityWindowAndUsage(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	maxUses := 3
	base := domain.DiscountCode{
		Type:      domain.DiscountPercentage,
		Value:     dec("10"),
		IsActive:  true,
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 0, 1),
	}
	in := Eligibility{PreDiscount: dec("100"), Now: now}

	inactive := base
	inactive.IsActive = false
	assert.ErrorIs(t, CheckEligibility(&inactive, in), ErrDiscountInactive)

	future := base
	future.StartDate = now.Add(time.Hour)
	assert.ErrorIs(t, CheckEligibility(&future, in), ErrDiscountNotStarted)

	expired := base
	expired.EndDate = now.Add(-time.Hour)
	assert.ErrorIs(t, CheckEligibility(&expired, in), ErrDiscountExpired)

	used := base
	used.MaxUses = &maxUses
	used.UsedCount = 3
	assert.ErrorIs(t, CheckEligibility(&used, in), ErrDiscountExhausted)

	used.UsedCount = 2
	assert.NoError(t, CheckEligibility(&used, in))
}
