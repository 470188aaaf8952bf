package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
)

var (
	ErrDiscountInactive   = apperr.Validation("DISCOUNT_INACTIVE", "discount code is not active")
	ErrDiscountNotStarted = apperr.Validation("DISCOUNT_NOT_STARTED", "discount code is not valid yet")
	ErrDiscountExpired    = apperr.Validation("DISCOUNT_EXPIRED", "discount code has expired")
	ErrDiscountExhausted  = apperr.Validation("DISCOUNT_EXHAUSTED", "discount code usage limit reached")
	ErrDiscountBelowMin   = apperr.Validation("DISCOUNT_BELOW_MINIMUM", "order amount is below the discount minimum")
	ErrDiscountFirstTime  = apperr.Validation("DISCOUNT_FIRST_TIME_ONLY", "discount code is only valid for first-time customers")
	ErrDiscountNeedsEmail = apperr.Validation("DISCOUNT_EMAIL_REQUIRED", "an email is required to redeem a first-time discount")
)

// Eligibility carries the facts a discount code is checked against.
type Eligibility struct {
	PreDiscount   decimal.Decimal
	HasEmail      bool
	PriorBookings int64
	Now           time.Time
}

// CheckEligibility returns nil when code may be applied.
func CheckEligibility(code *domain.DiscountCode, in Eligibility) error {
	switch {
	case !code.IsActive:
		return ErrDiscountInactive
	case in.Now.Before(code.StartDate):
		return ErrDiscountNotStarted
	case in.Now.After(code.EndDate):
		return ErrDiscountExpired
	case code.Exhausted():
		return ErrDiscountExhausted
	}

	if code.MinAmount.Valid && in.PreDiscount.LessThan(code.MinAmount.Decimal) {
		return fmt.Errorf("%w: minimum is %s", ErrDiscountBelowMin, code.MinAmount.Decimal.StringFixed(2))
	}

	if code.FirstTimeOnly {
		if !in.HasEmail {
			return ErrDiscountNeedsEmail
		}
		if in.PriorBookings > 0 {
			return ErrDiscountFirstTime
		}
	}
	return nil
}
