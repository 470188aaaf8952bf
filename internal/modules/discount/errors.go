package discount

import "studiobooking/internal/pkg/apperr"

var (
	ErrDiscountNotFound = apperr.NotFound("DISCOUNT_NOT_FOUND", "discount code not found")
	ErrDuplicateCode    = apperr.Conflict("DISCOUNT_CODE_EXISTS", "discount code already exists")
	ErrDiscountInUse    = apperr.Conflict("DISCOUNT_IN_USE", "discount code is referenced by bookings")

	ErrInvalidValue  = apperr.Validation("INVALID_DISCOUNT_VALUE", "discount value must be positive and at most 100 for percentages")
	ErrInvalidPeriod = apperr.Validation("INVALID_DISCOUNT_PERIOD", "start date must be before end date")
	ErrInvalidAmount = apperr.Validation("INVALID_AMOUNT", "amount must be a non-negative number")
)
