package booking

import "studiobooking/internal/pkg/apperr"

var (
	ErrStudioNotFound   = apperr.NotFound("STUDIO_NOT_FOUND", "studio not found")
	ErrPackageNotFound  = apperr.NotFound("PACKAGE_NOT_FOUND", "package not found")
	ErrServiceNotFound  = apperr.NotFound("ADDITIONAL_SERVICE_NOT_FOUND", "additional service not found")
	ErrBookingNotFound  = apperr.NotFound("BOOKING_NOT_FOUND", "booking not found")
	ErrLineItemNotFound = apperr.NotFound("BOOKING_SERVICE_NOT_FOUND", "additional service is not attached to this booking")

	ErrStartInPast            = apperr.Validation("START_IN_PAST", "start time must be in the future")
	ErrDurationTooLong        = apperr.Validation("DURATION_TOO_LONG", "booking duration exceeds the maximum")
	ErrTooManySeats           = apperr.Validation("SEATS_EXCEED_CAPACITY", "number of seats exceeds studio capacity")
	ErrPackageNotOffered      = apperr.Validation("PACKAGE_NOT_OFFERED", "package is not offered by this studio")
	ErrServiceInactive        = apperr.Validation("ADDITIONAL_SERVICE_INACTIVE", "additional service is not active")
	ErrInvalidDiscountCode    = apperr.Validation("INVALID_DISCOUNT_CODE", "invalid discount code")
	ErrOutsideHours           = apperr.Validation("OUTSIDE_OPERATING_HOURS", "booking is outside studio operating hours")
	ErrSlotUnavailable        = apperr.Validation("TIME_SLOT_UNAVAILABLE", "time slot is not available")
	ErrDiscountAlreadyApplied = apperr.Validation("DISCOUNT_ALREADY_APPLIED", "a discount code has already been applied to this booking")
	ErrBookingNotPending      = apperr.Validation("BOOKING_NOT_PENDING", "booking can only be changed while pending")
)
