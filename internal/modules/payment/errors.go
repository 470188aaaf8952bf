package payment

import "studiobooking/internal/pkg/apperr"

var (
	ErrBookingNotFound = apperr.NotFound("BOOKING_NOT_FOUND", "booking not found")
	ErrPaymentNotFound = apperr.NotFound("PAYMENT_NOT_FOUND", "no payment found for this booking")

	ErrBookingNotPayable    = apperr.Validation("BOOKING_NOT_PAYABLE", "booking can no longer be paid")
	ErrPaymentNotRefundable = apperr.Validation("PAYMENT_NOT_REFUNDABLE", "only completed payments can be refunded")
	ErrMissingProviderID    = apperr.Validation("MISSING_PROVIDER_ID", "payment has no provider transaction id")
	ErrInvalidPayload       = apperr.Validation("INVALID_WEBHOOK_PAYLOAD", "webhook payload is not valid JSON")
	ErrMissingBookingID     = apperr.Validation("MISSING_BOOKING_ID", "missing booking id in webhook payload")
)
