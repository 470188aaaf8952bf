package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"studiobooking/internal/domain"
)

// PaymentLinkResponse carries the link to pay for a booking. Created is false
// when an existing link was reused.
type PaymentLinkResponse struct {
	PaymentLink domain.PaymentLink `json:"payment_link"`
	Payment     domain.Payment     `json:"payment"`
	Created     bool               `json:"created"`
}

type PaymentStatusResponse struct {
	BookingID   string               `json:"booking_id"`
	Status      domain.PaymentStatus `json:"status"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    string               `json:"currency"`
	PaymentLink string               `json:"payment_link,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RefundResponse struct {
	RefundID string               `json:"refund_id"`
	Amount   decimal.Decimal      `json:"amount"`
	Status   domain.PaymentStatus `json:"status"`
}

// WebhookPayload is the part of a MamoPay callback the service reads.
// Charge events carry the transaction at the root of the payload.
type WebhookPayload struct {
	EventType     string `json:"event_type"`
	ID            string `json:"id"`
	Status        string `json:"status"`
	ExternalID    string `json:"external_id"`
	PaymentLinkID string `json:"payment_link_id"`
	CustomData    struct {
		BookingID string `json:"bookingId"`
	} `json:"custom_data"`
}

type WebhookResult struct {
	EventID string                    `json:"event_id"`
	Status  domain.WebhookEventStatus `json:"status"`
}
