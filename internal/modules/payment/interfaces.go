package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/mamopay"
)

// Provider is the payment gateway. *mamopay.Client implements it.
type Provider interface {
	CreatePaymentLink(ctx context.Context, req mamopay.LinkRequest) (*mamopay.Link, error)
	GetPaymentStatus(ctx context.Context, externalID string) (domain.PaymentStatus, error)
	Refund(ctx context.Context, externalID string, amount decimal.Decimal, reason string) (*mamopay.RefundResult, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

type PaymentRepository interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	ListLinks(ctx context.Context, bookingID uuid.UUID) ([]domain.PaymentLink, error)
}

type WebhookEventRepository interface {
	Create(ctx context.Context, e *domain.WebhookEvent) error
	MarkStatus(ctx context.Context, id uuid.UUID, status domain.WebhookEventStatus, message string) error
}

// Webhook is told when a payment confirms a booking.
type Webhook interface {
	Enabled() bool
	Notify(ctx context.Context, event string, b *domain.Booking) error
}

type AvailabilityCache interface {
	Invalidate(ctx context.Context, studioID uuid.UUID, dates ...time.Time)
}
