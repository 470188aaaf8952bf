package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/notion"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	CountByLeadEmail(ctx context.Context, email string) (int64, error)
	ListLineItems(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingAdditionalService, error)
}

type StudioRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Studio, error)
}

type PackageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error)
}

type AdditionalServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AdditionalService, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.AdditionalService, error)
}

type DiscountRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
}

// OverlapCounter is the part of a store transaction the overlap check needs.
type OverlapCounter interface {
	CountOverlapping(ctx context.Context, studioID uuid.UUID, start, end time.Time) (int64, error)
}

type CRM interface {
	Enabled() bool
	CreateBookingEntry(ctx context.Context, e notion.BookingEntry) error
}

type Webhook interface {
	Enabled() bool
	Notify(ctx context.Context, event string, b *domain.Booking) error
}

type AvailabilityCache interface {
	Invalidate(ctx context.Context, studioID uuid.UUID, dates ...time.Time)
}
