package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/slots"
)

type StudioRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Studio, error)
}

type ReservationRepository interface {
	ListReservations(ctx context.Context, studioID uuid.UUID, from, to time.Time) ([]domain.Booking, error)
	ListReservationsByStudio(ctx context.Context, from, to time.Time) (map[uuid.UUID][]domain.Booking, error)
}

type MonthCache interface {
	Get(ctx context.Context, studioID uuid.UUID, year int, month time.Month, asOf string) ([]slots.DayAvailability, bool)
	Set(ctx context.Context, studioID uuid.UUID, year int, month time.Month, asOf string, days []slots.DayAvailability)
}
