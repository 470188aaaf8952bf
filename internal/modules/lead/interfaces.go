package lead

import (
	"context"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
)

type LeadRepository interface {
	Upsert(ctx context.Context, lead *domain.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error)
	List(ctx context.Context, search string, limit, offset int) ([]domain.Lead, int64, error)
}

type BookingRepository interface {
	ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.Booking, error)
}

type CRM interface {
	Enabled() bool
	CreateLeadEntry(ctx context.Context, lead *domain.Lead) error
}
