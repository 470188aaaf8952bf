package discount

import (
	"context"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
)

type DiscountRepository interface {
	Create(ctx context.Context, d *domain.DiscountCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	List(ctx context.Context) ([]domain.DiscountCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type BookingRepository interface {
	CountByLeadEmail(ctx context.Context, email string) (int64, error)
	CountByDiscount(ctx context.Context, discountID uuid.UUID) (int64, error)
}
