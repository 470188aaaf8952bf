package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PaymentRepository) ListLinks(ctx context.Context, bookingID uuid.UUID) ([]domain.PaymentLink, error) {
	var out []domain.PaymentLink
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("created_at").Find(&out).Error
	return out, translate(err)
}
