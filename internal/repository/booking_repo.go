package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GetByID loads the booking with studio, package, lead, discount and line items.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Studio").
		Preload("Package").
		Preload("Lead").
		Preload("DiscountCode").
		Preload("AdditionalServices", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("AdditionalServices.AdditionalService").
		Where("id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// ListReservations returns non-cancelled bookings of the studio intersecting [from, to).
func (r *BookingRepository) ListReservations(ctx context.Context, studioID uuid.UUID, from, to time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND status <> ?", studioID, domain.BookingCancelled).
		Where("start_time < ? AND end_time > ?", to.UTC(), from.UTC()).
		Order("start_time").
		Find(&out).Error
	return out, translate(err)
}

// ListReservationsByStudio is ListReservations for every studio at once.
func (r *BookingRepository) ListReservationsByStudio(ctx context.Context, from, to time.Time) (map[uuid.UUID][]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status <> ?", domain.BookingCancelled).
		Where("start_time < ? AND end_time > ?", to.UTC(), from.UTC()).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make(map[uuid.UUID][]domain.Booking)
	for _, b := range rows {
		out[b.StudioID] = append(out[b.StudioID], b)
	}
	return out, nil
}

func (r *BookingRepository) CountByLeadEmail(ctx context.Context, email string) (int64, error) {
	return countBookingsByEmail(r.db.WithContext(ctx), email)
}

func (r *BookingRepository) CountByDiscount(ctx context.Context, discountID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("discount_code_id = ?", discountID).Count(&n).Error
	return n, translate(err)
}

func (r *BookingRepository) ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Studio").
		Preload("Package").
		Where("lead_id = ?", leadID).
		Order("start_time DESC").
		Limit(limit).
		Find(&out).Error
	return out, translate(err)
}

func (r *BookingRepository) ListLineItems(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingAdditionalService, error) {
	var out []domain.BookingAdditionalService
	err := r.db.WithContext(ctx).
		Preload("AdditionalService").
		Where("booking_id = ?", bookingID).
		Order("created_at").
		Find(&out).Error
	return out, translate(err)
}

type CleanupResult struct {
	LineItems    int64
	Payments     int64
	PaymentLinks int64
	Bookings     int64
}

// DeleteBookings removes bookings created before the cutoff together with
// their line items, payments and payment links. A zero cutoff deletes all.
func (r *BookingRepository) DeleteBookings(ctx context.Context, before time.Time) (CleanupResult, error) {
	var res CleanupResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := func() *gorm.DB {
			q := tx.Model(&domain.Booking{}).Select("id")
			if !before.IsZero() {
				q = q.Where("created_at < ?", before.UTC())
			}
			return q
		}

		del := func(model any, column string, n *int64) error {
			q := tx.Where(column+" IN (?)", ids()).Delete(model)
			*n = q.RowsAffected
			return q.Error
		}
		if err := del(&domain.BookingAdditionalService{}, "booking_id", &res.LineItems); err != nil {
			return err
		}
		if err := del(&domain.Payment{}, "booking_id", &res.Payments); err != nil {
			return err
		}
		if err := del(&domain.PaymentLink{}, "booking_id", &res.PaymentLinks); err != nil {
			return err
		}

		q := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if !before.IsZero() {
			q = q.Where("created_at < ?", before.UTC())
		}
		out := q.Delete(&domain.Booking{})
		res.Bookings = out.RowsAffected
		return out.Error
	})
	return res, translate(err)
}
