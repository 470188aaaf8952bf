package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiobooking/internal/domain"
)

// Store runs units of work that must commit or roll back together.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn in one database transaction bound to ctx.
// Every read and write inside fn must go through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&Tx{db: db})
	})
	return translate(err)
}

// Tx exposes the writes and locked reads of a running transaction.
type Tx struct {
	db *gorm.DB
}

func (t *Tx) forUpdate(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockStudio takes the row lock that serialises bookings of one studio.
func (t *Tx) LockStudio(ctx context.Context, id uuid.UUID) (*domain.Studio, error) {
	var s domain.Studio
	if err := t.forUpdate(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// CountOverlapping counts non-cancelled bookings of the studio intersecting [start, end).
func (t *Tx) CountOverlapping(ctx context.Context, studioID uuid.UUID, start, end time.Time) (int64, error) {
	var n int64
	err := t.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("studio_id = ? AND status <> ?", studioID, domain.BookingCancelled).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC()).
		Count(&n).Error
	return n, translate(err)
}

func (t *Tx) LockDiscount(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error) {
	var d domain.DiscountCode
	if err := t.forUpdate(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// SaveDiscountTerms writes every column of d except used_count, which only
// IncrementDiscountUsage changes. d.UsedCount is refreshed from the row.
func (t *Tx) SaveDiscountTerms(ctx context.Context, d *domain.DiscountCode) error {
	db := t.db.WithContext(ctx)
	err := db.Model(d).Select("*").Omit("id", "used_count", "created_at").Updates(d).Error
	if err != nil {
		return translate(err)
	}
	return translate(db.Select("used_count").Where("id = ?", d.ID).Take(d).Error)
}

// IncrementDiscountUsage bumps used_count unless the cap is already reached.
func (t *Tx) IncrementDiscountUsage(ctx context.Context, id uuid.UUID) error {
	res := t.db.WithContext(ctx).
		Model(&domain.DiscountCode{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLimitReached
	}
	return nil
}

// CountBookingsByEmail counts bookings of any status made by the lead with this email.
func (t *Tx) CountBookingsByEmail(ctx context.Context, email string) (int64, error) {
	return countBookingsByEmail(t.db.WithContext(ctx), email)
}

func countBookingsByEmail(db *gorm.DB, email string) (int64, error) {
	var n int64
	err := db.Model(&domain.Booking{}).
		Joins("JOIN leads ON leads.id = bookings.lead_id").
		Where("LOWER(leads.email) = LOWER(?)", email).
		Count(&n).Error
	return n, translate(err)
}

// UpsertLead matches by email when present and refreshes contact details,
// otherwise inserts a new lead. lead.ID is set on return.
func (t *Tx) UpsertLead(ctx context.Context, lead *domain.Lead) error {
	return upsertLead(t.db.WithContext(ctx), lead)
}

func upsertLead(db *gorm.DB, lead *domain.Lead) error {
	if lead.Email == nil || *lead.Email == "" {
		lead.Email = nil
		return translate(db.Create(lead).Error)
	}

	var existing domain.Lead
	err := db.Where("LOWER(email) = LOWER(?)", *lead.Email).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]any{"full_name": lead.FullName}
		if lead.PhoneNumber != "" {
			updates["phone_number"] = lead.PhoneNumber
		}
		if lead.WhatsappNumber != "" {
			updates["whatsapp_number"] = lead.WhatsappNumber
		}
		if lead.RecordingLocation != "" {
			updates["recording_location"] = lead.RecordingLocation
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return translate(err)
		}
		if err := db.First(lead, "id = ?", existing.ID).Error; err != nil {
			return translate(err)
		}
		return nil
	case translate(err) == ErrNotFound:
		return translate(db.Create(lead).Error)
	default:
		return translate(err)
	}
}

// CreateBooking inserts the booking together with its line items.
func (t *Tx) CreateBooking(ctx context.Context, b *domain.Booking) error {
	err := t.db.WithContext(ctx).
		Omit("Studio", "Package", "Lead", "DiscountCode").
		Create(b).Error
	return translate(err)
}

// LockBooking loads the booking with its line items under a row lock.
func (t *Tx) LockBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := t.forUpdate(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	if err := t.db.WithContext(ctx).Where("booking_id = ?", id).Order("created_at").Find(&b.AdditionalServices).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (t *Tx) GetLead(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var l domain.Lead
	if err := t.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (t *Tx) GetDiscount(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error) {
	var d domain.DiscountCode
	if err := t.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (t *Tx) UpdateBooking(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := t.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *Tx) SaveLineItem(ctx context.Context, item *domain.BookingAdditionalService) error {
	return translate(t.db.WithContext(ctx).Omit("AdditionalService").Save(item).Error)
}

func (t *Tx) DeleteLineItem(ctx context.Context, bookingID, serviceID uuid.UUID) error {
	res := t.db.WithContext(ctx).
		Where("booking_id = ? AND additional_service_id = ?", bookingID, serviceID).
		Delete(&domain.BookingAdditionalService{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LockPayment returns ErrNotFound when the booking has no payment yet.
func (t *Tx) LockPayment(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	if err := t.forUpdate(ctx).Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (t *Tx) SavePayment(ctx context.Context, p *domain.Payment) error {
	return translate(t.db.WithContext(ctx).Save(p).Error)
}

func (t *Tx) CreatePaymentLink(ctx context.Context, l *domain.PaymentLink) error {
	return translate(t.db.WithContext(ctx).Create(l).Error)
}

func (t *Tx) UpdatePaymentLinkStatus(ctx context.Context, externalID string, status domain.PaymentStatus) error {
	return translate(t.db.WithContext(ctx).
		Model(&domain.PaymentLink{}).
		Where("external_id = ?", externalID).
		Update("status", status).Error)
}
