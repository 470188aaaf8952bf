package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	StudioID       uuid.UUID       `json:"studio_id" gorm:"type:uuid;not null;index:idx_bookings_studio_time,priority:1"`
	PackageID      uuid.UUID       `json:"package_id" gorm:"type:uuid;not null;index"`
	LeadID         uuid.UUID       `json:"lead_id" gorm:"type:uuid;not null;index"`
	DiscountCodeID *uuid.UUID      `json:"discount_code_id,omitempty" gorm:"type:uuid;index"`
	StartTime      time.Time       `json:"start_time" gorm:"not null;index:idx_bookings_studio_time,priority:2"`
	EndTime        time.Time       `json:"end_time" gorm:"not null;index:idx_bookings_studio_time,priority:3"`
	DurationHours  int             `json:"duration_hours" gorm:"not null"`
	NumberOfSeats  int             `json:"number_of_seats" gorm:"not null"`
	BaseCost       decimal.Decimal `json:"base_cost" gorm:"type:numeric(12,2);not null"`
	ServicesCost   decimal.Decimal `json:"services_cost" gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2);not null"`
	VatRate        decimal.Decimal `json:"vat_rate" gorm:"type:numeric(5,2);not null"`
	VatAmount      decimal.Decimal `json:"vat_amount" gorm:"type:numeric(12,2);not null"`
	TotalCost      decimal.Decimal `json:"total_cost" gorm:"type:numeric(12,2);not null"`
	Status         BookingStatus   `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Studio             *Studio                    `json:"studio,omitempty" gorm:"foreignKey:StudioID"`
	Package            *Package                   `json:"package,omitempty" gorm:"foreignKey:PackageID"`
	Lead               *Lead                      `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
	DiscountCode       *DiscountCode              `json:"discount_code,omitempty" gorm:"foreignKey:DiscountCodeID"`
	AdditionalServices []BookingAdditionalService `json:"additional_services,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	return nil
}

// BookingAdditionalService is a line item. Price is the unit price frozen at booking time.
type BookingAdditionalService struct {
	ID                  uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	BookingID           uuid.UUID       `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex:idx_booking_service"`
	AdditionalServiceID uuid.UUID       `json:"additional_service_id" gorm:"type:uuid;not null;uniqueIndex:idx_booking_service"`
	Quantity            int             `json:"quantity" gorm:"not null;default:1"`
	Price               decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	CreatedAt           time.Time       `json:"created_at"`

	AdditionalService *AdditionalService `json:"additional_service,omitempty" gorm:"foreignKey:AdditionalServiceID"`
}

func (s *BookingAdditionalService) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Subtotal is unit price times quantity.
func (s BookingAdditionalService) Subtotal() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
