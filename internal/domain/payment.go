package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Final reports whether the provider will not change the status any more.
func (s PaymentStatus) Final() bool {
	return s == PaymentCompleted || s == PaymentRefunded
}

// Payment mirrors the provider-side state of a booking's payment. One per booking.
type Payment struct {
	ID             uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	BookingID      uuid.UUID         `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex"`
	Amount         decimal.Decimal   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Currency       string            `json:"currency" gorm:"type:varchar(3);not null;default:'AED'"`
	Status         PaymentStatus     `json:"status" gorm:"type:varchar(16);not null;default:'PENDING';index"`
	ExternalID     string            `json:"external_id,omitempty" gorm:"size:128;index"`
	PaymentLinkURL string            `json:"payment_link_url,omitempty" gorm:"type:text"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return nil
}

// PaymentLink records every link issued by the provider for a booking.
type PaymentLink struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID       `json:"booking_id" gorm:"type:uuid;not null;index"`
	ExternalID string          `json:"external_id" gorm:"size:128;not null;uniqueIndex"`
	URL        string          `json:"url" gorm:"type:text;not null"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Currency   string          `json:"currency" gorm:"type:varchar(3);not null;default:'AED'"`
	Status     PaymentStatus   `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (l *PaymentLink) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Currency == "" {
		l.Currency = DefaultCurrency
	}
	return nil
}
