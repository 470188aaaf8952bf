package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixedAmount
}

type DiscountCode struct {
	ID            uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	Code          string              `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Description   string              `json:"description,omitempty" gorm:"type:text"`
	Type          DiscountType        `json:"type" gorm:"type:varchar(16);not null"`
	Value         decimal.Decimal     `json:"value" gorm:"type:numeric(12,2);not null"`
	MinAmount     decimal.NullDecimal `json:"min_amount" gorm:"type:numeric(12,2)"`
	MaxUses       *int                `json:"max_uses,omitempty"`
	UsedCount     int                 `json:"used_count" gorm:"not null;default:0"`
	StartDate     time.Time           `json:"start_date" gorm:"not null"`
	EndDate       time.Time           `json:"end_date" gorm:"not null"`
	IsActive      bool                `json:"is_active" gorm:"not null;default:true"`
	FirstTimeOnly bool                `json:"first_time_only" gorm:"not null;default:false"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (d *DiscountCode) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Exhausted reports whether the usage cap has been reached.
func (d *DiscountCode) Exhausted() bool {
	return d.MaxUses != nil && d.UsedCount >= *d.MaxUses
}
