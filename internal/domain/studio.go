package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultCurrency = "AED"

type Studio struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;uniqueIndex"`
	Location    string    `json:"location" gorm:"size:255"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"type:text"`
	TotalSeats  int       `json:"total_seats" gorm:"not null"`
	OpeningTime string    `json:"opening_time" gorm:"type:varchar(5);not null"`
	ClosingTime string    `json:"closing_time" gorm:"type:varchar(5);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Packages []Package `json:"packages,omitempty" gorm:"many2many:studio_packages;constraint:OnDelete:CASCADE"`
}

func (s *Studio) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Perk is one line of a package's feature list.
type Perk struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// Package is a priced offering. A nil StudioID marks a shared package offered by every studio.
type Package struct {
	ID           uuid.UUID                 `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string                    `json:"name" gorm:"size:255;not null"`
	Description  string                    `json:"description,omitempty" gorm:"type:text"`
	PricePerHour decimal.Decimal           `json:"price_per_hour" gorm:"type:numeric(12,2);not null"`
	Currency     string                    `json:"currency" gorm:"type:varchar(3);not null;default:'AED'"`
	DeliveryTime string                    `json:"delivery_time,omitempty" gorm:"size:128"`
	Perks        datatypes.JSONSlice[Perk] `json:"perks"`
	StudioID     *uuid.UUID                `json:"studio_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

func (p *Package) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return nil
}

// OfferedBy reports whether the package can be booked at the studio.
func (p *Package) OfferedBy(studioID uuid.UUID) bool {
	return p.StudioID == nil || *p.StudioID == studioID
}
