package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AdditionalServiceType string

const (
	ServiceStandardEditShortForm AdditionalServiceType = "STANDARD_EDIT_SHORT_FORM"
	ServiceCustomEditShortForm   AdditionalServiceType = "CUSTOM_EDIT_SHORT_FORM"
	ServiceStandardEditLongForm  AdditionalServiceType = "STANDARD_EDIT_LONG_FORM"
	ServiceCustomEditLongForm    AdditionalServiceType = "CUSTOM_EDIT_LONG_FORM"
	ServiceLiveVideoCutting      AdditionalServiceType = "LIVE_VIDEO_CUTTING"
	ServiceSubtitles             AdditionalServiceType = "SUBTITLES"
	ServiceTeleprompterSupport   AdditionalServiceType = "TELEPROMPTER_SUPPORT"
)

// AdditionalService is an optional extra that can be attached to a booking while active.
type AdditionalService struct {
	ID          uuid.UUID             `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string                `json:"title" gorm:"size:255;not null"`
	Type        AdditionalServiceType `json:"type" gorm:"type:varchar(32);not null;index"`
	Price       decimal.Decimal       `json:"price" gorm:"type:numeric(12,2);not null"`
	Currency    string                `json:"currency" gorm:"type:varchar(3);not null;default:'AED'"`
	Description string                `json:"description,omitempty" gorm:"type:text"`
	Count       *int                  `json:"count,omitempty"`
	ImageURL    string                `json:"image_url,omitempty" gorm:"type:text"`
	IsActive    bool                  `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (s *AdditionalService) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	return nil
}
