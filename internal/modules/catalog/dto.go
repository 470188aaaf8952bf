package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/slots"
)

// ---------- STUDIOS ----------

type CreateStudioRequest struct {
	Name        string         `json:"name" validate:"required,max=255"`
	Location    string         `json:"location" validate:"omitempty,max=255"`
	ImageURL    string         `json:"image_url" validate:"omitempty,url"`
	TotalSeats  int            `json:"total_seats" validate:"required,min=1"`
	OpeningTime string         `json:"opening_time" validate:"required,timeofday"`
	ClosingTime string         `json:"closing_time" validate:"required,timeofday"`
	Packages    []PackageInput `json:"packages" validate:"omitempty,dive"`
}

type UpdateStudioRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=255"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	TotalSeats  *int    `json:"total_seats,omitempty" validate:"omitempty,min=1"`
	OpeningTime *string `json:"opening_time,omitempty" validate:"omitempty,timeofday"`
	ClosingTime *string `json:"closing_time,omitempty" validate:"omitempty,timeofday"`
}

// StudioWithAvailability is a studio with its look-ahead availability summary.
type StudioWithAvailability struct {
	domain.Studio
	Availability slots.Summary `json:"availability"`
}

// ---------- PACKAGES ----------

type PackageInput struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	DeliveryTime string          `json:"delivery_time" validate:"omitempty,max=128"`
	Perks        []domain.Perk   `json:"perks" validate:"omitempty,dive"`
}

func (in PackageInput) toDomain() domain.Package {
	return domain.Package{
		Name:         in.Name,
		Description:  in.Description,
		PricePerHour: in.PricePerHour.Round(2),
		Currency:     in.Currency,
		DeliveryTime: in.DeliveryTime,
		Perks:        datatypes.JSONSlice[domain.Perk](in.Perks),
	}
}

type CreatePackageRequest struct {
	PackageInput
	StudioID *uuid.UUID `json:"studio_id,omitempty"`
}

// ---------- ADDITIONAL SERVICES ----------

type CreateServiceRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Type        string          `json:"type" validate:"required,oneof=STANDARD_EDIT_SHORT_FORM CUSTOM_EDIT_SHORT_FORM STANDARD_EDIT_LONG_FORM CUSTOM_EDIT_LONG_FORM LIVE_VIDEO_CUTTING SUBTITLES TELEPROMPTER_SUPPORT"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	Description string          `json:"description"`
	Count       *int            `json:"count,omitempty" validate:"omitempty,min=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

type UpdateServiceRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Type        *string          `json:"type,omitempty" validate:"omitempty,oneof=STANDARD_EDIT_SHORT_FORM CUSTOM_EDIT_SHORT_FORM STANDARD_EDIT_LONG_FORM CUSTOM_EDIT_LONG_FORM LIVE_VIDEO_CUTTING SUBTITLES TELEPROMPTER_SUPPORT"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Currency    *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Description *string          `json:"description,omitempty"`
	Count       *int             `json:"count,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

type ListServicesQuery struct {
	Active *bool `form:"active"`
}

// DeleteServiceResult tells whether the service was removed or only deactivated.
type DeleteServiceResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
