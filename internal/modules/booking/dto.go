package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
)

type LeadInput struct {
	FullName          string `json:"full_name" validate:"required,max=255"`
	Email             string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber       string `json:"phone_number" validate:"required,max=64"`
	WhatsappNumber    string `json:"whatsapp_number" validate:"omitempty,max=64"`
	RecordingLocation string `json:"recording_location" validate:"omitempty,max=255"`
}

func (in LeadInput) toDomain() *domain.Lead {
	lead := &domain.Lead{
		FullName:          strings.TrimSpace(in.FullName),
		PhoneNumber:       strings.TrimSpace(in.PhoneNumber),
		WhatsappNumber:    strings.TrimSpace(in.WhatsappNumber),
		RecordingLocation: strings.TrimSpace(in.RecordingLocation),
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		lead.Email = &email
	}
	return lead
}

type ServiceInput struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Quantity int       `json:"quantity" validate:"min=1,max=100"`
}

type CreateBookingRequest struct {
	StudioID           uuid.UUID      `json:"studio_id" validate:"required"`
	PackageID          uuid.UUID      `json:"package_id" validate:"required"`
	StartTime          time.Time      `json:"start_time" validate:"required"`
	Duration           int            `json:"duration" validate:"required,min=1"`
	NumberOfSeats      int            `json:"number_of_seats" validate:"required,min=1"`
	Lead               LeadInput      `json:"lead"`
	AdditionalServices []ServiceInput `json:"additional_services" validate:"omitempty,dive"`
	DiscountCode       string         `json:"discount_code" validate:"omitempty,max=64"`
}

// normalize fills defaults before validation.
func (r *CreateBookingRequest) normalize() {
	r.DiscountCode = strings.ToUpper(strings.TrimSpace(r.DiscountCode))
	for i := range r.AdditionalServices {
		if r.AdditionalServices[i].Quantity == 0 {
			r.AdditionalServices[i].Quantity = 1
		}
	}
}

type ApplyDiscountRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type AddServiceRequest struct {
	AdditionalServiceID uuid.UUID `json:"additional_service_id" validate:"required"`
	Quantity            int       `json:"quantity" validate:"min=1,max=100"`
}
