package lead

import (
	"strings"

	"studiobooking/internal/domain"
)

type CreateLeadRequest struct {
	FullName          string `json:"full_name" validate:"required,max=255"`
	Email             string `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber       string `json:"phone_number" validate:"required,max=64"`
	WhatsappNumber    string `json:"whatsapp_number" validate:"omitempty,max=64"`
	RecordingLocation string `json:"recording_location" validate:"omitempty,max=255"`
}

func (r CreateLeadRequest) toDomain() *domain.Lead {
	l := &domain.Lead{
		FullName:          strings.TrimSpace(r.FullName),
		PhoneNumber:       strings.TrimSpace(r.PhoneNumber),
		WhatsappNumber:    strings.TrimSpace(r.WhatsappNumber),
		RecordingLocation: strings.TrimSpace(r.RecordingLocation),
	}
	if email := strings.ToLower(strings.TrimSpace(r.Email)); email != "" {
		l.Email = &email
	}
	return l
}

type ListQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page" validate:"omitempty,min=1"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

type LeadListResponse struct {
	Leads      []domain.Lead `json:"leads"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

// LeadDetail is a lead with its most recent bookings.
type LeadDetail struct {
	domain.Lead
	Bookings []domain.Booking `json:"bookings"`
}

func toListResponse(leads []domain.Lead, total int64, page, perPage int) LeadListResponse {
	if leads == nil {
		leads = []domain.Lead{}
	}
	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}
	return LeadListResponse{
		Leads:      leads,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}
