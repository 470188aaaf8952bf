package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead is a customer. Email is the identity used for dedup and first-time checks.
type Lead struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FullName          string    `json:"full_name" gorm:"size:255;not null"`
	Email             *string   `json:"email,omitempty" gorm:"size:255;uniqueIndex"`
	PhoneNumber       string    `json:"phone_number,omitempty" gorm:"size:64"`
	WhatsappNumber    string    `json:"whatsapp_number,omitempty" gorm:"size:64"`
	RecordingLocation string    `json:"recording_location,omitempty" gorm:"size:255"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (l *Lead) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// EmailValue returns the email or an empty string.
func (l *Lead) EmailValue() string {
	if l == nil || l.Email == nil {
		return ""
	}
	return *l.Email
}
