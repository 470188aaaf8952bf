package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WebhookEventStatus string

const (
	WebhookReceived     WebhookEventStatus = "received"
	WebhookProcessed    WebhookEventStatus = "processed"
	WebhookAcknowledged WebhookEventStatus = "acknowledged"
	WebhookFailed       WebhookEventStatus = "failed"
	WebhookError        WebhookEventStatus = "error"
)

// WebhookEvent is the append-only audit record of an inbound provider callback.
type WebhookEvent struct {
	ID           uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	Provider     string             `json:"provider" gorm:"size:32;not null;default:'mamopay'"`
	EventType    string             `json:"event_type" gorm:"size:64;not null;index"`
	Payload      datatypes.JSON     `json:"payload"`
	Status       WebhookEventStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	ErrorMessage string             `json:"error_message,omitempty" gorm:"type:text"`
	ProcessedAt  *time.Time         `json:"processed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func (e *WebhookEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
