package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Create(ctx context.Context, e *domain.WebhookEvent) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

// MarkStatus records the terminal processing status of an event.
func (r *WebhookEventRepository) MarkStatus(ctx context.Context, id uuid.UUID, status domain.WebhookEventStatus, message string) error {
	now := time.Now().UTC()
	return translate(r.db.WithContext(ctx).
		Model(&domain.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"error_message": message,
			"processed_at":  &now,
		}).Error)
}

func (r *WebhookEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEvent, error) {
	var e domain.WebhookEvent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}
