package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type AdditionalServiceRepository struct {
	db *gorm.DB
}

func NewAdditionalServiceRepository(db *gorm.DB) *AdditionalServiceRepository {
	return &AdditionalServiceRepository{db: db}
}

func (r *AdditionalServiceRepository) Create(ctx context.Context, s *domain.AdditionalService) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *AdditionalServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AdditionalService, error) {
	var s domain.AdditionalService
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// GetByIDs returns the services found; missing ids are simply absent from the result.
func (r *AdditionalServiceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.AdditionalService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.AdditionalService
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, translate(err)
}

// List filters by active flag when active is non-nil.
func (r *AdditionalServiceRepository) List(ctx context.Context, active *bool) ([]domain.AdditionalService, error) {
	q := r.db.WithContext(ctx).Order("type").Order("price")
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var out []domain.AdditionalService
	return out, translate(q.Find(&out).Error)
}

func (r *AdditionalServiceRepository) Save(ctx context.Context, s *domain.AdditionalService) error {
	return translate(r.db.WithContext(ctx).Save(s).Error)
}

// DeleteUnreferenced removes the service only if no booking line item points
// at it, in one statement. It returns ErrReferenced otherwise.
func (r *AdditionalServiceRepository) DeleteUnreferenced(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	res := db.
		Where("id = ?", id).
		Where("NOT EXISTS (?)", db.Model(&domain.BookingAdditionalService{}).
			Select("1").
			Where("additional_service_id = ?", id)).
		Delete(&domain.AdditionalService{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := db.Model(&domain.AdditionalService{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrReferenced
}
