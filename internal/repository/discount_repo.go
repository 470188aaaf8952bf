package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) Create(ctx context.Context, d *domain.DiscountCode) error {
	return translate(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DiscountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error) {
	var d domain.DiscountCode
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// GetByCode matches codes case-insensitively; codes are stored upper-case.
func (r *DiscountRepository) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	var d domain.DiscountCode
	err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&d).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *DiscountRepository) List(ctx context.Context) ([]domain.DiscountCode, error) {
	var out []domain.DiscountCode
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, translate(err)
}

func (r *DiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.DiscountCode{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
