package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Upsert matches an existing lead by email; see Tx.UpsertLead.
func (r *LeadRepository) Upsert(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertLead(tx, lead)
	})
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var l domain.Lead
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *LeadRepository) GetByEmail(ctx context.Context, email string) (*domain.Lead, error) {
	var l domain.Lead
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// List searches name, email and phone case-insensitively, newest first.
func (r *LeadRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.Lead, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Lead{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone_number LIKE ?", like, like, like)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var out []domain.Lead
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, total, translate(err)
}
