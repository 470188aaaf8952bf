package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type StudioRepository struct {
	db *gorm.DB
}

func NewStudioRepository(db *gorm.DB) *StudioRepository {
	return &StudioRepository{db: db}
}

// Create inserts the studio with its own packages and links every shared package to it.
func (r *StudioRepository) Create(ctx context.Context, studio *domain.Studio, custom []domain.Package) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Packages").Create(studio).Error; err != nil {
			return err
		}

		var shared []domain.Package
		if err := tx.Where("studio_id IS NULL").Order("created_at").Find(&shared).Error; err != nil {
			return err
		}

		for i := range custom {
			id := studio.ID
			custom[i].StudioID = &id
			if err := tx.Create(&custom[i]).Error; err != nil {
				return err
			}
		}

		linked := append(shared, custom...)
		if len(linked) > 0 {
			if err := tx.Model(studio).Association("Packages").Append(packagePtrs(linked)...); err != nil {
				return err
			}
		}
		studio.Packages = linked
		return nil
	})
	return translate(err)
}

func (r *StudioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Studio, error) {
	var s domain.Studio
	err := r.db.WithContext(ctx).
		Preload("Packages", func(db *gorm.DB) *gorm.DB { return db.Order("packages.created_at") }).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *StudioRepository) List(ctx context.Context) ([]domain.Studio, error) {
	var out []domain.Studio
	err := r.db.WithContext(ctx).
		Preload("Packages", func(db *gorm.DB) *gorm.DB { return db.Order("packages.created_at") }).
		Order("created_at").
		Find(&out).Error
	return out, translate(err)
}

func (r *StudioRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.Studio{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SlugExists reports whether another studio already uses slug.
func (r *StudioRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Studio{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, translate(err)
}

func packagePtrs(pkgs []domain.Package) []any {
	out := make([]any, len(pkgs))
	for i := range pkgs {
		out[i] = &pkgs[i]
	}
	return out
}
