package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"studiobooking/internal/domain"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Create inserts the package and links it to its studio, or to every studio
// when it is shared.
func (r *PackageRepository) Create(ctx context.Context, p *domain.Package) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		q := tx.Model(&domain.Studio{})
		if p.StudioID != nil {
			q = q.Where("id = ?", *p.StudioID)
		}
		var studioIDs []uuid.UUID
		if err := q.Pluck("id", &studioIDs).Error; err != nil {
			return err
		}
		if p.StudioID != nil && len(studioIDs) == 0 {
			return ErrNotFound
		}

		for _, id := range studioIDs {
			if err := tx.Model(&domain.Studio{ID: id}).Association("Packages").Append(p); err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	var p domain.Package
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PackageRepository) List(ctx context.Context) ([]domain.Package, error) {
	var out []domain.Package
	err := r.db.WithContext(ctx).Order("price_per_hour").Order("created_at").Find(&out).Error
	return out, translate(err)
}

// ListForStudio returns the packages linked to the studio, shared ones included.
func (r *PackageRepository) ListForStudio(ctx context.Context, studioID uuid.UUID) ([]domain.Package, error) {
	var out []domain.Package
	err := r.db.WithContext(ctx).
		Joins("JOIN studio_packages ON studio_packages.package_id = packages.id").
		Where("studio_packages.studio_id = ?", studioID).
		Order("packages.price_per_hour").
		Find(&out).Error
	return out, translate(err)
}
