package catalog

import (
	"context"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/slots"
)

type StudioRepository interface {
	Create(ctx context.Context, studio *domain.Studio, custom []domain.Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Studio, error)
	List(ctx context.Context) ([]domain.Studio, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type PackageRepository interface {
	Create(ctx context.Context, p *domain.Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Package, error)
	List(ctx context.Context) ([]domain.Package, error)
	ListForStudio(ctx context.Context, studioID uuid.UUID) ([]domain.Package, error)
}

type AdditionalServiceRepository interface {
	Create(ctx context.Context, s *domain.AdditionalService) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AdditionalService, error)
	List(ctx context.Context, active *bool) ([]domain.AdditionalService, error)
	Save(ctx context.Context, s *domain.AdditionalService) error
	DeleteUnreferenced(ctx context.Context, id uuid.UUID) error
}

// StudioCache drops cached availability of a studio.
type StudioCache interface {
	InvalidateStudio(ctx context.Context, studioID uuid.UUID)
}

// AvailabilitySummarizer computes the look-ahead summary shown in studio listings.
type AvailabilitySummarizer interface {
	Summaries(ctx context.Context, studios []domain.Studio) (map[uuid.UUID]slots.Summary, error)
}
