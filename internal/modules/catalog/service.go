package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/pkg/slots"
	pkgvalidator "studiobooking/internal/pkg/validator"
	"studiobooking/internal/repository"
)

type Service struct {
	studios      StudioRepository
	packages     PackageRepository
	services     AdditionalServiceRepository
	availability AvailabilitySummarizer
	cache        StudioCache
}

func NewService(
	studios StudioRepository,
	packages PackageRepository,
	services AdditionalServiceRepository,
	availability AvailabilitySummarizer,
) *Service {
	return &Service{studios: studios, packages: packages, services: services, availability: availability}
}

func (s *Service) WithCache(cache StudioCache) *Service {
	s.cache = cache
	return s
}

/* ---------- STUDIO ---------- */

// CreateStudio stores a studio with its own packages. Every shared package is
// offered by the new studio too.
func (s *Service) CreateStudio(ctx context.Context, req CreateStudioRequest) (*domain.Studio, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	if _, _, err := (slots.Hours{Open: req.OpeningTime, Close: req.ClosingTime}).Minutes(); err != nil {
		return nil, ErrInvalidHours
	}

	custom := make([]domain.Package, 0, len(req.Packages))
	for i, in := range req.Packages {
		if in.PricePerHour.IsNegative() {
			return nil, apperr.InvalidFields(map[string]string{fmt.Sprintf("packages[%d].price_per_hour", i): "min"})
		}
		custom = append(custom, in.toDomain())
	}

	studioSlug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, apperr.Internal("failed to create studio", err)
	}

	studio := &domain.Studio{
		Name:        strings.TrimSpace(req.Name),
		Slug:        studioSlug,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		TotalSeats:  req.TotalSeats,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
	}
	if err := s.studios.Create(ctx, studio, custom); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateStudio
		}
		return nil, apperr.Internal("failed to create studio", err)
	}

	logger.FromContext(ctx).Info().
		Str("studio_id", studio.ID.String()).
		Str("slug", studio.Slug).
		Int("packages", len(studio.Packages)).
		Msg("studio created")
	return studio, nil
}

func (s *Service) GetStudio(ctx context.Context, id uuid.UUID) (*domain.Studio, error) {
	studio, err := s.studios.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrStudioNotFound, "failed to load studio")
	}
	return studio, nil
}

// ListStudios returns every studio with its packages and look-ahead availability.
func (s *Service) ListStudios(ctx context.Context) ([]StudioWithAvailability, error) {
	studios, err := s.studios.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list studios", err)
	}

	summaries := map[uuid.UUID]slots.Summary{}
	if s.availability != nil && len(studios) > 0 {
		summaries, err = s.availability.Summaries(ctx, studios)
		if err != nil {
			return nil, apperr.Internal("failed to compute availability", err)
		}
	}

	out := make([]StudioWithAvailability, 0, len(studios))
	for _, st := range studios {
		out = append(out, StudioWithAvailability{Studio: st, Availability: summaries[st.ID]})
	}
	return out, nil
}

// UpdateStudio applies the non-empty fields of req. The slug is left unchanged
// so links to the studio stay valid across renames.
func (s *Service) UpdateStudio(ctx context.Context, id uuid.UUID, req UpdateStudioRequest) (*domain.Studio, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}

	studio, err := s.studios.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrStudioNotFound, "failed to load studio")
	}

	opening, closing := studio.OpeningTime, studio.ClosingTime
	if err := copier.CopyWithOption(studio, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, apperr.Internal("failed to apply studio update", err)
	}
	if _, _, err := (slots.Hours{Open: studio.OpeningTime, Close: studio.ClosingTime}).Minutes(); err != nil {
		return nil, ErrInvalidHours
	}

	updates := map[string]any{
		"name":         strings.TrimSpace(studio.Name),
		"location":     studio.Location,
		"image_url":    studio.ImageURL,
		"total_seats":  studio.TotalSeats,
		"opening_time": studio.OpeningTime,
		"closing_time": studio.ClosingTime,
	}
	if err := s.studios.Update(ctx, id, updates); err != nil {
		return nil, notFoundOr(err, ErrStudioNotFound, "failed to update studio")
	}
	if s.cache != nil && (studio.OpeningTime != opening || studio.ClosingTime != closing) {
		s.cache.InvalidateStudio(ctx, id)
	}
	return s.GetStudio(ctx, id)
}

func (s *Service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "studio"
	}
	result := base
	for i := 1; ; i++ {
		exists, err := s.studios.SlugExists(ctx, result)
		if err != nil {
			return "", err
		}
		if !exists {
			return result, nil
		}
		result = fmt.Sprintf("%s-%d", base, i)
	}
}

/* ---------- PACKAGE ---------- */

// CreatePackage stores a package. Without a studio id the package is shared and
// offered by every studio.
func (s *Service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*domain.Package, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	if req.PricePerHour.IsNegative() {
		return nil, apperr.InvalidFields(map[string]string{"price_per_hour": "min"})
	}

	p := req.toDomain()
	p.StudioID = req.StudioID
	if err := s.packages.Create(ctx, &p); err != nil {
		return nil, notFoundOr(err, ErrStudioNotFound, "failed to create package")
	}
	return &p, nil
}

func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*domain.Package, error) {
	p, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrPackageNotFound, "failed to load package")
	}
	return p, nil
}

func (s *Service) ListPackages(ctx context.Context) ([]domain.Package, error) {
	out, err := s.packages.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list packages", err)
	}
	return out, nil
}

// ListStudioPackages returns the packages bookable at the studio.
func (s *Service) ListStudioPackages(ctx context.Context, studioID uuid.UUID) ([]domain.Package, error) {
	if _, err := s.GetStudio(ctx, studioID); err != nil {
		return nil, err
	}
	out, err := s.packages.ListForStudio(ctx, studioID)
	if err != nil {
		return nil, apperr.Internal("failed to list packages", err)
	}
	return out, nil
}

/* ---------- ADDITIONAL SERVICE ---------- */

func (s *Service) CreateService(ctx context.Context, req CreateServiceRequest) (*domain.AdditionalService, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	if req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	svc := &domain.AdditionalService{
		Title:       strings.TrimSpace(req.Title),
		Type:        domain.AdditionalServiceType(req.Type),
		Price:       req.Price.Round(2),
		Currency:    req.Currency,
		Description: req.Description,
		Count:       req.Count,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, apperr.Internal("failed to create additional service", err)
	}

	// is_active defaults to true in the schema, so an inactive service is saved in a second step.
	if req.IsActive != nil && !*req.IsActive {
		svc.IsActive = false
		if err := s.services.Save(ctx, svc); err != nil {
			return nil, apperr.Internal("failed to create additional service", err)
		}
	}
	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*domain.AdditionalService, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrServiceNotFound, "failed to load additional service")
	}
	return svc, nil
}

func (s *Service) ListServices(ctx context.Context, q ListServicesQuery) ([]domain.AdditionalService, error) {
	out, err := s.services.List(ctx, q.Active)
	if err != nil {
		return nil, apperr.Internal("failed to list additional services", err)
	}
	return out, nil
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req UpdateServiceRequest) (*domain.AdditionalService, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		svc.Title = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		svc.Type = domain.AdditionalServiceType(*req.Type)
	}
	if req.Price != nil {
		svc.Price = req.Price.Round(2)
	}
	if req.Currency != nil {
		svc.Currency = *req.Currency
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Count != nil {
		svc.Count = req.Count
	}
	if req.ImageURL != nil {
		svc.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.services.Save(ctx, svc); err != nil {
		return nil, apperr.Internal("failed to update additional service", err)
	}
	return svc, nil
}

// DeleteService removes a service nobody booked. A service referenced by a
// booking is deactivated instead so the booking keeps its line item.
func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) (DeleteServiceResult, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return DeleteServiceResult{}, err
	}

	err = s.services.DeleteUnreferenced(ctx, id)
	switch {
	case err == nil:
		logger.FromContext(ctx).Info().Str("service_id", id.String()).Msg("additional service deleted")
		return DeleteServiceResult{Deleted: true}, nil
	case !errors.Is(err, repository.ErrReferenced):
		return DeleteServiceResult{}, notFoundOr(err, ErrServiceNotFound, "failed to delete additional service")
	}

	svc.IsActive = false
	if err := s.services.Save(ctx, svc); err != nil {
		return DeleteServiceResult{}, apperr.Internal("failed to deactivate additional service", err)
	}
	logger.FromContext(ctx).Info().Str("service_id", id.String()).Msg("additional service deactivated")
	return DeleteServiceResult{Deactivated: true}, nil
}

func notFoundOr(err, notFound error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperr.Internal(msg, err)
}
