package lead

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/logger"
	pkgvalidator "studiobooking/internal/pkg/validator"
	"studiobooking/internal/repository"
)

const (
	defaultPageSize = 20
	recentBookings  = 10
)

type Service struct {
	leads         LeadRepository
	bookings      BookingRepository
	crm           CRM
	notifyTimeout time.Duration
	dispatch      func(func())
}

func NewService(leads LeadRepository, bookings BookingRepository, crm CRM, notifyTimeout time.Duration) *Service {
	return &Service{
		leads:         leads,
		bookings:      bookings,
		crm:           crm,
		notifyTimeout: notifyTimeout,
		dispatch:      func(fn func()) { go fn() },
	}
}

// Create stores the lead, merging into an existing lead with the same email.
// The CRM entry is written in the background and never fails the request.
func (s *Service) Create(ctx context.Context, req CreateLeadRequest) (*domain.Lead, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}

	l := req.toDomain()
	if err := s.leads.Upsert(ctx, l); err != nil {
		return nil, apperr.Internal("failed to save lead", err)
	}

	logger.FromContext(ctx).Info().Str("lead_id", l.ID.String()).Msg("lead saved")
	s.pushToCRM(ctx, l)
	return l, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*LeadDetail, error) {
	l, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, apperr.Internal("failed to load lead", err)
	}

	bookings, err := s.bookings.ListByLead(ctx, id, recentBookings)
	if err != nil {
		return nil, apperr.Internal("failed to load lead bookings", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return &LeadDetail{Lead: *l, Bookings: bookings}, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (LeadListResponse, error) {
	if fields := pkgvalidator.Validate(q); fields != nil {
		return LeadListResponse{}, apperr.InvalidFields(fields)
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	leads, total, err := s.leads.List(ctx, q.Search, limit, (page-1)*limit)
	if err != nil {
		return LeadListResponse{}, apperr.Internal("failed to list leads", err)
	}
	return toListResponse(leads, total, page, limit), nil
}

func (s *Service) pushToCRM(ctx context.Context, l *domain.Lead) {
	if s.crm == nil || !s.crm.Enabled() {
		return
	}
	base := logger.Detached(ctx)
	snapshot := *l
	s.dispatch(func() {
		nctx, cancel := context.WithTimeout(base, s.notifyTimeout)
		defer cancel()
		if err := s.crm.CreateLeadEntry(nctx, &snapshot); err != nil {
			logger.FromContext(nctx).Warn().Err(err).Str("lead_id", snapshot.ID.String()).Msg("crm lead entry failed")
		}
	})
}
