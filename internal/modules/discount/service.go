package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/pkg/pricing"
	pkgvalidator "studiobooking/internal/pkg/validator"
	"studiobooking/internal/repository"
)

var (
	hundred = decimal.NewFromInt(100)

	errUnknownCode = apperr.Validation("INVALID_DISCOUNT_CODE", "invalid discount code")
)

type Service struct {
	store     *repository.Store
	discounts DiscountRepository
	bookings  BookingRepository
	now       func() time.Time
}

func NewService(store *repository.Store, discounts DiscountRepository, bookings BookingRepository) *Service {
	return &Service{store: store, discounts: discounts, bookings: bookings, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateDiscountRequest) (*domain.DiscountCode, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}

	now := s.now().UTC()
	d := &domain.DiscountCode{
		Code:          normalizeCode(req.Code),
		Description:   req.Description,
		Type:          domain.DiscountType(req.Type),
		Value:         req.Value.Round(2),
		MaxUses:       req.MaxUses,
		StartDate:     now,
		IsActive:      true,
		FirstTimeOnly: req.FirstTimeOnly,
	}
	if d.Type == "" {
		d.Type = domain.DiscountPercentage
	}
	if req.MinAmount != nil {
		d.MinAmount = decimal.NewNullDecimal(req.MinAmount.Round(2))
	}
	if req.StartDate != nil {
		d.StartDate = req.StartDate.UTC()
	}
	d.EndDate = now.AddDate(1, 0, 0)
	if req.EndDate != nil {
		d.EndDate = req.EndDate.UTC()
	}
	if err := checkTerms(d); err != nil {
		return nil, err
	}

	if _, err := s.discounts.GetByCode(ctx, d.Code); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to create discount code", err)
	}

	if err := s.discounts.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, apperr.Internal("failed to create discount code", err)
	}

	// is_active defaults to true in the schema, so an inactive code is saved in a second step.
	if req.IsActive != nil && !*req.IsActive {
		d.IsActive = false
		err := s.store.Transaction(ctx, func(tx *repository.Tx) error {
			return tx.SaveDiscountTerms(ctx, d)
		})
		if err != nil {
			return nil, apperr.Internal("failed to create discount code", err)
		}
	}

	logger.FromContext(ctx).Info().Str("discount_id", d.ID.String()).Str("code", d.Code).Msg("discount code created")
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.DiscountCode, error) {
	d, err := s.discounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, apperr.Internal("failed to load discount code", err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]domain.DiscountCode, error) {
	out, err := s.discounts.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list discount codes", err)
	}
	if out == nil {
		out = []domain.DiscountCode{}
	}
	return out, nil
}

// Update edits the terms of a code under its row lock. Redemptions committed
// meanwhile keep their used_count.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateDiscountRequest) (*domain.DiscountCode, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	if req.Code != nil {
		other, err := s.discounts.GetByCode(ctx, *req.Code)
		if err == nil && other.ID != id {
			return nil, ErrDuplicateCode
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Internal("failed to update discount code", err)
		}
	}

	var d *domain.DiscountCode
	err := s.store.Transaction(ctx, func(tx *repository.Tx) error {
		var err error
		if d, err = tx.LockDiscount(ctx, id); err != nil {
			return err
		}
		if err := applyUpdate(d, req); err != nil {
			return err
		}
		return tx.SaveDiscountTerms(ctx, d)
	})
	if err != nil {
		var appErr *apperr.Error
		switch {
		case errors.As(err, &appErr):
			return nil, err
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrDiscountNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateCode
		}
		return nil, apperr.Internal("failed to update discount code", err)
	}
	return d, nil
}

func applyUpdate(d *domain.DiscountCode, req UpdateDiscountRequest) error {
	if req.Code != nil {
		d.Code = normalizeCode(*req.Code)
	}
	if req.Type != nil {
		d.Type = domain.DiscountType(*req.Type)
	}
	if req.Value != nil {
		d.Value = req.Value.Round(2)
	}
	if req.MinAmount != nil {
		d.MinAmount = decimal.NewNullDecimal(req.MinAmount.Round(2))
	}

	patch := copyable{
		Description:   req.Description,
		MaxUses:       req.MaxUses,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      req.IsActive,
		FirstTimeOnly: req.FirstTimeOnly,
	}
	if err := copier.CopyWithOption(d, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return apperr.Internal("failed to apply discount update", err)
	}
	d.StartDate, d.EndDate = d.StartDate.UTC(), d.EndDate.UTC()

	return checkTerms(d)
}

// Delete refuses to remove a code that bookings still reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.bookings.CountByDiscount(ctx, id)
	if err != nil {
		return apperr.Internal("failed to delete discount code", err)
	}
	if n > 0 {
		return ErrDiscountInUse
	}

	if err := s.discounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDiscountNotFound
		}
		return apperr.Internal("failed to delete discount code", err)
	}
	logger.FromContext(ctx).Info().Str("discount_id", id.String()).Msg("discount code deleted")
	return nil
}

// Validate checks a code against an order amount without redeeming it.
// Ineligible codes are reported in the result, not as errors.
func (s *Service) Validate(ctx context.Context, q ValidateQuery) (*ValidateResponse, error) {
	if fields := pkgvalidator.Validate(q); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}

	amount := decimal.Zero
	if strings.TrimSpace(q.Amount) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(q.Amount))
		if err != nil || parsed.IsNegative() {
			return nil, ErrInvalidAmount
		}
		amount = parsed.Round(2)
	}

	out := &ValidateResponse{Code: normalizeCode(q.Code), FinalAmount: amount}

	d, err := s.discounts.GetByCode(ctx, out.Code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return reject(out, errUnknownCode), nil
		}
		return nil, apperr.Internal("failed to load discount code", err)
	}
	out.Type = string(d.Type)
	value := d.Value
	out.Value = &value

	in := pricing.Eligibility{PreDiscount: amount, Now: s.now()}
	if email := strings.ToLower(strings.TrimSpace(q.Email)); email != "" {
		in.HasEmail = true
		if d.FirstTimeOnly {
			n, err := s.bookings.CountByLeadEmail(ctx, email)
			if err != nil {
				return nil, apperr.Internal("failed to count prior bookings", err)
			}
			in.PriorBookings = n
		}
	}

	if err := pricing.CheckEligibility(d, in); err != nil {
		return reject(out, err), nil
	}

	out.Valid = true
	out.DiscountAmount = pricing.DiscountAmount(d, amount)
	out.FinalAmount = amount.Sub(out.DiscountAmount)
	return out, nil
}

func reject(out *ValidateResponse, err error) *ValidateResponse {
	out.Valid = false
	if e, ok := apperr.As(err); ok {
		out.Reason = e.Code
	}
	out.Message = err.Error()
	return out
}

func checkTerms(d *domain.DiscountCode) error {
	if !d.Type.Valid() {
		return apperr.InvalidFields(map[string]string{"type": "oneof"})
	}
	if !d.Value.IsPositive() || (d.Type == domain.DiscountPercentage && d.Value.GreaterThan(hundred)) {
		return ErrInvalidValue
	}
	if d.MinAmount.Valid && d.MinAmount.Decimal.IsNegative() {
		return apperr.InvalidFields(map[string]string{"min_amount": "min"})
	}
	if !d.StartDate.Before(d.EndDate) {
		return ErrInvalidPeriod
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
