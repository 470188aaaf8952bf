package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/bookinghook"
	"studiobooking/internal/pkg/facilitytime"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/pkg/notion"
	"studiobooking/internal/pkg/pricing"
	pkgvalidator "studiobooking/internal/pkg/validator"
	"studiobooking/internal/repository"
)

type Settings struct {
	OffsetMinutes   int
	VatRatePercent  decimal.Decimal
	MaxBookingHours int
	TxTimeout       time.Duration
	NotifyTimeout   time.Duration
}

type Service struct {
	store     *repository.Store
	bookings  BookingRepository
	studios   StudioRepository
	packages  PackageRepository
	services  AdditionalServiceRepository
	discounts DiscountRepository

	crm   CRM
	hook  Webhook
	cache AvailabilityCache

	settings Settings
	now      func() time.Time
	dispatch func(func())
}

func NewService(
	store *repository.Store,
	bookings BookingRepository,
	studios StudioRepository,
	packages PackageRepository,
	services AdditionalServiceRepository,
	discounts DiscountRepository,
	settings Settings,
) *Service {
	return &Service{
		store:     store,
		bookings:  bookings,
		studios:   studios,
		packages:  packages,
		services:  services,
		discounts: discounts,
		settings:  settings,
		now:       time.Now,
		dispatch:  func(fn func()) { go fn() },
	}
}

// WithNotifiers sets the collaborators told about new bookings.
func (s *Service) WithNotifiers(crm CRM, hook Webhook) *Service {
	s.crm = crm
	s.hook = hook
	return s
}

func (s *Service) WithCache(cache AvailabilityCache) *Service {
	s.cache = cache
	return s
}

// CreateBooking validates, prices and persists a booking. The overlap check,
// discount usage and insert commit together or not at all.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	req.normalize()
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	if req.Duration > s.settings.MaxBookingHours {
		return nil, fmt.Errorf("%w: at most %d hours", ErrDurationTooLong, s.settings.MaxBookingHours)
	}

	now := s.now().UTC()
	start := req.StartTime.UTC()
	end := start.Add(time.Duration(req.Duration) * time.Hour)
	if !start.After(now) {
		return nil, ErrStartInPast
	}

	studio, err := s.studios.GetByID(ctx, req.StudioID)
	if err != nil {
		return nil, notFoundOr(err, ErrStudioNotFound)
	}
	if req.NumberOfSeats > studio.TotalSeats {
		return nil, fmt.Errorf("%w: studio has %d seats", ErrTooManySeats, studio.TotalSeats)
	}

	pkg, err := s.packages.GetByID(ctx, req.PackageID)
	if err != nil {
		return nil, notFoundOr(err, ErrPackageNotFound)
	}
	if !pkg.OfferedBy(studio.ID) {
		return nil, ErrPackageNotOffered
	}

	items, err := s.resolveServices(ctx, req.AdditionalServices)
	if err != nil {
		return nil, err
	}

	var code *domain.DiscountCode
	if req.DiscountCode != "" {
		code, err = s.discounts.GetByCode(ctx, req.DiscountCode)
		if err != nil {
			return nil, notFoundOr(err, ErrInvalidDiscountCode)
		}
	}

	if err := CheckHours(studio, start, end, s.settings.OffsetMinutes); err != nil {
		return nil, err
	}

	lead := req.Lead.toDomain()
	lines := toLines(items)
	price := pricing.PriceBooking(pkg.PricePerHour, req.Duration, lines, code, s.settings.VatRatePercent)
	if code != nil {
		prior, err := s.priorBookings(ctx, lead)
		if err != nil {
			return nil, err
		}
		if err := pricing.CheckEligibility(code, eligibility(price.PreDiscount, lead, prior, now)); err != nil {
			return nil, err
		}
	}

	b := &domain.Booking{
		StudioID:           studio.ID,
		PackageID:          pkg.ID,
		StartTime:          start,
		EndTime:            end,
		DurationHours:      req.Duration,
		NumberOfSeats:      req.NumberOfSeats,
		VatRate:            s.settings.VatRatePercent,
		Status:             domain.BookingPending,
		AdditionalServices: items,
	}

	txCtx, cancel := context.WithTimeout(ctx, s.settings.TxTimeout)
	defer cancel()

	err = s.store.Transaction(txCtx, func(tx *repository.Tx) error {
		locked, err := tx.LockStudio(txCtx, studio.ID)
		if err != nil {
			return err
		}
		if err := CheckBookable(txCtx, tx, locked, start, end, s.settings.OffsetMinutes); err != nil {
			return err
		}

		if code != nil {
			fresh, err := tx.LockDiscount(txCtx, code.ID)
			if err != nil {
				return err
			}
			var prior int64
			if email := lead.EmailValue(); email != "" {
				if prior, err = tx.CountBookingsByEmail(txCtx, email); err != nil {
					return err
				}
			}
			price = pricing.PriceBooking(pkg.PricePerHour, req.Duration, lines, fresh, s.settings.VatRatePercent)
			if err := pricing.CheckEligibility(fresh, eligibility(price.PreDiscount, lead, prior, now)); err != nil {
				return err
			}
			if err := tx.IncrementDiscountUsage(txCtx, fresh.ID); err != nil {
				if errors.Is(err, repository.ErrLimitReached) {
					return pricing.ErrDiscountExhausted
				}
				return err
			}
			b.DiscountCodeID = &fresh.ID
		}

		if err := tx.UpsertLead(txCtx, lead); err != nil {
			return err
		}
		b.LeadID = lead.ID
		applyPrice(b, price)
		return tx.CreateBooking(txCtx, b)
	})
	if err != nil {
		return nil, classify(txCtx, "failed to create booking", err)
	}

	s.invalidate(ctx, b)

	created, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("booking_id", b.ID.String()).Msg("reload after create failed")
		b.Studio, b.Package, b.Lead, b.DiscountCode = studio, pkg, lead, code
		created = b
	}

	logger.FromContext(ctx).Info().
		Str("booking_id", created.ID.String()).
		Str("studio_id", studio.ID.String()).
		Time("start_time", start).
		Int("duration_hours", req.Duration).
		Str("total_cost", created.TotalCost.StringFixed(2)).
		Msg("booking created")

	s.notify(ctx, created, bookinghook.EventBookingCreated)
	return created, nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBookingNotFound)
	}
	return b, nil
}

// ApplyDiscount attaches a code to a pending booking that has none and
// recalculates its totals.
func (s *Service) ApplyDiscount(ctx context.Context, bookingID uuid.UUID, req ApplyDiscountRequest) (*domain.Booking, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	code, err := s.discounts.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, notFoundOr(err, ErrInvalidDiscountCode)
	}
	now := s.now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, s.settings.TxTimeout)
	defer cancel()

	err = s.store.Transaction(txCtx, func(tx *repository.Tx) error {
		b, err := tx.LockBooking(txCtx, bookingID)
		if err != nil {
			return notFoundOr(err, ErrBookingNotFound)
		}
		if b.Status != domain.BookingPending {
			return ErrBookingNotPending
		}
		if b.DiscountCodeID != nil {
			return ErrDiscountAlreadyApplied
		}

		fresh, err := tx.LockDiscount(txCtx, code.ID)
		if err != nil {
			return err
		}
		lead, err := tx.GetLead(txCtx, b.LeadID)
		if err != nil {
			return err
		}
		var prior int64
		if email := lead.EmailValue(); email != "" {
			n, err := tx.CountBookingsByEmail(txCtx, email)
			if err != nil {
				return err
			}
			// this booking is already counted
			prior = max(n-1, 0)
		}

		pre := b.BaseCost.Add(b.ServicesCost)
		if err := pricing.CheckEligibility(fresh, eligibility(pre, lead, prior, now)); err != nil {
			return err
		}
		if err := tx.IncrementDiscountUsage(txCtx, fresh.ID); err != nil {
			if errors.Is(err, repository.ErrLimitReached) {
				return pricing.ErrDiscountExhausted
			}
			return err
		}

		price := pricing.Finish(b.BaseCost, b.ServicesCost, fresh, b.VatRate)
		return tx.UpdateBooking(txCtx, b.ID, map[string]any{
			"discount_code_id": fresh.ID,
			"discount_amount":  price.DiscountAmount,
			"vat_amount":       price.VatAmount,
			"total_cost":       price.TotalCost,
		})
	})
	if err != nil {
		return nil, classify(txCtx, "failed to apply discount", err)
	}
	return s.GetBooking(ctx, bookingID)
}

func (s *Service) ListServices(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingAdditionalService, error) {
	if _, err := s.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	items, err := s.bookings.ListLineItems(ctx, bookingID)
	if err != nil {
		return nil, apperr.Internal("failed to list booking services", err)
	}
	return items, nil
}

// AddService attaches a service to a pending booking or replaces the quantity
// of one already attached. The unit price is re-frozen at the current price.
// created is false when an existing line item was updated.
func (s *Service) AddService(ctx context.Context, bookingID uuid.UUID, req AddServiceRequest) (item *domain.BookingAdditionalService, created bool, err error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, false, apperr.InvalidFields(fields)
	}
	svc, err := s.services.GetByID(ctx, req.AdditionalServiceID)
	if err != nil {
		return nil, false, notFoundOr(err, ErrServiceNotFound)
	}
	if !svc.IsActive {
		return nil, false, ErrServiceInactive
	}

	txCtx, cancel := context.WithTimeout(ctx, s.settings.TxTimeout)
	defer cancel()

	err = s.store.Transaction(txCtx, func(tx *repository.Tx) error {
		b, err := tx.LockBooking(txCtx, bookingID)
		if err != nil {
			return notFoundOr(err, ErrBookingNotFound)
		}
		if b.Status != domain.BookingPending {
			return ErrBookingNotPending
		}

		created = true
		for i := range b.AdditionalServices {
			if b.AdditionalServices[i].AdditionalServiceID == svc.ID {
				item = &b.AdditionalServices[i]
				created = false
				break
			}
		}
		if item == nil {
			b.AdditionalServices = append(b.AdditionalServices, domain.BookingAdditionalService{
				BookingID:           b.ID,
				AdditionalServiceID: svc.ID,
			})
			item = &b.AdditionalServices[len(b.AdditionalServices)-1]
		}
		item.Quantity = req.Quantity
		item.Price = svc.Price

		if err := tx.SaveLineItem(txCtx, item); err != nil {
			return err
		}
		return s.reprice(txCtx, tx, b)
	})
	if err != nil {
		return nil, false, classify(txCtx, "failed to add booking service", err)
	}
	item.AdditionalService = svc
	return item, created, nil
}

func (s *Service) RemoveService(ctx context.Context, bookingID, serviceID uuid.UUID) error {
	txCtx, cancel := context.WithTimeout(ctx, s.settings.TxTimeout)
	defer cancel()

	err := s.store.Transaction(txCtx, func(tx *repository.Tx) error {
		b, err := tx.LockBooking(txCtx, bookingID)
		if err != nil {
			return notFoundOr(err, ErrBookingNotFound)
		}
		if b.Status != domain.BookingPending {
			return ErrBookingNotPending
		}
		if err := tx.DeleteLineItem(txCtx, bookingID, serviceID); err != nil {
			return notFoundOr(err, ErrLineItemNotFound)
		}

		kept := b.AdditionalServices[:0]
		for _, it := range b.AdditionalServices {
			if it.AdditionalServiceID != serviceID {
				kept = append(kept, it)
			}
		}
		b.AdditionalServices = kept
		return s.reprice(txCtx, tx, b)
	})
	if err != nil {
		return classify(txCtx, "failed to remove booking service", err)
	}
	return nil
}

// reprice recomputes services, discount, VAT and total from the booking's line
// items, its stored base cost and VAT rate, and its discount code if any.
func (s *Service) reprice(ctx context.Context, tx *repository.Tx, b *domain.Booking) error {
	var code *domain.DiscountCode
	if b.DiscountCodeID != nil {
		d, err := tx.GetDiscount(ctx, *b.DiscountCodeID)
		if err != nil {
			return err
		}
		code = d
	}

	price := pricing.Finish(b.BaseCost, pricing.ServicesCost(toLines(b.AdditionalServices)), code, b.VatRate)
	return tx.UpdateBooking(ctx, b.ID, map[string]any{
		"services_cost":   price.ServicesCost,
		"discount_amount": price.DiscountAmount,
		"vat_amount":      price.VatAmount,
		"total_cost":      price.TotalCost,
	})
}

// resolveServices loads the requested services and freezes their current prices.
// Repeated ids are merged.
func (s *Service) resolveServices(ctx context.Context, in []ServiceInput) ([]domain.BookingAdditionalService, error) {
	if len(in) == 0 {
		return nil, nil
	}

	order := make([]uuid.UUID, 0, len(in))
	qty := make(map[uuid.UUID]int, len(in))
	for _, r := range in {
		if _, seen := qty[r.ID]; !seen {
			order = append(order, r.ID)
		}
		qty[r.ID] += r.Quantity
	}

	found, err := s.services.GetByIDs(ctx, order)
	if err != nil {
		return nil, apperr.Internal("failed to load additional services", err)
	}
	byID := make(map[uuid.UUID]domain.AdditionalService, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}

	items := make([]domain.BookingAdditionalService, 0, len(order))
	for _, id := range order {
		svc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
		}
		if !svc.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrServiceInactive, svc.Title)
		}
		items = append(items, domain.BookingAdditionalService{
			AdditionalServiceID: id,
			Quantity:            qty[id],
			Price:               svc.Price,
		})
	}
	return items, nil
}

func (s *Service) priorBookings(ctx context.Context, lead *domain.Lead) (int64, error) {
	email := lead.EmailValue()
	if email == "" {
		return 0, nil
	}
	n, err := s.bookings.CountByLeadEmail(ctx, email)
	if err != nil {
		return 0, apperr.Internal("failed to count prior bookings", err)
	}
	return n, nil
}

func (s *Service) invalidate(ctx context.Context, b *domain.Booking) {
	if s.cache == nil {
		return
	}
	off := s.settings.OffsetMinutes
	s.cache.Invalidate(ctx, b.StudioID,
		facilitytime.LocalDate(b.StartTime, off),
		facilitytime.LocalDate(b.EndTime, off),
	)
}

// notify runs the CRM and webhook calls after commit. Their failures are logged only.
func (s *Service) notify(ctx context.Context, b *domain.Booking, event string) {
	crmOn := s.crm != nil && s.crm.Enabled()
	hookOn := s.hook != nil && s.hook.Enabled()
	if !crmOn && !hookOn {
		return
	}

	base := logger.Detached(ctx)
	s.dispatch(func() {
		nctx, cancel := context.WithTimeout(base, s.settings.NotifyTimeout)
		defer cancel()
		log := logger.FromContext(nctx)

		if crmOn {
			if err := s.crm.CreateBookingEntry(nctx, notion.NewBookingEntry(b, s.settings.OffsetMinutes)); err != nil {
				log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("crm entry failed")
			}
		}
		if hookOn {
			if err := s.hook.Notify(nctx, event, b); err != nil {
				log.Warn().Err(err).Str("booking_id", b.ID.String()).Str("event", event).Msg("booking webhook failed")
			}
		}
	})
}

func applyPrice(b *domain.Booking, p pricing.Breakdown) {
	b.BaseCost = p.BaseCost
	b.ServicesCost = p.ServicesCost
	b.DiscountAmount = p.DiscountAmount
	b.VatAmount = p.VatAmount
	b.TotalCost = p.TotalCost
}

func toLines(items []domain.BookingAdditionalService) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: it.Price, Quantity: it.Quantity})
	}
	return lines
}

func eligibility(pre decimal.Decimal, lead *domain.Lead, prior int64, now time.Time) pricing.Eligibility {
	return pricing.Eligibility{
		PreDiscount:   pre,
		HasEmail:      lead.EmailValue() != "",
		PriorBookings: prior,
		Now:           now,
	}
}

func notFoundOr(err, notFound error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return err
}

// classify leaves typed errors alone and turns store failures and timeouts
// into retryable internal errors.
func classify(ctx context.Context, msg string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Internal(msg+": transaction timed out", err)
	}
	return apperr.Internal(msg, err)
}
