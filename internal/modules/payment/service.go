package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/bookinghook"
	"studiobooking/internal/pkg/facilitytime"
	"studiobooking/internal/pkg/logger"
	"studiobooking/internal/pkg/mamopay"
	pkgvalidator "studiobooking/internal/pkg/validator"
	"studiobooking/internal/repository"
)

const (
	EventChargeSucceeded   = "charge.succeeded"
	EventChargeFailed      = "charge.failed"
	EventPaymentLinkCreate = "payment_link.create"

	defaultRefundReason = "Booking cancelled"
)

type Settings struct {
	Title         string
	ReturnURL     string
	FailureURL    string
	OffsetMinutes int
	TxTimeout     time.Duration
	NotifyTimeout time.Duration
}

type Service struct {
	store    *repository.Store
	bookings BookingRepository
	payments PaymentRepository
	events   WebhookEventRepository
	provider Provider

	hook  Webhook
	cache AvailabilityCache

	settings Settings
	dispatch func(func())
}

func NewService(
	store *repository.Store,
	bookings BookingRepository,
	payments PaymentRepository,
	events WebhookEventRepository,
	provider Provider,
	settings Settings,
) *Service {
	if settings.Title == "" {
		settings.Title = "Studio Booking"
	}
	return &Service{
		store:    store,
		bookings: bookings,
		payments: payments,
		events:   events,
		provider: provider,
		settings: settings,
		dispatch: func(fn func()) { go fn() },
	}
}

// WithWebhook sets the notifier told when a payment confirms a booking.
func (s *Service) WithWebhook(hook Webhook) *Service {
	s.hook = hook
	return s
}

func (s *Service) WithCache(cache AvailabilityCache) *Service {
	s.cache = cache
	return s
}

// CreatePaymentLink issues a provider link for the booking. An existing link is
// returned unless its payment failed.
func (s *Service) CreatePaymentLink(ctx context.Context, bookingID uuid.UUID) (*PaymentLinkResponse, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled || b.Status == domain.BookingCompleted {
		return nil, ErrBookingNotPayable
	}

	existing, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to load payment", err)
	}
	if existing != nil && existing.Status != domain.PaymentFailed && existing.PaymentLinkURL != "" {
		if link, ok := s.latestLink(ctx, bookingID); ok {
			return &PaymentLinkResponse{PaymentLink: link, Payment: *existing}, nil
		}
	}

	link, err := s.provider.CreatePaymentLink(ctx, s.linkRequest(b))
	if err != nil {
		return nil, apperr.Internal("payment provider request failed", err)
	}

	currency := domain.DefaultCurrency
	if b.Package != nil && b.Package.Currency != "" {
		currency = b.Package.Currency
	}

	tctx, cancel := s.txContext(ctx)
	defer cancel()

	out := &PaymentLinkResponse{Created: true}
	err = s.store.Transaction(tctx, func(tx *repository.Tx) error {
		record := domain.PaymentLink{
			BookingID:  b.ID,
			ExternalID: link.ID,
			URL:        link.PaymentURL,
			Amount:     b.TotalCost,
			Currency:   currency,
			Status:     domain.PaymentPending,
		}
		if err := tx.CreatePaymentLink(tctx, &record); err != nil {
			return err
		}

		p, err := tx.LockPayment(tctx, b.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			p = &domain.Payment{BookingID: b.ID}
		case err != nil:
			return err
		}
		p.Amount = b.TotalCost
		p.Currency = currency
		p.Status = domain.PaymentPending
		p.PaymentLinkURL = link.PaymentURL
		p.Metadata = withMetadata(p.Metadata, "link", map[string]any{"id": link.ID, "payment_url": link.PaymentURL})
		if err := tx.SavePayment(tctx, p); err != nil {
			return err
		}

		out.PaymentLink = record
		out.Payment = *p
		return nil
	})
	if err != nil {
		return nil, classify(tctx, "failed to store payment link", err)
	}

	logger.FromContext(ctx).Info().
		Str("booking_id", b.ID.String()).
		Str("link_id", link.ID).
		Msg("payment link created")
	return out, nil
}

// GetPaymentStatus reports the stored status, refreshing it from the provider
// while it is not final. Provider failures fall back to the stored status.
func (s *Service) GetPaymentStatus(ctx context.Context, bookingID uuid.UUID) (*PaymentStatusResponse, error) {
	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, apperr.Internal("failed to load payment", err)
	}

	if p.ExternalID != "" && !p.Status.Final() {
		latest, err := s.provider.GetPaymentStatus(ctx, p.ExternalID)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("booking_id", bookingID.String()).Msg("payment status refresh failed")
		} else if latest != p.Status {
			updated, err := s.applyStatus(ctx, bookingID, latest, "latest", map[string]any{"status": string(latest)})
			if err != nil {
				return nil, err
			}
			p = updated
		}
	}

	return &PaymentStatusResponse{
		BookingID:   bookingID.String(),
		Status:      p.Status,
		Amount:      p.Amount,
		Currency:    p.Currency,
		PaymentLink: p.PaymentLinkURL,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// Refund returns a completed payment to the customer and cancels the booking.
func (s *Service) Refund(ctx context.Context, bookingID uuid.UUID, req RefundRequest) (*RefundResponse, error) {
	if fields := pkgvalidator.Validate(req); fields != nil {
		return nil, apperr.InvalidFields(fields)
	}
	if _, err := s.loadBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, apperr.Internal("failed to load payment", err)
	}
	if p.Status != domain.PaymentCompleted {
		return nil, ErrPaymentNotRefundable
	}
	if p.ExternalID == "" {
		return nil, ErrMissingProviderID
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultRefundReason
	}
	result, err := s.provider.Refund(ctx, p.ExternalID, p.Amount, reason)
	if err != nil {
		return nil, apperr.Internal("payment provider request failed", err)
	}

	meta := map[string]any{"id": result.ID, "status": result.Status, "reason": reason}
	if _, err := s.applyStatus(ctx, bookingID, domain.PaymentRefunded, "refund", meta); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Str("booking_id", bookingID.String()).
		Str("refund_id", result.ID).
		Msg("payment refunded")
	return &RefundResponse{RefundID: result.ID, Amount: p.Amount, Status: domain.PaymentRefunded}, nil
}

// HandleWebhook records a provider callback and applies charge events to the
// payment and booking. Every callback leaves an audit event behind.
func (s *Service) HandleWebhook(ctx context.Context, raw []byte) (*WebhookResult, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrInvalidPayload
	}
	eventType := strings.TrimSpace(payload.EventType)
	if eventType == "" {
		eventType = "unknown"
	}

	log := logger.FromContext(ctx).With().Str("event_type", eventType).Str("charge_id", payload.ID).Logger()

	event := &domain.WebhookEvent{
		Provider:  "mamopay",
		EventType: eventType,
		Payload:   datatypes.JSON(raw),
		Status:    domain.WebhookReceived,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperr.Internal("failed to record webhook event", err)
	}

	if eventType != EventChargeSucceeded && eventType != EventChargeFailed {
		s.markEvent(ctx, event.ID, domain.WebhookAcknowledged, "")
		log.Info().Msg("webhook acknowledged")
		return &WebhookResult{EventID: event.ID.String(), Status: domain.WebhookAcknowledged}, nil
	}

	ref := payload.CustomData.BookingID
	if ref == "" {
		ref = payload.ExternalID
	}
	bookingID, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		s.markEvent(ctx, event.ID, domain.WebhookFailed, ErrMissingBookingID.Message)
		log.Warn().Str("booking_ref", ref).Msg("webhook without usable booking id")
		return nil, ErrMissingBookingID
	}

	status := mamopay.MapStatus(payload.Status)
	var full map[string]any
	_ = json.Unmarshal(raw, &full)

	_, err = s.applyCharge(ctx, bookingID, payload, status, full)
	if err != nil {
		s.markEvent(ctx, event.ID, domain.WebhookError, err.Error())
		log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("webhook processing failed")
		return nil, err
	}

	s.markEvent(ctx, event.ID, domain.WebhookProcessed, "")
	log.Info().Str("booking_id", bookingID.String()).Str("status", string(status)).Msg("webhook processed")
	return &WebhookResult{EventID: event.ID.String(), Status: domain.WebhookProcessed}, nil
}

// applyCharge stores a charge outcome. The payment is created when the
// booking has none yet.
func (s *Service) applyCharge(ctx context.Context, bookingID uuid.UUID, payload WebhookPayload, status domain.PaymentStatus, full map[string]any) (*domain.Payment, error) {
	var (
		p      *domain.Payment
		before domain.BookingStatus
		after  domain.BookingStatus
		b      *domain.Booking
	)
	tctx, cancel := s.txContext(ctx)
	defer cancel()

	err := s.store.Transaction(tctx, func(tx *repository.Tx) error {
		var err error
		b, err = tx.LockBooking(tctx, bookingID)
		if err != nil {
			return err
		}

		p, err = tx.LockPayment(tctx, bookingID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			p = &domain.Payment{BookingID: bookingID, Amount: b.TotalCost}
		case err != nil:
			return err
		}
		p.Status = status
		if payload.ID != "" {
			p.ExternalID = payload.ID
		}
		p.Metadata = withMetadata(p.Metadata, "webhook", full)
		if err := tx.SavePayment(tctx, p); err != nil {
			return err
		}
		if payload.PaymentLinkID != "" {
			if err := tx.UpdatePaymentLinkStatus(tctx, payload.PaymentLinkID, status); err != nil {
				return err
			}
		}

		before = b.Status
		after, err = transitionBooking(tctx, tx, b, status)
		return err
	})
	if err != nil {
		return nil, classify(tctx, "failed to apply payment", err)
	}

	s.afterTransition(ctx, b, before, after)
	return p, nil
}

// applyStatus moves the payment to status, records meta under key and moves
// the booking along with it.
func (s *Service) applyStatus(ctx context.Context, bookingID uuid.UUID, status domain.PaymentStatus, key string, meta map[string]any) (*domain.Payment, error) {
	var (
		p      *domain.Payment
		before domain.BookingStatus
		after  domain.BookingStatus
		b      *domain.Booking
	)
	tctx, cancel := s.txContext(ctx)
	defer cancel()

	err := s.store.Transaction(tctx, func(tx *repository.Tx) error {
		var err error
		b, err = tx.LockBooking(tctx, bookingID)
		if err != nil {
			return err
		}
		p, err = tx.LockPayment(tctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		p.Status = status
		p.Metadata = withMetadata(p.Metadata, key, meta)
		if err := tx.SavePayment(tctx, p); err != nil {
			return err
		}

		before = b.Status
		after, err = transitionBooking(tctx, tx, b, status)
		return err
	})
	if err != nil {
		return nil, classify(tctx, "failed to update payment", err)
	}

	s.afterTransition(ctx, b, before, after)
	return p, nil
}

// transitionBooking applies the booking side of a payment status. A completed
// payment confirms a pending booking, a failed one cancels it and a refund
// cancels any booking that may still be cancelled. A cancelled booking is
// never revived.
func transitionBooking(ctx context.Context, tx *repository.Tx, b *domain.Booking, status domain.PaymentStatus) (domain.BookingStatus, error) {
	var next domain.BookingStatus
	switch status {
	case domain.PaymentCompleted:
		if b.Status == domain.BookingPending {
			next = domain.BookingConfirmed
		}
	case domain.PaymentFailed:
		if b.Status == domain.BookingPending {
			next = domain.BookingCancelled
		}
	case domain.PaymentRefunded:
		if b.Status.CanTransitionTo(domain.BookingCancelled) {
			next = domain.BookingCancelled
		}
	}
	if next == "" {
		return b.Status, nil
	}
	if err := tx.UpdateBooking(ctx, b.ID, map[string]any{"status": next}); err != nil {
		return b.Status, err
	}
	return next, nil
}

func (s *Service) afterTransition(ctx context.Context, b *domain.Booking, before, after domain.BookingStatus) {
	if b == nil || before == after {
		return
	}
	logger.FromContext(ctx).Info().
		Str("booking_id", b.ID.String()).
		Str("from", string(before)).
		Str("to", string(after)).
		Msg("booking status changed")

	if s.cache != nil {
		off := s.settings.OffsetMinutes
		s.cache.Invalidate(ctx, b.StudioID,
			facilitytime.LocalDate(b.StartTime, off),
			facilitytime.LocalDate(b.EndTime, off),
		)
	}
	if after == domain.BookingConfirmed {
		s.notifyConfirmed(ctx, b.ID)
	}
}

func (s *Service) notifyConfirmed(ctx context.Context, bookingID uuid.UUID) {
	if s.hook == nil || !s.hook.Enabled() {
		return
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("booking_id", bookingID.String()).Msg("failed to reload confirmed booking")
		return
	}

	base := logger.Detached(ctx)
	s.dispatch(func() {
		nctx, cancel := context.WithTimeout(base, s.settings.NotifyTimeout)
		defer cancel()
		if err := s.hook.Notify(nctx, bookinghook.EventBookingConfirmed, b); err != nil {
			logger.FromContext(nctx).Warn().Err(err).Str("booking_id", b.ID.String()).Msg("booking webhook failed")
		}
	})
}

func (s *Service) linkRequest(b *domain.Booking) mamopay.LinkRequest {
	local := facilitytime.ToLocal(b.StartTime, s.settings.OffsetMinutes)
	req := mamopay.LinkRequest{
		Title:                 s.settings.Title,
		Description:           fmt.Sprintf("Studio booking for %s at %s", local.Format("Monday, 2 January 2006"), local.Format("15:04")),
		Amount:                b.TotalCost.InexactFloat64(),
		AmountCurrency:        domain.DefaultCurrency,
		ReturnURL:             s.settings.ReturnURL,
		FailureReturnURL:      s.settings.FailureURL,
		EnableCustomerDetails: true,
		SendCustomerReceipt:   true,
		ExternalID:            b.ID.String(),
		CustomData: mamopay.CustomData{
			BookingID: b.ID.String(),
			StudioID:  b.StudioID.String(),
			PackageID: b.PackageID.String(),
		},
	}
	if b.Package != nil && b.Package.Currency != "" {
		req.AmountCurrency = b.Package.Currency
	}
	if b.Lead != nil {
		parts := strings.Fields(b.Lead.FullName)
		if len(parts) > 0 {
			req.FirstName = parts[0]
			req.LastName = strings.Join(parts[1:], " ")
		}
		req.Email = b.Lead.EmailValue()
	}
	return req
}

func (s *Service) latestLink(ctx context.Context, bookingID uuid.UUID) (domain.PaymentLink, bool) {
	links, err := s.payments.ListLinks(ctx, bookingID)
	if err != nil || len(links) == 0 {
		return domain.PaymentLink{}, false
	}
	return links[len(links)-1], true
}

func (s *Service) loadBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, apperr.Internal("failed to load booking", err)
	}
	return b, nil
}

func (s *Service) markEvent(ctx context.Context, id uuid.UUID, status domain.WebhookEventStatus, message string) {
	if err := s.events.MarkStatus(ctx, id, status, message); err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("event_id", id.String()).Msg("failed to update webhook event")
	}
}

func (s *Service) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.settings.TxTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.settings.TxTimeout)
}

func withMetadata(m datatypes.JSONMap, key string, value any) datatypes.JSONMap {
	if m == nil {
		m = datatypes.JSONMap{}
	}
	m[key] = value
	return m
}

// classify leaves typed errors alone, maps a missing booking and turns store
// failures into retryable internal errors.
func classify(ctx context.Context, msg string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrBookingNotFound
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Internal(msg+": transaction timed out", err)
	}
	return apperr.Internal(msg, err)
}
