package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/apperr"
	"studiobooking/internal/pkg/cache"
	"studiobooking/internal/pkg/facilitytime"
	"studiobooking/internal/pkg/slots"
	"studiobooking/internal/repository"
)

type Settings struct {
	OffsetMinutes int
	LookAheadDays int
}

type Service struct {
	studios  StudioRepository
	bookings ReservationRepository
	cache    MonthCache
	settings Settings
	now      func() time.Time
}

func NewService(studios StudioRepository, bookings ReservationRepository, cache MonthCache, settings Settings) *Service {
	return &Service{
		studios:  studios,
		bookings: bookings,
		cache:    cache,
		settings: settings,
		now:      time.Now,
	}
}

// Get answers the studio availability endpoint. An empty date means the
// facility's current date.
func (s *Service) Get(ctx context.Context, studioID uuid.UUID, q Query) (any, error) {
	view := strings.ToLower(strings.TrimSpace(q.View))
	if view == "" {
		view = ViewMonth
	}

	date := facilitytime.LocalDate(s.now(), s.settings.OffsetMinutes)
	if q.Date != "" {
		parsed, err := parseDate(q.Date, view)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	switch view {
	case ViewMonth:
		days, err := s.Month(ctx, studioID, date.Year(), date.Month())
		if err != nil {
			return nil, err
		}
		return MonthResponse{Year: date.Year(), Month: int(date.Month()), Days: days}, nil
	case ViewDay:
		daySlots, err := s.Day(ctx, studioID, date)
		if err != nil {
			return nil, err
		}
		return DayResponse{Date: date.Format(time.DateOnly), Slots: daySlots}, nil
	default:
		return nil, ErrInvalidView
	}
}

// Month classifies every day of the month. Results are cached briefly.
func (s *Service) Month(ctx context.Context, studioID uuid.UUID, year int, month time.Month) ([]slots.DayAvailability, error) {
	studio, err := s.studio(ctx, studioID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	asOf := cache.AsOf(facilitytime.ToLocal(now, s.settings.OffsetMinutes))
	if s.cache != nil {
		if days, ok := s.cache.Get(ctx, studioID, year, month, asOf); ok {
			return days, nil
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from, _ := facilitytime.DayBounds(first, s.settings.OffsetMinutes)
	to, _ := facilitytime.DayBounds(first.AddDate(0, 1, 0), s.settings.OffsetMinutes)

	reservations, err := s.reservations(ctx, studioID, from, to)
	if err != nil {
		return nil, err
	}

	days, err := slots.Month(hoursOf(studio), year, month, reservations, now, s.settings.OffsetMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, studioID, year, month, asOf, days)
	}
	return days, nil
}

// Day lists the hourly slots of one local date.
func (s *Service) Day(ctx context.Context, studioID uuid.UUID, date time.Time) ([]slots.Slot, error) {
	studio, err := s.studio(ctx, studioID)
	if err != nil {
		return nil, err
	}

	from, to := facilitytime.DayBounds(date, s.settings.OffsetMinutes)
	reservations, err := s.reservations(ctx, studioID, from, to)
	if err != nil {
		return nil, err
	}

	daySlots, err := slots.Generate(hoursOf(studio), reservations, date, s.now(), s.settings.OffsetMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	if daySlots == nil {
		daySlots = []slots.Slot{}
	}
	return daySlots, nil
}

// Summaries rolls the look-ahead window of every given studio into a summary.
// Studios with invalid hours are reported as fully booked.
func (s *Service) Summaries(ctx context.Context, studios []domain.Studio) (map[uuid.UUID]slots.Summary, error) {
	now := s.now()
	today := facilitytime.LocalDate(now, s.settings.OffsetMinutes)
	from, _ := facilitytime.DayBounds(today, s.settings.OffsetMinutes)
	to, _ := facilitytime.DayBounds(today.AddDate(0, 0, s.settings.LookAheadDays), s.settings.OffsetMinutes)

	byStudio, err := s.bookings.ListReservationsByStudio(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal("failed to load reservations", err)
	}

	out := make(map[uuid.UUID]slots.Summary, len(studios))
	for _, st := range studios {
		sum, err := slots.Summarize(hoursOf(&st), today, s.settings.LookAheadDays, toReservations(byStudio[st.ID]), now, s.settings.OffsetMinutes)
		if err != nil {
			sum = slots.Summary{IsFullyBooked: true}
		}
		out[st.ID] = sum
	}
	return out, nil
}

func (s *Service) studio(ctx context.Context, id uuid.UUID) (*domain.Studio, error) {
	studio, err := s.studios.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudioNotFound
		}
		return nil, apperr.Internal("failed to load studio", err)
	}
	return studio, nil
}

func (s *Service) reservations(ctx context.Context, studioID uuid.UUID, from, to time.Time) ([]slots.Reservation, error) {
	rows, err := s.bookings.ListReservations(ctx, studioID, from, to)
	if err != nil {
		return nil, apperr.Internal("failed to load reservations", err)
	}
	return toReservations(rows), nil
}

func toReservations(rows []domain.Booking) []slots.Reservation {
	out := make([]slots.Reservation, 0, len(rows))
	for _, b := range rows {
		out = append(out, slots.Reservation{
			Start:     b.StartTime,
			End:       b.EndTime,
			Cancelled: b.Status == domain.BookingCancelled,
		})
	}
	return out
}

func hoursOf(studio *domain.Studio) slots.Hours {
	return slots.Hours{Open: studio.OpeningTime, Close: studio.ClosingTime}
}

// parseDate accepts YYYY-MM-DD for both views and YYYY-MM for the month view.
func parseDate(raw, view string) (time.Time, error) {
	if d, err := facilitytime.ParseDate(raw); err == nil {
		return d, nil
	}
	if view == ViewMonth {
		if d, err := time.Parse("2006-01", raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
