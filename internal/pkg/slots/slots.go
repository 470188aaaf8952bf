// Package slots generates hourly booking slots and rolls them up into day and month views.
package slots

import (
	"errors"
	"fmt"
	"time"

	"studiobooking/internal/pkg/facilitytime"
)

// Length is the fixed duration of a bookable slot.
const Length = time.Hour

var ErrInvalidHours = errors.New("opening time must be before closing time")

// Hours is a local operating window in HH:mm.
type Hours struct {
	Open  string
	Close string
}

// Minutes parses the window into minutes since local midnight.
func (h Hours) Minutes() (int, int, error) {
	open, err := facilitytime.ParseTimeOfDay(h.Open)
	if err != nil {
		return 0, 0, fmt.Errorf("opening time: %w", err)
	}
	closing, err := facilitytime.ParseTimeOfDay(h.Close)
	if err != nil {
		return 0, 0, fmt.Errorf("closing time: %w", err)
	}
	if open >= closing {
		return 0, 0, ErrInvalidHours
	}
	return open, closing, nil
}

// Reservation is an existing booking interval in UTC.
type Reservation struct {
	Start     time.Time
	End       time.Time
	Cancelled bool
}

type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// Overlaps is the half-open interval test for [aStart,aEnd) and [bStart,bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Generate returns the whole-hour slots of targetDate that start after now.
// On the facility's current day the walk starts at the next whole local hour,
// never before opening time.
func Generate(hours Hours, reservations []Reservation, targetDate, now time.Time, offsetMinutes int) ([]Slot, error) {
	open, closing, err := hours.Minutes()
	if err != nil {
		return nil, err
	}

	dayStart := facilitytime.AtLocalMinutes(targetDate, open, offsetMinutes)
	dayEnd := facilitytime.AtLocalMinutes(targetDate, closing, offsetMinutes)

	start := dayStart
	if sameDate(facilitytime.LocalDate(now, offsetMinutes), targetDate) {
		nextHour := (facilitytime.ToLocalMinutes(now, offsetMinutes)/60 + 1) * 60
		if next := facilitytime.AtLocalMinutes(targetDate, nextHour, offsetMinutes); next.After(start) {
			start = next
		}
	}

	out := make([]Slot, 0, (closing-open)/60)
	for s := start; !s.Add(Length).After(dayEnd); s = s.Add(Length) {
		if !s.After(now) {
			continue
		}
		end := s.Add(Length)
		out = append(out, Slot{Start: s, End: end, Available: !reserved(reservations, s, end)})
	}
	return out, nil
}

func reserved(reservations []Reservation, start, end time.Time) bool {
	for _, r := range reservations {
		if r.Cancelled {
			continue
		}
		if Overlaps(start, end, r.Start, r.End) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
