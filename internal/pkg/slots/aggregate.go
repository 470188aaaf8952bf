package slots

import (
	"time"

	"studiobooking/internal/pkg/facilitytime"
)

type DayStatus string

const (
	StatusPast            DayStatus = "past"
	StatusAvailable       DayStatus = "available"
	StatusPartiallyBooked DayStatus = "partially-booked"
	StatusFullyBooked     DayStatus = "fully-booked"
)

type DayMetadata struct {
	IsWeekend bool `json:"is_weekend"`
	Bookings  int  `json:"bookings"`
}

type DayAvailability struct {
	Date           string      `json:"date"`
	Status         DayStatus   `json:"status"`
	AvailableSlots int         `json:"available_slots"`
	TotalSlots     int         `json:"total_slots"`
	Metadata       DayMetadata `json:"metadata"`
}

// Summary is the availability of a studio over a look-ahead window.
type Summary struct {
	AvailableSlots int  `json:"available_slots"`
	TotalSlots     int  `json:"total_slots"`
	IsFullyBooked  bool `json:"is_fully_booked"`
}

// Month classifies every day of the given month. It has no side effects.
func Month(hours Hours, year int, month time.Month, reservations []Reservation, now time.Time, offsetMinutes int) ([]DayAvailability, error) {
	if _, _, err := hours.Minutes(); err != nil {
		return nil, err
	}

	today := facilitytime.LocalDate(now, offsetMinutes)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]DayAvailability, 0, 31)

	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		entry := DayAvailability{
			Date: day.Format(time.DateOnly),
			Metadata: DayMetadata{
				IsWeekend: facilitytime.IsWeekend(day),
				Bookings:  countTouching(reservations, day, offsetMinutes),
			},
		}

		if day.Before(today) {
			entry.Status = StatusPast
			days = append(days, entry)
			continue
		}

		daySlots, err := Generate(hours, reservations, day, now, offsetMinutes)
		if err != nil {
			return nil, err
		}
		entry.TotalSlots = len(daySlots)
		entry.AvailableSlots = countAvailable(daySlots)
		entry.Status = classify(entry.AvailableSlots, entry.TotalSlots)
		days = append(days, entry)
	}
	return days, nil
}

// Summarize adds up slots for the days starting at from's local date.
func Summarize(hours Hours, from time.Time, days int, reservations []Reservation, now time.Time, offsetMinutes int) (Summary, error) {
	var sum Summary
	start := facilitytime.LocalDate(from, offsetMinutes)
	for i := 0; i < days; i++ {
		daySlots, err := Generate(hours, reservations, start.AddDate(0, 0, i), now, offsetMinutes)
		if err != nil {
			return Summary{}, err
		}
		sum.TotalSlots += len(daySlots)
		sum.AvailableSlots += countAvailable(daySlots)
	}
	sum.IsFullyBooked = sum.AvailableSlots == 0
	return sum, nil
}

// A day with no remaining slots counts as fully booked.
func classify(available, total int) DayStatus {
	switch {
	case total > 0 && available == total:
		return StatusAvailable
	case available > 0:
		return StatusPartiallyBooked
	default:
		return StatusFullyBooked
	}
}

func countAvailable(daySlots []Slot) int {
	n := 0
	for _, s := range daySlots {
		if s.Available {
			n++
		}
	}
	return n
}

func countTouching(reservations []Reservation, day time.Time, offsetMinutes int) int {
	start, end := facilitytime.DayBounds(day, offsetMinutes)
	n := 0
	for _, r := range reservations {
		if !r.Cancelled && Overlaps(r.Start, r.End, start, end) {
			n++
		}
	}
	return n
}
