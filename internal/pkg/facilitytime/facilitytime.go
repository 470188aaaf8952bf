// Package facilitytime converts between the facility's local wall clock and UTC instants.
//
// The facility runs on a fixed UTC offset with no daylight saving, so every conversion is
// plain minute arithmetic. All instants are stored and compared in UTC; local comparisons
// (operating hours, calendar days, weekends) must go through this package.
package facilitytime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultOffsetMinutes is the +04:00 offset of the deployment region.
const DefaultOffsetMinutes = 240

const minutesPerDay = 24 * 60

var timeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:mm")

// IsValidTimeOfDay reports whether s is an HH:mm value with hour 0-23 and minute 0-59.
func IsValidTimeOfDay(s string) bool {
	return timeOfDayPattern.MatchString(s)
}

// ParseTimeOfDay returns minutes since local midnight for an HH:mm value.
func ParseTimeOfDay(s string) (int, error) {
	if !IsValidTimeOfDay(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	hh, mm, _ := strings.Cut(s, ":")
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight as HH:mm.
func FormatMinutes(minutes int) string {
	minutes = normalize(minutes)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ToUTCInstant returns the UTC instant of localTimeOfDay on the calendar date of date.
// Only the year, month and day of date are used.
func ToUTCInstant(date time.Time, localTimeOfDay string, offsetMinutes int) (time.Time, error) {
	minutes, err := ParseTimeOfDay(localTimeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return AtLocalMinutes(date, minutes, offsetMinutes), nil
}

// AtLocalMinutes is ToUTCInstant for an already parsed time of day.
func AtLocalMinutes(date time.Time, minutes int, offsetMinutes int) time.Time {
	y, m, d := date.Date()
	local := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
	return local.Add(-time.Duration(offsetMinutes) * time.Minute)
}

// ToLocalMinutes returns the local minutes since midnight of instant, in [0, 1440).
func ToLocalMinutes(instant time.Time, offsetMinutes int) int {
	u := instant.UTC()
	return normalize(u.Hour()*60 + u.Minute() + offsetMinutes)
}

// LocalDate returns the facility calendar date containing instant, as midnight UTC of that date.
func LocalDate(instant time.Time, offsetMinutes int) time.Time {
	shifted := instant.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	y, m, d := shifted.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayBounds returns the UTC instants of local midnight at the start and end of date.
func DayBounds(date time.Time, offsetMinutes int) (time.Time, time.Time) {
	start := AtLocalMinutes(date, 0, offsetMinutes)
	return start, start.Add(24 * time.Hour)
}

// Zone returns a fixed time.Location for the offset, e.g. "+04:00".
func Zone(offsetMinutes int) *time.Location {
	sign := "+"
	abs := offsetMinutes
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	return time.FixedZone(fmt.Sprintf("%s%02d:%02d", sign, abs/60, abs%60), offsetMinutes*60)
}

// ToLocal re-expresses instant in the facility zone.
func ToLocal(instant time.Time, offsetMinutes int) time.Time {
	return instant.In(Zone(offsetMinutes))
}

// IsWeekend reports whether the calendar date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

func normalize(minutes int) int {
	return ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
}
