package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/pkg/facilitytime"
)

const offset = facilitytime.DefaultOffsetMinutes

var studioHours = Hours{Open: "10:00", Close: "21:00"}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func local(d int, hhmm string) time.Time {
	t, err := facilitytime.ToUTCInstant(day(d), hhmm, offset)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGenerateFullDay(t *testing.T) {
	now := day(1)

	got, err := Generate(studioHours, nil, day(10), now, offset)
	require.NoError(t, err)
	require.Len(t, got, 11)

	assert.Equal(t, local(10, "10:00"), got[0].Start)
	assert.Equal(t, local(10, "21:00"), got[len(got)-1].End)
	for _, s := range got {
		assert.True(t, s.Available)
	}
}

func TestGenerateSlotsTileTheDay(t *testing.T) {
	got, err := Generate(Hours{Open: "09:00", Close: "18:00"}, nil, day(12), day(1), offset)
	require.NoError(t, err)

	dayStart, dayEnd := local(12, "09:00"), local(12, "18:00")
	for i, s := range got {
		assert.False(t, s.Start.Before(dayStart))
		assert.False(t, s.End.After(dayEnd))
		assert.Equal(t, Length, s.End.Sub(s.Start))
		if i > 0 {
			assert.Equal(t, got[i-1].End, s.Start)
		}
	}
}

func TestGenerateDropsTrailingPartialHour(t *testing.T) {
	got, err := Generate(Hours{Open: "10:00", Close: "21:30"}, nil, day(10), day(1), offset)
	require.NoError(t, err)

	require.Len(t, got, 11)
	assert.Equal(t, local(10, "21:00"), got[len(got)-1].End)
}

func TestGenerateMarksReservedSlots(t *testing.T) {
	reservations := []Reservation{
		{Start: local(10, "14:00"), End: local(10, "16:00")},
		{Start: local(10, "18:00"), End: local(10, "19:00"), Cancelled: true},
	}

	got, err := Generate(studioHours, reservations, day(10), day(1), offset)
	require.NoError(t, err)

	unavailable := map[time.Time]bool{}
	for _, s := range got {
		if !s.Available {
			unavailable[s.Start] = true
		}
	}
	assert.Equal(t, map[time.Time]bool{local(10, "14:00"): true, local(10, "15:00"): true}, unavailable)
}

func TestGenerateTodayStartsAtNextWholeHour(t *testing.T) {
	now := local(10, "13:20")

	got, err := Generate(studioHours, nil, day(10), now, offset)
	require.NoError(t, err)

	require.Len(t, got, 7)
	assert.Equal(t, local(10, "14:00"), got[0].Start)
	for _, s := range got {
		assert.True(t, s.Start.After(now))
	}
}

func TestGenerateTodayBeforeOpeningKeepsOpeningTime(t *testing.T) {
	got, err := Generate(studioHours, nil, day(10), local(10, "07:45"), offset)
	require.NoError(t, err)

	require.Len(t, got, 11)
	assert.Equal(t, local(10, "10:00"), got[0].Start)
}

func TestGeneratePastDateIsEmpty(t *testing.T) {
	got, err := Generate(studioHours, nil, day(3), day(10), offset)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateRejectsInvalidHours(t *testing.T) {
	_, err := Generate(Hours{Open: "21:00", Close: "10:00"}, nil, day(10), day(1), offset)
	assert.ErrorIs(t, err, ErrInvalidHours)

	_, err = Generate(Hours{Open: "10", Close: "21:00"}, nil, day(10), day(1), offset)
	assert.ErrorIs(t, err, facilitytime.ErrInvalidTimeOfDay)
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	a, b := local(10, "14:00"), local(10, "16:00")

	assert.True(t, Overlaps(a, b, local(10, "15:00"), local(10, "17:00")))
	assert.False(t, Overlaps(a, b, b, local(10, "17:00")))
	assert.False(t, Overlaps(a, b, local(10, "12:00"), a))
	assert.True(t, Overlaps(a, b, local(10, "13:00"), local(10, "18:00")))
}
