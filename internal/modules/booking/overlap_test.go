package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/slots"
)

// reservationCounter answers CountOverlapping from an in-memory list.
type reservationCounter struct {
	reservations []slots.Reservation
	err          error
}

func (r reservationCounter) CountOverlapping(_ context.Context, _ uuid.UUID, start, end time.Time) (int64, error) {
	var n int64
	for _, res := range r.reservations {
		if !res.Cancelled && slots.Overlaps(res.Start, res.End, start, end) {
			n++
		}
	}
	return n, r.err
}

func TestIsBookable(t *testing.T) {
	studio := &domain.Studio{ID: uuid.New(), OpeningTime: "10:00", ClosingTime: "21:00"}
	existing := reservationCounter{reservations: []slots.Reservation{
		{Start: localTime(14), End: localTime(16)},
		{Start: localTime(18), End: localTime(19), Cancelled: true},
	}}

	cases := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"overlapping", localTime(15), localTime(17), false},
		{"inside", localTime(14), localTime(15), false},
		{"touching after", localTime(16), localTime(18), true},
		{"touching before", localTime(12), localTime(14), true},
		{"over cancelled", localTime(18), localTime(19), true},
		{"opening hour", localTime(10), localTime(11), true},
		{"closing hour", localTime(20), localTime(21), true},
		{"past closing", localTime(20), localTime(22), false},
		{"before opening", localTime(9), localTime(11), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := IsBookable(context.Background(), existing, studio, tc.start, tc.end, offset)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestCheckBookableReasons(t *testing.T) {
	studio := &domain.Studio{ID: uuid.New(), OpeningTime: "10:00", ClosingTime: "21:00"}
	existing := reservationCounter{reservations: []slots.Reservation{{Start: localTime(14), End: localTime(16)}}}

	assert.ErrorIs(t, CheckBookable(context.Background(), existing, studio, localTime(15), localTime(17), offset), ErrSlotUnavailable)
	assert.ErrorIs(t, CheckBookable(context.Background(), existing, studio, localTime(20), localTime(22), offset), ErrOutsideHours)
}

func TestIsBookablePropagatesStoreErrors(t *testing.T) {
	studio := &domain.Studio{ID: uuid.New(), OpeningTime: "10:00", ClosingTime: "21:00"}
	boom := errors.New("connection reset")

	ok, err := IsBookable(context.Background(), reservationCounter{err: boom}, studio, localTime(11), localTime(12), offset)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
