package booking

import (
	"context"
	"time"

	"studiobooking/internal/domain"
	"studiobooking/internal/pkg/facilitytime"
	"studiobooking/internal/pkg/slots"
)

// CheckHours rejects an interval that does not fit inside the studio's local
// operating window. Bookings never span local midnight.
func CheckHours(studio *domain.Studio, start, end time.Time, offsetMinutes int) error {
	open, closing, err := slots.Hours{Open: studio.OpeningTime, Close: studio.ClosingTime}.Minutes()
	if err != nil {
		return ErrOutsideHours
	}
	localStart := facilitytime.ToLocalMinutes(start, offsetMinutes)
	localEnd := localStart + int(end.Sub(start)/time.Minute)
	if localStart < open || localEnd > closing {
		return ErrOutsideHours
	}
	return nil
}

// CheckBookable is the authoritative overlap check. Run it inside the creating
// transaction after the studio row has been locked.
func CheckBookable(ctx context.Context, tx OverlapCounter, studio *domain.Studio, start, end time.Time, offsetMinutes int) error {
	if err := CheckHours(studio, start, end, offsetMinutes); err != nil {
		return err
	}
	n, err := tx.CountOverlapping(ctx, studio.ID, start, end)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSlotUnavailable
	}
	return nil
}

// IsBookable reports whether [start, end) can be booked at the studio.
func IsBookable(ctx context.Context, tx OverlapCounter, studio *domain.Studio, start, end time.Time, offsetMinutes int) (bool, error) {
	err := CheckBookable(ctx, tx, studio, start, end, offsetMinutes)
	switch err {
	case nil:
		return true, nil
	case ErrOutsideHours, ErrSlotUnavailable:
		return false, nil
	default:
		return false, err
	}
}
