package booking

import (
	"fmt"
	"time"

	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
)

const (
	MinDuration = 15 * time.Minute
	MaxDuration = 24 * time.Hour
)

// ValidateTimeRange checks the requested session window against the clock.
// The 15-minute and 24-hour boundaries themselves are allowed.
func ValidateTimeRange(now, start, end time.Time) error {
	if !start.After(now) {
		return httperr.ErrBusiness("starts_in_past")
	}
	if !end.After(start) {
		return httperr.ErrBusiness("invalid_range")
	}

	d := end.Sub(start)
	if d < MinDuration {
		return httperr.ErrBusiness("too_short")
	}
	if d > MaxDuration {
		return httperr.ErrBusiness("too_long")
	}

	return nil
}

// Overlaps uses the half-open interval test: sessions that merely touch
// (one ends exactly when the other starts) do not conflict.
func Overlaps(existingStart, existingEnd, start, end time.Time) bool {
	return existingStart.Before(end) && existingEnd.After(start)
}

// Conflict describes which existing booking blocks a requested slot.
type Conflict struct {
	Booking *models.Booking
	Message string
}

// NewConflict wraps a blocking booking with a user-facing message. lead is
// the subject phrase, e.g. "The trainer already has" or "You already have".
func NewConflict(b *models.Booking, lead string) *Conflict {
	return &Conflict{
		Booking: b,
		Message: fmt.Sprintf(
			"%s a session from %s to %s",
			lead,
			b.StartTime.Format("Jan 2 15:04"),
			b.EndTime.Format("15:04"),
		),
	}
}
