package booking

import (
	"context"
	"time"

	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
)

// ======================================================
// CHECK CONFLICTS (read-only pre-check used by the UI)
// ======================================================

type CheckConflictsInput struct {
	TrainerID uint
	ClientID  uint

	StartTime time.Time
	EndTime   time.Time

	// ExcludeBookingID keeps a booking from colliding with itself when the
	// client re-validates an edit. Zero means no exclusion.
	ExcludeBookingID uint
}

type CheckConflicts struct {
	repo domain.Repository
}

func NewCheckConflicts(repo domain.Repository) *CheckConflicts {
	return &CheckConflicts{repo: repo}
}

// Execute returns nil when both calendars are free. The trainer's calendar
// is checked first, then the client's own.
func (uc *CheckConflicts) Execute(
	ctx context.Context,
	in CheckConflictsInput,
) (*domain.Conflict, error) {

	existing, err := uc.repo.FindTrainerConflict(
		ctx, in.TrainerID, in.StartTime, in.EndTime, in.ExcludeBookingID,
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return domain.NewConflict(existing, "The trainer already has"), nil
	}

	existing, err = uc.repo.FindClientConflict(
		ctx, in.ClientID, in.StartTime, in.EndTime, in.ExcludeBookingID,
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return domain.NewConflict(existing, "You already have"), nil
	}

	return nil, nil
}
