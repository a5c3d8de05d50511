package booking

import (
	"context"

	"github.com/skilloop/skilloop-api/internal/audit"
	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
	"github.com/skilloop/skilloop-api/internal/timezone"
)

// CompleteBooking is the admin path for closing out elapsed sessions.
type CompleteBooking struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewCompleteBooking(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CompleteBooking {
	return &CompleteBooking{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	adminID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	now := timezone.Now()
	if now.Before(b.EndTime) {
		return nil, httperr.ErrBusiness("session_not_over")
	}

	if err := domain.Complete(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	for _, userID := range []uint{b.StudentID, b.TrainerID} {
		_ = uc.notifier.Notify(ctx, userID, notification.TypeBookingCompleted, map[string]any{
			"booking_id": b.ID,
			"topic":      b.TrainingTopic,
		})
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
