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

type CancelBooking struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	userID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingForParty(ctx, bookingID, userID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	now := timezone.Now()
	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	// Tell the other side.
	other := b.TrainerID
	if userID == b.TrainerID {
		other = b.StudentID
	}
	_ = uc.notifier.Notify(ctx, other, notification.TypeBookingCancelled, map[string]any{
		"booking_id": b.ID,
		"topic":      b.TrainingTopic,
	})

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
