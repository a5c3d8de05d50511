package booking

import (
	"context"
	"time"

	"github.com/skilloop/skilloop-api/internal/audit"
	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
	"github.com/skilloop/skilloop-api/internal/timezone"
)

// Notifier is the slice of the notification service the use cases need.
type Notifier interface {
	Notify(ctx context.Context, userID uint, typ notification.Type, data map[string]any) error
}

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	StudentID uint
	TrainerID uint

	StartTime time.Time
	EndTime   time.Time

	TrainingTopic string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if in.TrainerID == in.StudentID {
		return nil, httperr.ErrBusiness("cannot_book_self")
	}

	now := timezone.Now()
	if err := domain.ValidateTimeRange(now, in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	profile, err := uc.repo.GetTrainerProfile(ctx, in.TrainerID)
	if err != nil {
		return nil, httperr.ErrBusiness("trainer_not_found")
	}
	if !profile.Approved {
		return nil, httperr.ErrBusiness("trainer_not_approved")
	}

	// Read-only pre-check on both calendars; the transactional insert below
	// repeats it under locks and stays authoritative.
	if conflict, err := uc.repo.FindTrainerConflict(
		ctx, in.TrainerID, in.StartTime, in.EndTime, 0,
	); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, httperr.ErrBusiness("time_conflict")
	}

	if conflict, err := uc.repo.FindClientConflict(
		ctx, in.StudentID, in.StartTime, in.EndTime, 0,
	); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, httperr.ErrBusiness("time_conflict")
	}

	durationHours := in.EndTime.Sub(in.StartTime).Hours()

	b := &models.Booking{
		TrainerID:     in.TrainerID,
		StudentID:     in.StudentID,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		DurationHours: durationHours,
		TrainingTopic: in.TrainingTopic,
		TotalAmount:   profile.HourlyRate * durationHours,
		Currency:      "INR",
		Status:        string(domain.InitialStatus()),
		PaymentStatus: string(domain.PaymentNone),
	}

	if err := uc.repo.CreateBookingChecked(ctx, b); err != nil {
		return nil, err
	}

	_ = uc.notifier.Notify(ctx, b.TrainerID, notification.TypeTrainingRequestCreated, map[string]any{
		"booking_id": b.ID,
		"topic":      b.TrainingTopic,
	})

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.StudentID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
