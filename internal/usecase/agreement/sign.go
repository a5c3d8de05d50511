package agreement

import (
	"context"

	"github.com/skilloop/skilloop-api/internal/audit"
	domain "github.com/skilloop/skilloop-api/internal/domain/agreement"
	bookingdomain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
	"github.com/skilloop/skilloop-api/internal/timezone"
)

// RealtimePublisher pings realtime channels for rows committed elsewhere.
type RealtimePublisher interface {
	PublishCreated(ctx context.Context, rows []models.Notification)
}

// ======================================================
// SIGN AGREEMENT
// ======================================================

type SignInput struct {
	AgreementID uint
	UserID      uint
	Action      domain.Action
}

type SignResult struct {
	Agreement *models.Agreement
	Booking   *models.Booking
	Completed bool
	Rejected  bool
}

type SignAgreement struct {
	agreements domain.Repository
	bookings   bookingdomain.Repository
	realtime   RealtimePublisher
	audit      *audit.Dispatcher
}

func NewSignAgreement(
	agreements domain.Repository,
	bookings bookingdomain.Repository,
	realtime RealtimePublisher,
	audit *audit.Dispatcher,
) *SignAgreement {
	return &SignAgreement{
		agreements: agreements,
		bookings:   bookings,
		realtime:   realtime,
		audit:      audit,
	}
}

func (uc *SignAgreement) Execute(
	ctx context.Context,
	in SignInput,
) (*SignResult, error) {

	ag, err := uc.agreements.GetAgreementByID(ctx, in.AgreementID)
	if err != nil {
		return nil, httperr.ErrBusiness("agreement_not_found")
	}

	b, err := uc.bookings.GetBookingForParty(ctx, ag.BookingID, in.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_a_party")
	}

	party, err := domain.PartyFor(b, in.UserID)
	if err != nil {
		return nil, err
	}

	now := timezone.Now()
	outcome, err := domain.Apply(ag, party, in.Action, now)
	if err != nil {
		return nil, err
	}

	// Signature, booking flip and notification rows land in one
	// transaction so a half-signed state can't leak.
	var rows []models.Notification

	switch {
	case outcome.Rejected:
		if err := bookingdomain.Cancel(b, now); err != nil {
			return nil, err
		}
		other := otherParty(b, in.UserID)
		n, err := notification.Build(other, notification.TypeBookingCancelled, map[string]any{
			"booking_id": b.ID,
			"topic":      b.TrainingTopic,
			"reason":     "agreement_rejected",
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, *n)

	case outcome.Completed:
		if err := bookingdomain.Confirm(b); err != nil {
			return nil, err
		}
		for _, userID := range []uint{b.StudentID, b.TrainerID} {
			n, err := notification.Build(userID, notification.TypeBookingConfirmed, map[string]any{
				"booking_id": b.ID,
				"topic":      b.TrainingTopic,
			})
			if err != nil {
				return nil, err
			}
			rows = append(rows, *n)
		}
	}

	if err := uc.agreements.SaveAgreementAndBooking(ctx, ag, b, rows); err != nil {
		return nil, err
	}

	uc.realtime.PublishCreated(ctx, rows)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "agreement_signed",
		Entity:   "agreement",
		EntityID: &ag.ID,
		Metadata: map[string]any{"action": string(in.Action)},
	})

	return &SignResult{
		Agreement: ag,
		Booking:   b,
		Completed: outcome.Completed,
		Rejected:  outcome.Rejected,
	}, nil
}

func otherParty(b *models.Booking, userID uint) uint {
	if userID == b.TrainerID {
		return b.StudentID
	}
	return b.TrainerID
}
