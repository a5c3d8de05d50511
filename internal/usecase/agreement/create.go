package agreement

import (
	"context"

	"github.com/skilloop/skilloop-api/internal/audit"
	domain "github.com/skilloop/skilloop-api/internal/domain/agreement"
	bookingdomain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/timezone"
)

// ======================================================
// CREATE AGREEMENT FOR BOOKING
// ======================================================

type CreateAgreement struct {
	agreements domain.Repository
	bookings   bookingdomain.Repository
	audit      *audit.Dispatcher
}

func NewCreateAgreement(
	agreements domain.Repository,
	bookings bookingdomain.Repository,
	audit *audit.Dispatcher,
) *CreateAgreement {
	return &CreateAgreement{
		agreements: agreements,
		bookings:   bookings,
		audit:      audit,
	}
}

func (uc *CreateAgreement) Execute(
	ctx context.Context,
	userID uint,
	bookingID uint,
) (*models.Agreement, error) {

	b, err := uc.bookings.GetBookingForParty(ctx, bookingID, userID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if bookingdomain.Status(b.Status) != bookingdomain.StatusPending {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	if b.AgreementID != nil {
		return nil, httperr.ErrBusiness("agreement_exists")
	}

	party, err := domain.PartyFor(b, userID)
	if err != nil {
		return nil, err
	}

	hourlyRate := 0.0
	if b.DurationHours > 0 {
		hourlyRate = b.TotalAmount / b.DurationHours
	}

	now := timezone.Now()

	ag := &models.Agreement{
		BookingID:              b.ID,
		HourlyRate:             hourlyRate,
		TotalCost:              b.TotalAmount,
		AgreementTerms:         domain.BuildTerms(b, hourlyRate),
		ClientSignatureStatus:  string(domain.SignaturePending),
		TrainerSignatureStatus: string(domain.SignaturePending),
	}

	// The initiating party signs by creating.
	if _, err := domain.Apply(ag, party, domain.ActionAccept, now); err != nil {
		return nil, err
	}

	if err := uc.agreements.CreateAgreementLinked(ctx, ag, b); err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrBusiness("agreement_exists")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "agreement_created",
		Entity:   "agreement",
		EntityID: &ag.ID,
	})

	return ag, nil
}
