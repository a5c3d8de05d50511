package agreement

import (
	"context"
	"testing"
	"time"

	domain "github.com/skilloop/skilloop-api/internal/domain/agreement"
	bookingdomain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
)

// ======================================================
// STUBS
// ======================================================

type stubAgreements struct {
	agreement *models.Agreement

	savedAgreement *models.Agreement
	savedBooking   *models.Booking
	savedRows      []models.Notification
}

func (s *stubAgreements) GetAgreementByID(ctx context.Context, id uint) (*models.Agreement, error) {
	if s.agreement == nil || s.agreement.ID != id {
		return nil, httperr.ErrBusiness("agreement_not_found")
	}
	return s.agreement, nil
}

func (s *stubAgreements) GetAgreementByBooking(ctx context.Context, bookingID uint) (*models.Agreement, error) {
	if s.agreement == nil || s.agreement.BookingID != bookingID {
		return nil, httperr.ErrBusiness("agreement_not_found")
	}
	return s.agreement, nil
}

func (s *stubAgreements) CreateAgreementLinked(ctx context.Context, ag *models.Agreement, b *models.Booking) error {
	ag.ID = 1
	s.agreement = ag
	return nil
}

func (s *stubAgreements) SaveAgreementAndBooking(ctx context.Context, ag *models.Agreement, b *models.Booking, rows []models.Notification) error {
	s.savedAgreement = ag
	s.savedBooking = b
	s.savedRows = rows
	return nil
}

var _ domain.Repository = (*stubAgreements)(nil)

type stubBookings struct {
	booking *models.Booking
}

func (s *stubBookings) GetBookingForParty(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	if s.booking == nil || s.booking.ID != bookingID {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if userID != s.booking.TrainerID && userID != s.booking.StudentID {
		return nil, httperr.ErrBusiness("not_a_party")
	}
	return s.booking, nil
}

func (s *stubBookings) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return nil, httperr.ErrBusiness("user_not_found")
}

func (s *stubBookings) GetTrainerProfile(ctx context.Context, userID uint) (*models.TrainerProfile, error) {
	return nil, httperr.ErrBusiness("trainer_not_found")
}

func (s *stubBookings) CreateBookingChecked(ctx context.Context, b *models.Booking) error {
	return nil
}

func (s *stubBookings) FindTrainerConflict(ctx context.Context, trainerID uint, start, end time.Time, excludeID uint) (*models.Booking, error) {
	return nil, nil
}

func (s *stubBookings) FindClientConflict(ctx context.Context, clientID uint, start, end time.Time, excludeID uint) (*models.Booking, error) {
	return nil, nil
}

func (s *stubBookings) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	return s.booking, nil
}

func (s *stubBookings) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return nil
}

func (s *stubBookings) ListBookingsForTrainer(ctx context.Context, trainerID uint) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubBookings) ListBookingsForStudent(ctx context.Context, studentID uint) ([]models.Booking, error) {
	return nil, nil
}

var _ bookingdomain.Repository = (*stubBookings)(nil)

type stubRealtime struct {
	published [][]models.Notification
}

func (s *stubRealtime) PublishCreated(ctx context.Context, rows []models.Notification) {
	s.published = append(s.published, rows)
}

// ======================================================
// FIXTURES
// ======================================================

const (
	trainerID = uint(1)
	studentID = uint(2)
)

var signedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixture() (*stubAgreements, *stubBookings, *stubRealtime, *SignAgreement) {
	booking := &models.Booking{
		ID:            10,
		TrainerID:     trainerID,
		StudentID:     studentID,
		Status:        "pending",
		TrainingTopic: "Go Concurrency",
	}
	ag := &models.Agreement{
		ID:                     1,
		BookingID:              booking.ID,
		ClientSignatureStatus:  string(domain.SignaturePending),
		TrainerSignatureStatus: string(domain.SignaturePending),
	}

	agreements := &stubAgreements{agreement: ag}
	bookings := &stubBookings{booking: booking}
	realtime := &stubRealtime{}
	uc := NewSignAgreement(agreements, bookings, realtime, nil)

	return agreements, bookings, realtime, uc
}

func sign(t *testing.T, uc *SignAgreement, userID uint, action domain.Action) *SignResult {
	t.Helper()
	res, err := uc.Execute(context.Background(), SignInput{
		AgreementID: 1,
		UserID:      userID,
		Action:      action,
	})
	if err != nil {
		t.Fatalf("sign as %d: %v", userID, err)
	}
	return res
}

// ======================================================
// TESTS
// ======================================================

func TestSignCompletesAfterBothAccept(t *testing.T) {
	agreements, bookings, realtime, uc := fixture()

	res := sign(t, uc, studentID, domain.ActionAccept)
	if res.Completed || res.Rejected {
		t.Fatalf("first signature must not settle: %+v", res)
	}
	if bookings.booking.Status != "pending" {
		t.Fatalf("booking flipped early: %s", bookings.booking.Status)
	}
	if len(agreements.savedRows) != 0 {
		t.Fatalf("no notifications expected yet: %+v", agreements.savedRows)
	}

	res = sign(t, uc, trainerID, domain.ActionAccept)
	if !res.Completed {
		t.Fatalf("both accepted, expected completion")
	}
	if res.Booking.Status != "confirmed" {
		t.Fatalf("booking status = %q", res.Booking.Status)
	}
	if agreements.savedAgreement.CompletedAt == nil {
		t.Fatalf("completed_at not persisted")
	}

	if len(agreements.savedRows) != 2 {
		t.Fatalf("expected confirmations for both parties, got %d", len(agreements.savedRows))
	}
	for _, row := range agreements.savedRows {
		if row.Type != string(notification.TypeBookingConfirmed) {
			t.Fatalf("row type = %q", row.Type)
		}
	}

	last := realtime.published[len(realtime.published)-1]
	if len(last) != 2 {
		t.Fatalf("realtime publish after commit missing: %+v", realtime.published)
	}
}

func TestSignRejectCancelsBooking(t *testing.T) {
	agreements, bookings, _, uc := fixture()

	sign(t, uc, studentID, domain.ActionAccept)
	res := sign(t, uc, trainerID, domain.ActionReject)

	if !res.Rejected || res.Completed {
		t.Fatalf("expected rejection: %+v", res)
	}
	if bookings.booking.Status != "cancelled" {
		t.Fatalf("booking status = %q", bookings.booking.Status)
	}
	if bookings.booking.CancelledAt == nil {
		t.Fatalf("cancelled_at not set")
	}

	if len(agreements.savedRows) != 1 {
		t.Fatalf("expected one cancellation row, got %d", len(agreements.savedRows))
	}
	row := agreements.savedRows[0]
	if row.UserID != studentID {
		t.Fatalf("cancellation should go to the other party, got %d", row.UserID)
	}
	if row.Type != string(notification.TypeBookingCancelled) {
		t.Fatalf("row type = %q", row.Type)
	}
}

func TestSignCompletionCannotResurrectCancelledBooking(t *testing.T) {
	agreements, bookings, realtime, uc := fixture()

	sign(t, uc, studentID, domain.ActionAccept)

	// The booking gets called off while the trainer's accept is in flight.
	now := signedAt
	bookings.booking.Status = "cancelled"
	bookings.booking.CancelledAt = &now

	agreements.savedAgreement = nil
	agreements.savedBooking = nil
	realtime.published = nil

	_, err := uc.Execute(context.Background(), SignInput{
		AgreementID: 1,
		UserID:      trainerID,
		Action:      domain.ActionAccept,
	})
	if !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}

	if bookings.booking.Status != "cancelled" {
		t.Fatalf("booking status = %q, cancelled booking must stay cancelled", bookings.booking.Status)
	}
	if agreements.savedAgreement != nil || agreements.savedBooking != nil {
		t.Fatalf("nothing may be persisted when the flip is refused")
	}
	if len(realtime.published) != 0 {
		t.Fatalf("no realtime events expected: %+v", realtime.published)
	}
}

func TestSignGuards(t *testing.T) {
	t.Run("stranger", func(t *testing.T) {
		_, _, _, uc := fixture()
		_, err := uc.Execute(context.Background(), SignInput{
			AgreementID: 1,
			UserID:      99,
			Action:      domain.ActionAccept,
		})
		if !httperr.IsBusiness(err, "not_a_party") {
			t.Fatalf("expected not_a_party, got %v", err)
		}
	})

	t.Run("double sign", func(t *testing.T) {
		_, _, _, uc := fixture()
		sign(t, uc, studentID, domain.ActionAccept)

		_, err := uc.Execute(context.Background(), SignInput{
			AgreementID: 1,
			UserID:      studentID,
			Action:      domain.ActionAccept,
		})
		if !httperr.IsBusiness(err, "already_signed") {
			t.Fatalf("expected already_signed, got %v", err)
		}
	})

	t.Run("completed is immutable", func(t *testing.T) {
		_, _, _, uc := fixture()
		sign(t, uc, studentID, domain.ActionAccept)
		sign(t, uc, trainerID, domain.ActionAccept)

		_, err := uc.Execute(context.Background(), SignInput{
			AgreementID: 1,
			UserID:      trainerID,
			Action:      domain.ActionReject,
		})
		if !httperr.IsBusiness(err, "agreement_completed") {
			t.Fatalf("expected agreement_completed, got %v", err)
		}
	})

	t.Run("unknown agreement", func(t *testing.T) {
		_, _, _, uc := fixture()
		_, err := uc.Execute(context.Background(), SignInput{
			AgreementID: 404,
			UserID:      studentID,
			Action:      domain.ActionAccept,
		})
		if !httperr.IsBusiness(err, "agreement_not_found") {
			t.Fatalf("expected agreement_not_found, got %v", err)
		}
	})
}
