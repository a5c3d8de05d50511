package booking

import (
	"context"
	"testing"
	"time"

	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
	"github.com/skilloop/skilloop-api/internal/notification"
	"github.com/skilloop/skilloop-api/internal/timezone"
)

// ======================================================
// STUBS
// ======================================================

type stubRepo struct {
	profile *models.TrainerProfile

	trainerConflict *models.Booking
	clientConflict  *models.Booking

	// excludeID as seen by the last conflict lookup
	lastExcludeID uint

	created *models.Booking
}

func (s *stubRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (s *stubRepo) GetTrainerProfile(ctx context.Context, userID uint) (*models.TrainerProfile, error) {
	if s.profile == nil {
		return nil, httperr.ErrBusiness("trainer_not_found")
	}
	return s.profile, nil
}

func (s *stubRepo) CreateBookingChecked(ctx context.Context, b *models.Booking) error {
	if s.trainerConflict != nil || s.clientConflict != nil {
		return httperr.ErrBusiness("time_conflict")
	}
	b.ID = 101
	s.created = b
	return nil
}

func (s *stubRepo) FindTrainerConflict(ctx context.Context, trainerID uint, start, end time.Time, excludeID uint) (*models.Booking, error) {
	s.lastExcludeID = excludeID
	if s.trainerConflict != nil && s.trainerConflict.ID == excludeID {
		return nil, nil
	}
	return s.trainerConflict, nil
}

func (s *stubRepo) FindClientConflict(ctx context.Context, clientID uint, start, end time.Time, excludeID uint) (*models.Booking, error) {
	s.lastExcludeID = excludeID
	if s.clientConflict != nil && s.clientConflict.ID == excludeID {
		return nil, nil
	}
	return s.clientConflict, nil
}

func (s *stubRepo) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	return nil, httperr.ErrBusiness("booking_not_found")
}

func (s *stubRepo) GetBookingForParty(ctx context.Context, bookingID, userID uint) (*models.Booking, error) {
	return nil, httperr.ErrBusiness("booking_not_found")
}

func (s *stubRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return nil
}

func (s *stubRepo) ListBookingsForTrainer(ctx context.Context, trainerID uint) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubRepo) ListBookingsForStudent(ctx context.Context, studentID uint) ([]models.Booking, error) {
	return nil, nil
}

var _ domain.Repository = (*stubRepo)(nil)

type stubNotifier struct {
	sent []struct {
		UserID uint
		Type   notification.Type
	}
}

func (s *stubNotifier) Notify(ctx context.Context, userID uint, typ notification.Type, data map[string]any) error {
	s.sent = append(s.sent, struct {
		UserID uint
		Type   notification.Type
	}{userID, typ})
	return nil
}

// ======================================================
// CREATE
// ======================================================

func validInput() CreateBookingInput {
	start := timezone.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return CreateBookingInput{
		StudentID:     2,
		TrainerID:     1,
		StartTime:     start,
		EndTime:       start.Add(2 * time.Hour),
		TrainingTopic: "Kubernetes Fundamentals",
	}
}

func TestCreateBooking(t *testing.T) {
	repo := &stubRepo{
		profile: &models.TrainerProfile{UserID: 1, Approved: true, HourlyRate: 1500},
	}
	notifier := &stubNotifier{}
	uc := NewCreateBooking(repo, notifier, nil)

	b, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if b.Status != "pending" || b.PaymentStatus != "none" {
		t.Fatalf("unexpected initial state: %s / %s", b.Status, b.PaymentStatus)
	}
	if b.DurationHours != 2 {
		t.Fatalf("duration = %v", b.DurationHours)
	}
	if b.TotalAmount != 3000 {
		t.Fatalf("total = %v", b.TotalAmount)
	}
	if b.Currency != "INR" {
		t.Fatalf("currency = %q", b.Currency)
	}

	if repo.created == nil {
		t.Fatalf("booking not persisted")
	}
	if len(notifier.sent) != 1 ||
		notifier.sent[0].UserID != 1 ||
		notifier.sent[0].Type != notification.TypeTrainingRequestCreated {
		t.Fatalf("trainer not notified: %+v", notifier.sent)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	conflict := &models.Booking{ID: 55, Status: "confirmed"}

	cases := []struct {
		name   string
		repo   *stubRepo
		mutate func(*CreateBookingInput)
		code   string
	}{
		{
			name:   "self booking",
			repo:   &stubRepo{profile: &models.TrainerProfile{Approved: true}},
			mutate: func(in *CreateBookingInput) { in.StudentID = in.TrainerID },
			code:   "cannot_book_self",
		},
		{
			name: "start in the past",
			repo: &stubRepo{profile: &models.TrainerProfile{Approved: true}},
			mutate: func(in *CreateBookingInput) {
				in.StartTime = timezone.Now().Add(-time.Hour)
				in.EndTime = in.StartTime.Add(time.Hour)
			},
			code: "starts_in_past",
		},
		{
			name: "unknown trainer",
			repo: &stubRepo{},
			code: "trainer_not_found",
		},
		{
			name: "trainer awaiting approval",
			repo: &stubRepo{profile: &models.TrainerProfile{Approved: false}},
			code: "trainer_not_approved",
		},
		{
			name: "trainer calendar taken",
			repo: &stubRepo{
				profile:         &models.TrainerProfile{Approved: true},
				trainerConflict: conflict,
			},
			code: "time_conflict",
		},
		{
			name: "own calendar taken",
			repo: &stubRepo{
				profile:        &models.TrainerProfile{Approved: true},
				clientConflict: conflict,
			},
			code: "time_conflict",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			if tc.mutate != nil {
				tc.mutate(&in)
			}

			uc := NewCreateBooking(tc.repo, &stubNotifier{}, nil)
			_, err := uc.Execute(context.Background(), in)
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected %q, got %v", tc.code, err)
			}
			if tc.repo.created != nil {
				t.Fatalf("booking must not be persisted on %s", tc.name)
			}
		})
	}
}

// ======================================================
// CHECK CONFLICTS
// ======================================================

func TestCheckConflictsOrderAndMessages(t *testing.T) {
	when := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	blocking := &models.Booking{
		ID:        7,
		StartTime: when,
		EndTime:   when.Add(time.Hour),
	}

	in := CheckConflictsInput{
		TrainerID: 1,
		ClientID:  2,
		StartTime: when,
		EndTime:   when.Add(time.Hour),
	}

	t.Run("trainer checked first", func(t *testing.T) {
		repo := &stubRepo{trainerConflict: blocking, clientConflict: blocking}
		c, err := NewCheckConflicts(repo).Execute(context.Background(), in)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if c == nil || c.Message != "The trainer already has a session from Apr 1 10:00 to 11:00" {
			t.Fatalf("conflict = %+v", c)
		}
	})

	t.Run("client calendar second", func(t *testing.T) {
		repo := &stubRepo{clientConflict: blocking}
		c, err := NewCheckConflicts(repo).Execute(context.Background(), in)
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if c == nil || c.Message != "You already have a session from Apr 1 10:00 to 11:00" {
			t.Fatalf("conflict = %+v", c)
		}
	})

	t.Run("free slot", func(t *testing.T) {
		repo := &stubRepo{}
		c, err := NewCheckConflicts(repo).Execute(context.Background(), in)
		if err != nil || c != nil {
			t.Fatalf("expected no conflict, got %+v / %v", c, err)
		}
	})

	t.Run("exclusion skips own booking", func(t *testing.T) {
		repo := &stubRepo{trainerConflict: blocking}
		withExclude := in
		withExclude.ExcludeBookingID = blocking.ID

		c, err := NewCheckConflicts(repo).Execute(context.Background(), withExclude)
		if err != nil || c != nil {
			t.Fatalf("expected no conflict, got %+v / %v", c, err)
		}
		if repo.lastExcludeID != blocking.ID {
			t.Fatalf("exclude id not forwarded: %d", repo.lastExcludeID)
		}
	})
}
