package booking

import (
	"context"
	"time"

	"github.com/skilloop/skilloop-api/internal/models"
)

type Repository interface {
	// -------- Users --------
	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetTrainerProfile(
		ctx context.Context,
		userID uint,
	) (*models.TrainerProfile, error)

	// -------- Booking (create / conflict) --------

	// CreateBookingChecked re-runs both overlap checks under row locks and
	// inserts in the same transaction. Returns ErrBusiness("time_conflict")
	// when the slot is taken.
	CreateBookingChecked(
		ctx context.Context,
		b *models.Booking,
	) error

	// FindTrainerConflict returns the first blocking booking of the trainer
	// overlapping [start, end), or nil. excludeID skips one booking id.
	FindTrainerConflict(
		ctx context.Context,
		trainerID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (*models.Booking, error)

	// FindClientConflict is the same test on the client's own calendar.
	FindClientConflict(
		ctx context.Context,
		clientID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) (*models.Booking, error)

	// -------- Booking (state change) --------
	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingForParty(
		ctx context.Context,
		bookingID uint,
		userID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Listing --------
	ListBookingsForTrainer(
		ctx context.Context,
		trainerID uint,
	) ([]models.Booking, error)

	ListBookingsForStudent(
		ctx context.Context,
		studentID uint,
	) ([]models.Booking, error)
}
