package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	agreementdomain "github.com/skilloop/skilloop-api/internal/domain/agreement"
	domain "github.com/skilloop/skilloop-api/internal/domain/booking"
	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *BookingGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BookingGormRepository) GetTrainerProfile(
	ctx context.Context,
	userID uint,
) (*models.TrainerProfile, error) {

	var profile models.TrainerProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) findConflict(
	tx *gorm.DB,
	column string,
	partyID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
	lock bool,
) (*models.Booking, error) {

	q := tx.
		Where(
			column+" = ? AND status IN ('pending','confirmed') AND start_time < ? AND end_time > ?",
			partyID,
			end,
			start,
		).
		Order("start_time ASC")

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var conflicts []models.Booking
	if err := q.Limit(1).Find(&conflicts).Error; err != nil {
		return nil, err
	}
	if len(conflicts) == 0 {
		return nil, nil
	}
	return &conflicts[0], nil
}

func (r *BookingGormRepository) FindTrainerConflict(
	ctx context.Context,
	trainerID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (*models.Booking, error) {
	return r.findConflict(r.db.WithContext(ctx), "trainer_id", trainerID, start, end, excludeID, false)
}

func (r *BookingGormRepository) FindClientConflict(
	ctx context.Context,
	clientID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (*models.Booking, error) {
	return r.findConflict(r.db.WithContext(ctx), "student_id", clientID, start, end, excludeID, false)
}

func (r *BookingGormRepository) CreateBookingChecked(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// Re-check both calendars with the conflicting rows locked, so two
		// concurrent requests for the same slot serialize here instead of
		// both passing the read-only pre-check.
		conflict, err := r.findConflict(tx, "trainer_id", b.TrainerID, b.StartTime, b.EndTime, 0, true)
		if err != nil {
			return err
		}
		if conflict != nil {
			return httperr.ErrBusiness("time_conflict")
		}

		conflict, err = r.findConflict(tx, "student_id", b.StudentID, b.StartTime, b.EndTime, 0, true)
		if err != nil {
			return err
		}
		if conflict != nil {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(b).Error
	})
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForParty(
	ctx context.Context,
	bookingID uint,
	userID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND (trainer_id = ? OR student_id = ?)", bookingID, userID, userID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) listBookings(
	ctx context.Context,
	column string,
	partyID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Trainer").
		Preload("Student").
		Where(column+" = ?", partyID).
		Order("start_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForTrainer(
	ctx context.Context,
	trainerID uint,
) ([]models.Booking, error) {
	return r.listBookings(ctx, "trainer_id", trainerID)
}

func (r *BookingGormRepository) ListBookingsForStudent(
	ctx context.Context,
	studentID uint,
) ([]models.Booking, error) {
	return r.listBookings(ctx, "student_id", studentID)
}

// --------------------------------------------------
// Agreement
// --------------------------------------------------

func (r *BookingGormRepository) GetAgreementByID(
	ctx context.Context,
	id uint,
) (*models.Agreement, error) {

	var ag models.Agreement
	if err := r.db.WithContext(ctx).First(&ag, id).Error; err != nil {
		return nil, err
	}
	return &ag, nil
}

func (r *BookingGormRepository) GetAgreementByBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Agreement, error) {

	var ag models.Agreement
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		First(&ag).Error; err != nil {
		return nil, err
	}
	return &ag, nil
}

func (r *BookingGormRepository) CreateAgreementLinked(
	ctx context.Context,
	ag *models.Agreement,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ag).Error; err != nil {
			return err
		}

		b.AgreementID = &ag.ID
		return tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Update("agreement_id", ag.ID).Error
	})
}

func (r *BookingGormRepository) SaveAgreementAndBooking(
	ctx context.Context,
	ag *models.Agreement,
	b *models.Booking,
	notifications []models.Notification,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ag).Error; err != nil {
			return err
		}
		if err := tx.Save(b).Error; err != nil {
			return err
		}
		for i := range notifications {
			if err := tx.Create(&notifications[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Compile-time checks
var _ domain.Repository = (*BookingGormRepository)(nil)
var _ agreementdomain.Repository = (*BookingGormRepository)(nil)
