package agreement

import (
	"context"

	"github.com/skilloop/skilloop-api/internal/models"
)

type Repository interface {
	GetAgreementByID(
		ctx context.Context,
		id uint,
	) (*models.Agreement, error)

	GetAgreementByBooking(
		ctx context.Context,
		bookingID uint,
	) (*models.Agreement, error)

	// CreateAgreementLinked inserts the agreement and sets
	// booking.agreement_id in one transaction.
	CreateAgreementLinked(
		ctx context.Context,
		ag *models.Agreement,
		b *models.Booking,
	) error

	// SaveAgreementAndBooking persists a signature outcome and the booking
	// state flip it triggers, plus any notifications, atomically.
	SaveAgreementAndBooking(
		ctx context.Context,
		ag *models.Agreement,
		b *models.Booking,
		notifications []models.Notification,
	) error
}
