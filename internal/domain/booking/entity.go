package booking

import (
	"time"

	"github.com/skilloop/skilloop-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

// Confirm flips a pending booking live once both parties signed.
func Confirm(b *models.Booking) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	return nil
}

// ConfirmPayment records a successful capture and flips the booking live.
func ConfirmPayment(b *models.Booking, captureID string, now time.Time) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.PaymentStatus = string(PaymentConfirmed)
	b.Status = string(StatusConfirmed)
	b.PaymentTransactionID = captureID
	b.PaymentConfirmedAt = &now
	return nil
}

// FailPayment leaves the booking pending so the payer can retry by hand.
func FailPayment(b *models.Booking) {
	b.PaymentStatus = string(PaymentFailed)
}
