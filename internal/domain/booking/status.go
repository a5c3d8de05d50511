package booking

import "github.com/skilloop/skilloop-api/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentNone      PaymentStatus = "none"
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
)

// ===============================
// Validations
// ===============================

// CanCancel defines whether a booking can still be called off.
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanConfirm defines whether a booking may go (or stay) live. Confirmed is
// admitted because payment capture and agreement completion can settle in
// either order; cancelled and completed bookings never come back.
func CanConfirm(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete defines whether a booking can be closed out.
func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}

// Blocking returns true for statuses that occupy the time slot.
func Blocking(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}
