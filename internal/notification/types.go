package notification

import (
	"fmt"

	"github.com/skilloop/skilloop-api/internal/httperr"
)

// Closed set of notification types. Compose switches over every member, so
// adding a type without wiring its copy fails loudly instead of rendering
// an empty card.
type Type string

const (
	TypeBookingConfirmed               Type = "booking_confirmed"
	TypeBookingCancelled               Type = "booking_cancelled"
	TypeBookingCompleted               Type = "booking_completed"
	TypeTrainingRequestCreated         Type = "training_request_created"
	TypeTrainingApplicationReceived    Type = "training_application_received"
	TypeTrainingApplicationAccepted    Type = "training_application_accepted"
	TypeTrainingApplicationRejected    Type = "training_application_rejected"
	TypeTrainerApproved                Type = "trainer_approved"
	TypeTrainerRejected                Type = "trainer_rejected"
	TypePaymentReceived                Type = "payment_received"
	TypeReviewReceived                 Type = "review_received"
	TypeSystemAnnouncement             Type = "system_announcement"
)

// Compose renders the user-facing title and message for a notification type.
// data is the same opaque payload stored on the row.
func Compose(typ Type, data map[string]any) (title, message string, err error) {
	topic, _ := data["topic"].(string)

	switch typ {
	case TypeBookingConfirmed:
		return "Booking confirmed",
			fmt.Sprintf("Your session %q is confirmed.", topic), nil
	case TypeBookingCancelled:
		return "Booking cancelled",
			fmt.Sprintf("The session %q was cancelled.", topic), nil
	case TypeBookingCompleted:
		return "Session completed",
			fmt.Sprintf("The session %q has been marked completed.", topic), nil
	case TypeTrainingRequestCreated:
		return "New training request",
			fmt.Sprintf("A client requested training on %q.", topic), nil
	case TypeTrainingApplicationReceived:
		return "New application",
			fmt.Sprintf("A trainer applied to your request %q.", topic), nil
	case TypeTrainingApplicationAccepted:
		return "Application accepted",
			fmt.Sprintf("Your application for %q was accepted.", topic), nil
	case TypeTrainingApplicationRejected:
		return "Application rejected",
			fmt.Sprintf("Your application for %q was not selected.", topic), nil
	case TypeTrainerApproved:
		return "Trainer profile approved",
			"Your trainer profile has been approved. You are now visible to clients.", nil
	case TypeTrainerRejected:
		return "Trainer profile rejected",
			"Your trainer profile was not approved. Please review your details and resubmit.", nil
	case TypePaymentReceived:
		amount, _ := data["amount"].(float64)
		return "Payment received",
			fmt.Sprintf("Payment of %.2f received for %q.", amount, topic), nil
	case TypeReviewReceived:
		return "New review",
			"You received a new review.", nil
	case TypeSystemAnnouncement:
		msg, _ := data["message"].(string)
		return "Announcement", msg, nil
	default:
		return "", "", httperr.ErrBusiness("unknown_notification_type")
	}
}
