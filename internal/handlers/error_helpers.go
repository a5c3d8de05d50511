package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skilloop/skilloop-api/internal/httperr"
)

// businessMessage maps a business error code to its user-facing message.
// Exhaustive on purpose: new codes get a message here or fall through to
// the generic line.
func businessMessage(code string) string {
	switch code {
	case "starts_in_past":
		return "The session must start in the future."
	case "invalid_range":
		return "The session must end after it starts."
	case "too_short":
		return "Sessions must be at least 15 minutes long."
	case "too_long":
		return "Sessions cannot be longer than 24 hours."
	case "time_conflict":
		return "That time slot conflicts with an existing booking."
	case "cannot_book_self":
		return "You cannot book a session with yourself."
	case "trainer_not_found":
		return "Trainer not found."
	case "trainer_not_approved":
		return "This trainer is not accepting bookings yet."
	case "booking_not_found":
		return "Booking not found."
	case "invalid_state":
		return "The booking is not in a state that allows this."
	case "session_not_over":
		return "The session has not ended yet."
	case "agreement_exists":
		return "An agreement already exists for this booking."
	case "agreement_not_found":
		return "Agreement not found."
	case "agreement_completed":
		return "The agreement is already completed."
	case "already_signed":
		return "You have already signed this agreement."
	case "invalid_action":
		return "Sign action must be accept or reject."
	case "not_a_party":
		return "You are not a party to this booking."
	case "missing_credentials":
		return "Payment provider credentials are not configured."
	case "provider_error":
		return "The payment provider rejected the request."
	case "missing_approval_link":
		return "The payment provider did not return an approval link."
	case "transaction_not_found":
		return "No matching payment transaction was found."
	case "invalid_transaction_id":
		return "The transaction id is not valid."
	case "unsupported_currency":
		return "That currency is not supported."
	case "missing_phone":
		return "A phone number is required."
	case "code_expired":
		return "The code has expired. Request a new one."
	case "invalid_code":
		return "The code is incorrect."
	case "sms_send_failed":
		return "Could not send the SMS. Try again."
	case "invalid_image":
		return "The file is not a valid image."
	default:
		return "The request could not be processed."
	}
}

// writeError turns a use-case error into the uniform error envelope:
// business codes become 400s, everything else a 500.
func writeError(c *gin.Context, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		httperr.BadRequest(c, code, businessMessage(code))
		return
	}
	httperr.Internal(c, "internal_error", "Something went wrong.")
}
