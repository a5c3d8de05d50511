package agreement

import (
	"fmt"
	"time"

	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
)

// ===============================
// Signature state machine
// ===============================

type SignatureStatus string

const (
	SignaturePending  SignatureStatus = "pending"
	SignatureAccepted SignatureStatus = "accepted"
	SignatureRejected SignatureStatus = "rejected"
)

type Party string

const (
	PartyClient  Party = "client"
	PartyTrainer Party = "trainer"
)

type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Outcome of applying a signature to an agreement.
type Outcome struct {
	Completed bool
	Rejected  bool
}

// Apply records one party's sign-off. Completed agreements are immutable,
// and a party cannot overwrite its own earlier decision.
func Apply(ag *models.Agreement, party Party, action Action, now time.Time) (Outcome, error) {
	if ag.CompletedAt != nil {
		return Outcome{}, httperr.ErrBusiness("agreement_completed")
	}
	if current(ag, party) != SignaturePending {
		return Outcome{}, httperr.ErrBusiness("already_signed")
	}

	switch action {
	case ActionReject:
		set(ag, party, SignatureRejected, nil)
		return Outcome{Rejected: true}, nil

	case ActionAccept:
		set(ag, party, SignatureAccepted, &now)

		if ag.ClientSignatureStatus == string(SignatureAccepted) &&
			ag.TrainerSignatureStatus == string(SignatureAccepted) {
			ag.CompletedAt = &now
			return Outcome{Completed: true}, nil
		}
		return Outcome{}, nil

	default:
		return Outcome{}, httperr.ErrBusiness("invalid_action")
	}
}

func current(ag *models.Agreement, party Party) SignatureStatus {
	if party == PartyTrainer {
		return SignatureStatus(ag.TrainerSignatureStatus)
	}
	return SignatureStatus(ag.ClientSignatureStatus)
}

func set(ag *models.Agreement, party Party, s SignatureStatus, at *time.Time) {
	if party == PartyTrainer {
		ag.TrainerSignatureStatus = string(s)
		ag.TrainerAgreedAt = at
		return
	}
	ag.ClientSignatureStatus = string(s)
	ag.ClientAgreedAt = at
}

// PartyFor maps a user to its side of the booking.
func PartyFor(b *models.Booking, userID uint) (Party, error) {
	switch userID {
	case b.TrainerID:
		return PartyTrainer, nil
	case b.StudentID:
		return PartyClient, nil
	default:
		return "", httperr.ErrBusiness("not_a_party")
	}
}

// BuildTerms generates the agreement text stored alongside the booking.
func BuildTerms(b *models.Booking, hourlyRate float64) string {
	return fmt.Sprintf(
		"Training session on %q from %s to %s (%.2f hours). "+
			"Hourly rate: %.2f %s. Total: %.2f %s. "+
			"The session is confirmed once both parties accept and payment is captured. "+
			"Either party may reject this agreement before completion, which cancels the booking.",
		b.TrainingTopic,
		b.StartTime.Format(time.RFC1123),
		b.EndTime.Format(time.RFC1123),
		b.DurationHours,
		hourlyRate, b.Currency,
		b.TotalAmount, b.Currency,
	)
}
