package agreement

import (
	"testing"
	"time"

	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
)

var signedAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func pendingAgreement() *models.Agreement {
	return &models.Agreement{
		ClientSignatureStatus:  string(SignaturePending),
		TrainerSignatureStatus: string(SignaturePending),
	}
}

func TestApplyCompletesOnlyWhenBothAccept(t *testing.T) {
	ag := pendingAgreement()

	out, err := Apply(ag, PartyClient, ActionAccept, signedAt)
	if err != nil {
		t.Fatalf("client accept: %v", err)
	}
	if out.Completed || out.Rejected {
		t.Fatalf("single acceptance must not complete: %+v", out)
	}
	if ag.ClientAgreedAt == nil {
		t.Fatalf("client accept timestamp not set")
	}
	if ag.CompletedAt != nil {
		t.Fatalf("completed_at set after one signature")
	}

	out, err = Apply(ag, PartyTrainer, ActionAccept, signedAt)
	if err != nil {
		t.Fatalf("trainer accept: %v", err)
	}
	if !out.Completed {
		t.Fatalf("both accepted, expected completion")
	}
	if ag.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
}

func TestApplyRejectWinsRegardlessOfOrder(t *testing.T) {
	ag := pendingAgreement()

	if _, err := Apply(ag, PartyClient, ActionAccept, signedAt); err != nil {
		t.Fatalf("client accept: %v", err)
	}

	out, err := Apply(ag, PartyTrainer, ActionReject, signedAt)
	if err != nil {
		t.Fatalf("trainer reject: %v", err)
	}
	if !out.Rejected || out.Completed {
		t.Fatalf("expected rejection outcome, got %+v", out)
	}
	if ag.TrainerSignatureStatus != string(SignatureRejected) {
		t.Fatalf("trainer status = %q", ag.TrainerSignatureStatus)
	}
	if ag.TrainerAgreedAt != nil {
		t.Fatalf("reject must not record an agreed_at timestamp")
	}
	if ag.CompletedAt != nil {
		t.Fatalf("rejected agreement must not complete")
	}
}

func TestApplyGuards(t *testing.T) {
	t.Run("double sign", func(t *testing.T) {
		ag := pendingAgreement()
		if _, err := Apply(ag, PartyClient, ActionAccept, signedAt); err != nil {
			t.Fatalf("first accept: %v", err)
		}
		if _, err := Apply(ag, PartyClient, ActionAccept, signedAt); !httperr.IsBusiness(err, "already_signed") {
			t.Fatalf("expected already_signed, got %v", err)
		}
	})

	t.Run("completed is immutable", func(t *testing.T) {
		ag := pendingAgreement()
		Apply(ag, PartyClient, ActionAccept, signedAt)
		Apply(ag, PartyTrainer, ActionAccept, signedAt)

		if _, err := Apply(ag, PartyTrainer, ActionReject, signedAt); !httperr.IsBusiness(err, "agreement_completed") {
			t.Fatalf("expected agreement_completed, got %v", err)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		ag := pendingAgreement()
		if _, err := Apply(ag, PartyClient, Action("maybe"), signedAt); !httperr.IsBusiness(err, "invalid_action") {
			t.Fatalf("expected invalid_action, got %v", err)
		}
	})
}

func TestPartyFor(t *testing.T) {
	b := &models.Booking{TrainerID: 7, StudentID: 9}

	if p, err := PartyFor(b, 7); err != nil || p != PartyTrainer {
		t.Fatalf("trainer: %v %v", p, err)
	}
	if p, err := PartyFor(b, 9); err != nil || p != PartyClient {
		t.Fatalf("client: %v %v", p, err)
	}
	if _, err := PartyFor(b, 42); !httperr.IsBusiness(err, "not_a_party") {
		t.Fatalf("expected not_a_party, got %v", err)
	}
}
