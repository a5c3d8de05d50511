package booking

import (
	"testing"
	"time"

	"github.com/skilloop/skilloop-api/internal/httperr"
	"github.com/skilloop/skilloop-api/internal/models"
)

var clock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestValidateTimeRange(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		code  string
	}{
		{
			name:  "valid one hour",
			start: clock.Add(time.Hour),
			end:   clock.Add(2 * time.Hour),
		},
		{
			name:  "exactly fifteen minutes",
			start: clock.Add(time.Hour),
			end:   clock.Add(time.Hour + 15*time.Minute),
		},
		{
			name:  "exactly twenty four hours",
			start: clock.Add(time.Hour),
			end:   clock.Add(25 * time.Hour),
		},
		{
			name:  "start equals now",
			start: clock,
			end:   clock.Add(time.Hour),
			code:  "starts_in_past",
		},
		{
			name:  "start before now",
			start: clock.Add(-time.Minute),
			end:   clock.Add(time.Hour),
			code:  "starts_in_past",
		},
		{
			name:  "end equals start",
			start: clock.Add(time.Hour),
			end:   clock.Add(time.Hour),
			code:  "invalid_range",
		},
		{
			name:  "end before start",
			start: clock.Add(2 * time.Hour),
			end:   clock.Add(time.Hour),
			code:  "invalid_range",
		},
		{
			name:  "one minute short of minimum",
			start: clock.Add(time.Hour),
			end:   clock.Add(time.Hour + 14*time.Minute),
			code:  "too_short",
		},
		{
			name:  "one minute over maximum",
			start: clock.Add(time.Hour),
			end:   clock.Add(25*time.Hour + time.Minute),
			code:  "too_long",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTimeRange(clock, tc.start, tc.end)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("expected code %q, got %v", tc.code, err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := clock

	cases := []struct {
		name                       string
		existingStart, existingEnd time.Duration
		start, end                 time.Duration
		want                       bool
	}{
		{"identical", 0, 60, 0, 60, true},
		{"requested inside existing", 0, 60, 15, 45, true},
		{"existing inside requested", 15, 45, 0, 60, true},
		{"overlap at head", 30, 90, 0, 60, true},
		{"overlap at tail", 0, 60, 30, 90, true},
		{"back to back before", 0, 60, 60, 120, false},
		{"back to back after", 60, 120, 0, 60, false},
		{"disjoint", 0, 60, 120, 180, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(
				base.Add(tc.existingStart*time.Minute),
				base.Add(tc.existingEnd*time.Minute),
				base.Add(tc.start*time.Minute),
				base.Add(tc.end*time.Minute),
			)
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewConflictMessage(t *testing.T) {
	b := &models.Booking{
		StartTime: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC),
	}

	c := NewConflict(b, "The trainer already has")
	want := "The trainer already has a session from Mar 10 15:00 to 16:30"
	if c.Message != want {
		t.Fatalf("got %q, want %q", c.Message, want)
	}
	if c.Booking != b {
		t.Fatalf("conflict should carry the blocking booking")
	}
}

func TestCancelTransitions(t *testing.T) {
	now := clock

	b := &models.Booking{Status: string(StatusPending)}
	if err := Cancel(b, now); err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if b.Status != string(StatusCancelled) || b.CancelledAt == nil {
		t.Fatalf("cancel did not record state: %+v", b)
	}

	b = &models.Booking{Status: string(StatusCompleted)}
	if err := Cancel(b, now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestCompleteTransitions(t *testing.T) {
	now := clock

	b := &models.Booking{Status: string(StatusConfirmed)}
	if err := Complete(b, now); err != nil {
		t.Fatalf("complete confirmed: %v", err)
	}
	if b.Status != string(StatusCompleted) || b.CompletedAt == nil {
		t.Fatalf("complete did not record state: %+v", b)
	}

	b = &models.Booking{Status: string(StatusPending)}
	if err := Complete(b, now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestConfirmPayment(t *testing.T) {
	now := clock
	b := &models.Booking{
		Status:        string(StatusPending),
		PaymentStatus: string(PaymentPending),
	}

	if err := ConfirmPayment(b, "CAP-123", now); err != nil {
		t.Fatalf("confirm payment: %v", err)
	}

	if b.Status != string(StatusConfirmed) {
		t.Fatalf("status = %q", b.Status)
	}
	if b.PaymentStatus != string(PaymentConfirmed) {
		t.Fatalf("payment status = %q", b.PaymentStatus)
	}
	if b.PaymentTransactionID != "CAP-123" || b.PaymentConfirmedAt == nil {
		t.Fatalf("capture not recorded: %+v", b)
	}
}

func TestConfirmGuards(t *testing.T) {
	now := clock

	// A capture landing after the booking was called off must not bring
	// it back; the slot may already be taken by someone else.
	t.Run("capture cannot resurrect cancelled", func(t *testing.T) {
		b := &models.Booking{
			Status:        string(StatusCancelled),
			PaymentStatus: string(PaymentPending),
		}

		if err := ConfirmPayment(b, "CAP-123", now); !httperr.IsBusiness(err, "invalid_state") {
			t.Fatalf("expected invalid_state, got %v", err)
		}
		if b.Status != string(StatusCancelled) {
			t.Fatalf("status = %q, want cancelled", b.Status)
		}
		if b.PaymentStatus != string(PaymentPending) {
			t.Fatalf("payment status = %q, capture must not be recorded", b.PaymentStatus)
		}
	})

	t.Run("confirm cannot resurrect cancelled", func(t *testing.T) {
		b := &models.Booking{Status: string(StatusCancelled)}
		if err := Confirm(b); !httperr.IsBusiness(err, "invalid_state") {
			t.Fatalf("expected invalid_state, got %v", err)
		}
		if b.Status != string(StatusCancelled) {
			t.Fatalf("status = %q, want cancelled", b.Status)
		}
	})

	t.Run("confirm cannot reopen completed", func(t *testing.T) {
		b := &models.Booking{Status: string(StatusCompleted)}
		if err := Confirm(b); !httperr.IsBusiness(err, "invalid_state") {
			t.Fatalf("expected invalid_state, got %v", err)
		}
	})

	// Payment and signature settle in either order, so re-confirming a
	// confirmed booking is allowed.
	t.Run("capture on confirmed booking records payment", func(t *testing.T) {
		b := &models.Booking{
			Status:        string(StatusConfirmed),
			PaymentStatus: string(PaymentPending),
		}
		if err := ConfirmPayment(b, "CAP-124", now); err != nil {
			t.Fatalf("confirm payment: %v", err)
		}
		if b.PaymentStatus != string(PaymentConfirmed) {
			t.Fatalf("payment status = %q", b.PaymentStatus)
		}
	})
}

func TestFailPaymentKeepsBookingPending(t *testing.T) {
	b := &models.Booking{
		Status:        string(StatusPending),
		PaymentStatus: string(PaymentPending),
	}

	FailPayment(b)

	if b.Status != string(StatusPending) {
		t.Fatalf("status = %q, want pending", b.Status)
	}
	if b.PaymentStatus != string(PaymentFailed) {
		t.Fatalf("payment status = %q", b.PaymentStatus)
	}
}
