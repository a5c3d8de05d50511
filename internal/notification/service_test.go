package notification

import (
	"context"
	"testing"

	"github.com/skilloop/skilloop-api/internal/models"
)

// ====== STUBS ======

type memStore struct {
	rows   []models.Notification
	nextID uint
}

var _ Store = (*memStore)(nil)

func (s *memStore) Insert(_ context.Context, n *models.Notification) error {
	s.nextID++
	n.ID = s.nextID
	s.rows = append(s.rows, *n)
	return nil
}

func (s *memStore) ListLatest(_ context.Context, userID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(s.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if s.rows[i].UserID == userID {
			out = append(out, s.rows[i])
		}
	}
	return out, nil
}

func (s *memStore) CountUnread(_ context.Context, userID uint) (int64, error) {
	var count int64
	for i := range s.rows {
		if s.rows[i].UserID == userID && !s.rows[i].IsRead {
			count++
		}
	}
	return count, nil
}

func (s *memStore) MarkRead(_ context.Context, userID uint, ids []uint) (int64, error) {
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var updated int64
	for i := range s.rows {
		if s.rows[i].UserID == userID && wanted[s.rows[i].ID] && !s.rows[i].IsRead {
			s.rows[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *memStore) MarkAllRead(_ context.Context, userID uint) (int64, error) {
	var updated int64
	for i := range s.rows {
		if s.rows[i].UserID == userID && !s.rows[i].IsRead {
			s.rows[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *memStore) row(t *testing.T, id uint) models.Notification {
	t.Helper()
	for i := range s.rows {
		if s.rows[i].ID == id {
			return s.rows[i]
		}
	}
	t.Fatalf("row %d not found", id)
	return models.Notification{}
}

type recordingPublisher struct {
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev Event) {
	p.events = append(p.events, ev)
}

func seedService(t *testing.T) (*Service, *memStore, *recordingPublisher) {
	t.Helper()

	store := &memStore{}
	broker := &recordingPublisher{}
	svc := &Service{store: store, broker: broker}

	// User 1: two unread, one read. User 2: one unread.
	seed := []models.Notification{
		{UserID: 1, Type: string(TypeTrainingRequestCreated)},
		{UserID: 1, Type: string(TypeBookingConfirmed)},
		{UserID: 1, Type: string(TypeBookingCancelled), IsRead: true},
		{UserID: 2, Type: string(TypeTrainingRequestCreated)},
	}
	for i := range seed {
		n := seed[i]
		if err := store.Insert(context.Background(), &n); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return svc, store, broker
}

// ====== TESTS ======

func TestMarkReadFlipsOnlyListedRows(t *testing.T) {
	svc, store, broker := seedService(t)
	ctx := context.Background()

	// Ids 1 (unread, user 1), 3 (already read, user 1), 4 (user 2), 99 (unknown).
	updated, err := svc.MarkRead(ctx, 1, []uint{1, 3, 4, 99})
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated = %d, want 1", updated)
	}

	if !store.row(t, 1).IsRead {
		t.Fatal("row 1 should be read")
	}
	if store.row(t, 2).IsRead {
		t.Fatal("row 2 was not listed and should stay unread")
	}
	if store.row(t, 4).IsRead {
		t.Fatal("user 2's row must not be touched by user 1")
	}

	count, err := svc.UnreadCount(ctx, 1)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("unread count = %d, want 1", count)
	}

	if len(broker.events) != 1 || broker.events[0].Kind != "update" || broker.events[0].UserID != 1 {
		t.Fatalf("events = %+v, want one update for user 1", broker.events)
	}
}

func TestMarkReadEmptyIDsIsNoop(t *testing.T) {
	svc, _, broker := seedService(t)

	updated, err := svc.MarkRead(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if updated != 0 {
		t.Fatalf("updated = %d, want 0", updated)
	}
	if len(broker.events) != 0 {
		t.Fatalf("no event expected, got %+v", broker.events)
	}
}

func TestMarkAllReadClearsOwnUnreadOnly(t *testing.T) {
	svc, _, broker := seedService(t)
	ctx := context.Background()

	updated, err := svc.MarkAllRead(ctx, 1)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2", updated)
	}

	count, err := svc.UnreadCount(ctx, 1)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("unread count = %d, want 0", count)
	}

	other, err := svc.UnreadCount(ctx, 2)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if other != 1 {
		t.Fatalf("user 2 unread count = %d, want 1", other)
	}

	if len(broker.events) != 1 || broker.events[0].Kind != "update" {
		t.Fatalf("events = %+v, want one update", broker.events)
	}
}

func TestNotifyInsertsAndPublishes(t *testing.T) {
	svc, _, broker := seedService(t)
	ctx := context.Background()

	err := svc.Notify(ctx, 2, TypeBookingConfirmed, map[string]any{"booking_id": 10})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	count, err := svc.UnreadCount(ctx, 2)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread count = %d, want 2", count)
	}

	last := broker.events[len(broker.events)-1]
	if last.Kind != "insert" || last.UserID != 2 {
		t.Fatalf("event = %+v, want insert for user 2", last)
	}
	if last.NotificationID == 0 {
		t.Fatal("event should carry the inserted row's id")
	}
}
