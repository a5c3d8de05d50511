package notification

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/models"
)

const listLimit = 50

// Store is the persistence seam for notification rows. Every operation is
// scoped to one user; a caller can never touch another user's rows.
type Store interface {
	Insert(ctx context.Context, n *models.Notification) error
	ListLatest(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error)
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}

type Service struct {
	store  Store
	broker Publisher
}

func NewService(db *gorm.DB, broker Publisher) *Service {
	return &Service{store: &gormStore{db: db}, broker: broker}
}

// Build assembles a row for the given type; pure, no storage touched.
func Build(userID uint, typ Type, data map[string]any) (*models.Notification, error) {
	title, message, err := Compose(typ, data)
	if err != nil {
		return nil, err
	}

	var payload string
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			payload = string(b)
		}
	}

	return &models.Notification{
		UserID:  userID,
		Type:    string(typ),
		Title:   title,
		Message: message,
		Data:    payload,
	}, nil
}

// Notify inserts a notification and pings the realtime channel.
func (s *Service) Notify(ctx context.Context, userID uint, typ Type, data map[string]any) error {
	n, err := Build(userID, typ, data)
	if err != nil {
		return err
	}

	if err := s.store.Insert(ctx, n); err != nil {
		return err
	}

	s.broker.Publish(ctx, Event{
		UserID:         n.UserID,
		NotificationID: n.ID,
		Type:           n.Type,
		Kind:           "insert",
	})
	return nil
}

// PublishCreated pings the channel for rows that were inserted elsewhere,
// inside a caller's transaction. Call it only after that tx committed.
func (s *Service) PublishCreated(ctx context.Context, rows []models.Notification) {
	for i := range rows {
		s.broker.Publish(ctx, Event{
			UserID:         rows[i].UserID,
			NotificationID: rows[i].ID,
			Type:           rows[i].Type,
			Kind:           "insert",
		})
	}
}

func (s *Service) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.store.ListLatest(ctx, userID, listLimit)
}

func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead flips is_read for the caller's listed ids and returns how many
// rows actually changed. Unknown ids, other users' rows and already-read
// rows are skipped, not errors.
func (s *Service) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	updated, err := s.store.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, err
	}

	s.broker.Publish(ctx, Event{UserID: userID, Kind: "update"})
	return updated, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	updated, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.broker.Publish(ctx, Event{UserID: userID, Kind: "update"})
	return updated, nil
}
