package notification

import (
	"context"

	"gorm.io/gorm"

	"github.com/skilloop/skilloop-api/internal/models"
)

// gormStore is the production Store, backed by the notifications table.
type gormStore struct {
	db *gorm.DB
}

var _ Store = (*gormStore)(nil)

func (s *gormStore) Insert(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *gormStore) ListLatest(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormStore) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *gormStore) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND is_read = false", userID, ids).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *gormStore) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
