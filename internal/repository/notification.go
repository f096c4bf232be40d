package repository

import (
	"context"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository persists notifications and their read state.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListUnread returns unread notifications for recipientID, newest first,
	// with Actor preloaded.
	ListUnread(ctx context.Context, recipientID uint) ([]*models.Notification, error)
	// MarkRead reports whether the notification existed and belonged to recipientID.
	MarkRead(ctx context.Context, id, recipientID uint) (bool, error)
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a NotificationRepository backed by db, which may be a transaction.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Omit("Recipient", "Actor").Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) ListUnread(ctx context.Context, recipientID uint) ([]*models.Notification, error) {
	notifications := []*models.Notification{}
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where(map[string]interface{}{"recipient_id": recipientID, "read": false}).
		Order(`"timestamp" DESC, "id" DESC`).
		Find(&notifications).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uint) (bool, error) {
	var n models.Notification
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Limit(1).
		Find(&n)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	if n.Read {
		return true, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where(map[string]interface{}{"recipient_id": recipientID, "read": false}).
		Update("read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where(map[string]interface{}{"recipient_id": recipientID, "read": false}).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
