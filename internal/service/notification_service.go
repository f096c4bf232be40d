package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

// NotificationService is the read path for a user's notifications.
type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// ListUnread returns userID's unread notifications, newest first. It does not mark them read.
func (s *NotificationService) ListUnread(ctx context.Context, userID uint) ([]*models.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

// MarkRead marks one of userID's notifications read. Someone else's
// notification is reported as missing.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	ok, err := s.repo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Notification", notificationID)
	}
	return nil
}

// MarkAllRead returns how many notifications changed state.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
