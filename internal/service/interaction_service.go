package service

import (
	"context"
	"log/slog"

	"murmur/internal/cache"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/notifications"
	"murmur/internal/observability"
	"murmur/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// InteractionService implements the like/unlike toggle and its notification.
type InteractionService struct {
	db           *gorm.DB
	publisher    EventPublisher
	notifyRepeat bool
}

// NewInteractionService builds the service. When notifyRepeat is true every
// successful Like notifies the author, including repeats of an existing like.
func NewInteractionService(db *gorm.DB, publisher EventPublisher, notifyRepeat bool) *InteractionService {
	return &InteractionService{db: db, publisher: publisher, notifyRepeat: notifyRepeat}
}

// Like records userID's like of postID and notifies the post's author. The
// like and the notification commit together or not at all.
func (s *InteractionService) Like(ctx context.Context, userID, postID uint) error {
	span, ctx := observability.NewSpan(ctx, "InteractionService.Like",
		observability.UserAttr(userID), observability.PostAttr(postID))
	defer span.End()

	var (
		created bool
		notice  *models.Notification
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := repository.NewPostRepository(tx).AuthorID(ctx, postID)
		if err != nil {
			return err
		}

		created, err = repository.NewLikeRepository(tx).Like(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !created && !s.notifyRepeat {
			return nil
		}

		notice = &models.Notification{
			RecipientID: authorID,
			ActorID:     userID,
			Verb:        models.VerbLikedPost,
			TargetType:  models.TargetTypePost,
			TargetID:    postID,
		}
		return repository.NewNotificationRepository(tx).Create(ctx, notice)
	})
	if err != nil {
		span.SetError(err)
		observability.RecordLike("like", "error")
		return err
	}

	outcome := "repeat"
	if created {
		outcome = "created"
	}
	span.AddAttributes(attribute.String("like.outcome", outcome))
	observability.RecordLike("like", outcome)

	cache.InvalidatePost(ctx, postID)
	if notice != nil {
		observability.NotificationsCreated.WithLabelValues(notice.Verb).Inc()
		s.publish(ctx, notice)
	}
	return nil
}

// Unlike removes userID's like of postID. A missing post or a missing like is NotFound.
func (s *InteractionService) Unlike(ctx context.Context, userID, postID uint) error {
	span, ctx := observability.NewSpan(ctx, "InteractionService.Unlike",
		observability.UserAttr(userID), observability.PostAttr(postID))
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewPostRepository(tx).AuthorID(ctx, postID); err != nil {
			return err
		}
		removed, err := repository.NewLikeRepository(tx).Unlike(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !removed {
			return &models.AppError{Code: models.CodeNotFound, Message: "Like not found"}
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		observability.RecordLike("unlike", "error")
		return err
	}

	observability.RecordLike("unlike", "removed")
	cache.InvalidatePost(ctx, postID)
	return nil
}

// publish is best effort; the notification is already stored.
func (s *InteractionService) publish(ctx context.Context, n *models.Notification) {
	if s.publisher == nil {
		return
	}
	ev := notifications.Event{
		Type: notifications.EventNotificationCreated,
		Payload: map[string]interface{}{
			"id":          n.ID,
			"actor_id":    n.ActorID,
			"verb":        n.Verb,
			"target_type": n.TargetType,
			"target_id":   n.TargetID,
		},
	}
	if err := s.publisher.PublishEvent(ctx, n.RecipientID, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.Any("recipient_id", n.RecipientID),
			slog.String("error", err.Error()),
		)
	}
}
