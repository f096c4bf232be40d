// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/notifications"
	"murmur/internal/repository"
)

// EventPublisher delivers realtime events to a user. Implemented by notifications.Notifier.
type EventPublisher interface {
	PublishEvent(ctx context.Context, userID uint, ev notifications.Event) error
}

// authorize allows the owner or an admin to modify a resource.
func authorize(ctx context.Context, users repository.UserRepository, actorID, ownerID uint) error {
	if actorID == ownerID {
		return nil
	}
	actor, err := users.GetByID(ctx, actorID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return models.NewUnauthorizedError("Unknown user")
		}
		return err
	}
	if actor.IsAdmin {
		return nil
	}
	return models.NewForbiddenError("You do not have permission to modify this resource")
}
