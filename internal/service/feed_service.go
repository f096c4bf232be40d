package service

import (
	"context"
	"time"

	"murmur/internal/models"
	"murmur/internal/observability"
	"murmur/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService assembles a user's home feed.
type FeedService struct {
	posts repository.PostRepository
}

func NewFeedService(posts repository.PostRepository) *FeedService {
	return &FeedService{posts: posts}
}

// GetFeed returns posts by everyone userID follows, newest first. Following
// nobody yields an empty, non-nil slice.
func (s *FeedService) GetFeed(ctx context.Context, userID uint) ([]*models.Post, error) {
	defer observability.ObserveFeed(time.Now())
	span, ctx := observability.NewSpan(ctx, "FeedService.GetFeed", observability.UserAttr(userID))
	defer span.End()

	posts, err := s.posts.Feed(ctx, userID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	span.AddAttributes(attribute.Int("feed.size", len(posts)))
	return posts, nil
}
