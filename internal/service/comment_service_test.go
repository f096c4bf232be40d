package service

import (
	"context"
	"testing"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/testkit"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommentService(db *gorm.DB) *CommentService {
	return NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
	)
}

func TestCommentService_Lifecycle(t *testing.T) {
	db := testkit.OpenSQLite(t)
	author := testkit.CreateUser(t, db, "author")
	other := testkit.CreateUser(t, db, "other")
	post := testkit.CreatePost(t, db, author.ID, "topic")
	svc := newCommentService(db)
	ctx := context.Background()

	_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: other.ID, PostID: 999, Content: "lost"})
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.CreateComment(ctx, CreateCommentInput{UserID: other.ID, PostID: post.ID, Content: "  "})
	assertCode(t, err, models.CodeValidation)

	c, err := svc.CreateComment(ctx, CreateCommentInput{UserID: other.ID, PostID: post.ID, Content: "first"})
	require.NoError(t, err)
	assert.Equal(t, other.ID, c.UserID)
	assert.Equal(t, "other", c.User.Username)

	list, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.ListComments(ctx, 999)
	assertCode(t, err, models.CodeNotFound)

	_, err = svc.UpdateComment(ctx, UpdateCommentInput{UserID: author.ID, CommentID: c.ID, Content: "mine now"})
	assertCode(t, err, models.CodeForbidden)

	updated, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: other.ID, CommentID: c.ID, Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assertCode(t, svc.DeleteComment(ctx, author.ID, c.ID), models.CodeForbidden)
	require.NoError(t, svc.DeleteComment(ctx, other.ID, c.ID))

	_, err = svc.GetComment(ctx, c.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestCommentService_RefreshesCachedPostView(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := testkit.OpenSQLite(t)
	author := testkit.CreateUser(t, db, "author")
	reader := testkit.CreateUser(t, db, "reader")
	post := testkit.CreatePost(t, db, author.ID, "cached")
	posts := repository.NewPostRepository(db)
	svc := newCommentService(db)
	ctx := context.Background()

	anon, err := posts.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, anon.CommentsCount)
	require.True(t, mr.Exists(cache.PostKey(post.ID)))

	c, err := svc.CreateComment(ctx, CreateCommentInput{UserID: reader.ID, PostID: post.ID, Content: "hello"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.PostKey(post.ID)))

	anon, err = posts.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, anon.CommentsCount)

	require.NoError(t, svc.DeleteComment(ctx, reader.ID, c.ID))
	anon, err = posts.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, anon.CommentsCount)
}
