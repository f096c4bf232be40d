package service

import (
	"context"
	"testing"
	"time"

	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ReadPath(t *testing.T) {
	db := testkit.OpenSQLite(t)
	author := testkit.CreateUser(t, db, "author")
	fan := testkit.CreateUser(t, db, "fan")
	stranger := testkit.CreateUser(t, db, "stranger")
	post := testkit.CreatePost(t, db, author.ID, "hello")

	likes := NewInteractionService(db, nil, true)
	ctx := context.Background()
	require.NoError(t, likes.Like(ctx, fan.ID, post.ID))
	require.NoError(t, likes.Like(ctx, fan.ID, post.ID))

	svc := NewNotificationService(repository.NewNotificationRepository(db))

	unread, err := svc.ListUnread(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Greater(t, unread[0].ID, unread[1].ID)
	assert.Equal(t, "fan", unread[0].Actor.Username)

	// Listing does not mark anything read.
	count, err := svc.UnreadCount(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assertCode(t, svc.MarkRead(ctx, stranger.ID, unread[0].ID), models.CodeNotFound)
	require.NoError(t, svc.MarkRead(ctx, author.ID, unread[0].ID))

	unread, err = svc.ListUnread(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	changed, err := svc.MarkAllRead(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	unread, err = svc.ListUnread(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationService_ListUnread_EqualTimestamps(t *testing.T) {
	db := testkit.OpenSQLite(t)
	author := testkit.CreateUser(t, db, "author")
	fan := testkit.CreateUser(t, db, "fan")
	post := testkit.CreatePost(t, db, author.ID, "hello")
	repo := repository.NewNotificationRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 3; i++ {
		n := &models.Notification{
			RecipientID: author.ID,
			ActorID:     fan.ID,
			Verb:        models.VerbLikedPost,
			TargetType:  models.TargetTypePost,
			TargetID:    post.ID,
			Timestamp:   at,
		}
		require.NoError(t, repo.Create(ctx, n))
		ids = append(ids, n.ID)
	}

	unread, err := NewNotificationService(repo).ListUnread(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, unread, 3)
	assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, []uint{unread[0].ID, unread[1].ID, unread[2].ID})
}
