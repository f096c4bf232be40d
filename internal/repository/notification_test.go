package repository

import (
	"context"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")
	other := createUser(t, db, "other")
	post := createPostAt(t, db, author.ID, "hello", fixedTime(0))

	newNotification := func(minutes int) *models.Notification {
		n := &models.Notification{
			RecipientID: author.ID,
			ActorID:     fan.ID,
			Verb:        models.VerbLikedPost,
			TargetType:  models.TargetTypePost,
			TargetID:    post.ID,
			Timestamp:   fixedTime(minutes),
		}
		require.NoError(t, repo.Create(ctx, n))
		return n
	}

	older := newNotification(1)
	newer := newNotification(2)
	tied := newNotification(2)

	unread, err := repo.ListUnread(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, unread, 3)
	assert.Equal(t, []uint{tied.ID, newer.ID, older.ID}, []uint{unread[0].ID, unread[1].ID, unread[2].ID})
	assert.Equal(t, "fan", unread[0].Actor.Username)

	ok, err := repo.MarkRead(ctx, newer.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.MarkRead(ctx, newer.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := repo.CountUnread(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	marked, err := repo.MarkAllRead(ctx, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)

	unread, err = repo.ListUnread(ctx, author.ID)
	require.NoError(t, err)
	assert.NotNil(t, unread)
	assert.Empty(t, unread)
}
