package service

import (
	"context"
	"testing"

	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const strongPassword = "Correct-Horse-9"

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(repository.NewUserRepository(db), repository.NewFollowRepository(db))
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	db := testkit.OpenSQLite(t)
	svc := newUserService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: strongPassword})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, strongPassword, user.Password)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: strongPassword})
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: strongPassword})
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "short"})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("bad username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Username: "a b", Email: "ab@example.com", Password: strongPassword})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("login", func(t *testing.T) {
		got, err := svc.Login(ctx, "alice", strongPassword)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = svc.Login(ctx, "alice", "wrong")
		assertCode(t, err, models.CodeUnauthorized)

		_, err = svc.Login(ctx, "nobody", strongPassword)
		assertCode(t, err, models.CodeUnauthorized)
	})
}

func TestUserService_FollowGraph(t *testing.T) {
	db := testkit.OpenSQLite(t)
	alice := testkit.CreateUser(t, db, "alice")
	bob := testkit.CreateUser(t, db, "bob")
	carol := testkit.CreateUser(t, db, "carol")
	svc := newUserService(db)
	ctx := context.Background()

	assertCode(t, svc.Follow(ctx, alice.ID, alice.ID), models.CodeValidation)
	assertCode(t, svc.Follow(ctx, alice.ID, 999), models.CodeNotFound)

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, carol.ID, bob.ID))

	profile, err := svc.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{alice.ID, carol.ID}, profile.FollowerIDs)
	assert.Equal(t, int64(2), profile.FollowersCount)
	assert.Equal(t, int64(0), profile.FollowingCount)
	assert.Nil(t, profile.IsFollowing)

	viewed, err := svc.GetProfileFor(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, viewed.IsFollowing)
	assert.True(t, *viewed.IsFollowing)

	viewed, err = svc.GetProfileFor(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, viewed.IsFollowing)
	assert.False(t, *viewed.IsFollowing)

	self, err := svc.GetProfileFor(ctx, bob.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, self.IsFollowing)

	following, err := svc.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	followers, err := svc.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "carol", followers[0].Username)

	_, err = svc.Followers(ctx, 999)
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	db := testkit.OpenSQLite(t)
	alice := testkit.CreateUser(t, db, "alice")
	svc := newUserService(db)
	ctx := context.Background()

	profile, err := svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: strPtr("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hello", profile.User.Bio)

	_, err = svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{ProfilePicture: strPtr("not a url")})
	assertCode(t, err, models.CodeValidation)

	var stored models.User
	require.NoError(t, db.First(&stored, alice.ID).Error)
	assert.Equal(t, "x", stored.Password)
}
