package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_LoadsOnceThenServesFromCache(t *testing.T) {
	mr := setupMiniRedis(t)
	ctx := context.Background()

	loads := 0
	load := func(dest *cachedThing) func() error {
		return func() error {
			loads++
			*dest = cachedThing{ID: 1, Name: "first"}
			return nil
		}
	}

	var a cachedThing
	require.NoError(t, Aside(ctx, PostKey(1), &a, PostTTL, load(&a)))
	assert.Equal(t, "first", a.Name)
	assert.True(t, mr.Exists("post:1"))

	var b cachedThing
	require.NoError(t, Aside(ctx, PostKey(1), &b, PostTTL, load(&b)))
	assert.Equal(t, a, b)
	assert.Equal(t, 1, loads)

	InvalidatePost(ctx, 1)
	assert.False(t, mr.Exists("post:1"))
}

func TestAside_LoadErrorIsNotCached(t *testing.T) {
	mr := setupMiniRedis(t)

	var dest cachedThing
	err := Aside(context.Background(), UserKey(5), &dest, UserTTL, func() error {
		return errors.New("not found")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("user:5"))
}

func TestAside_WithoutClient(t *testing.T) {
	SetClient(nil)

	var dest cachedThing
	called := false
	err := Aside(context.Background(), "k", &dest, time.Minute, func() error {
		called = true
		dest.Name = "direct"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "direct", dest.Name)
	assert.ErrorIs(t, GetJSON(context.Background(), "k", &dest), ErrMiss)
}

func TestSetJSON_TTL(t *testing.T) {
	mr := setupMiniRedis(t)
	require.NoError(t, SetJSON(context.Background(), UserKey(2), cachedThing{ID: 2}, UserTTL))
	assert.Equal(t, UserTTL, mr.TTL("user:2"))

	mr.FastForward(UserTTL + time.Second)
	var dest cachedThing
	assert.ErrorIs(t, GetJSON(context.Background(), UserKey(2), &dest), ErrMiss)
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(func() { SetClient(nil) })

	c := InitRedis(mr.Addr())
	require.NotNil(t, c)
	assert.Same(t, c, GetClient())

	assert.Nil(t, InitRedis("redis://%%bad"))
	assert.Nil(t, GetClient())
}
