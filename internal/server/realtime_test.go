package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"murmur/internal/notifications"
	"murmur/internal/testkit"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePublishesRealtimeEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testkit.OpenSQLite(t)
	srv, err := NewServerWithDeps(testConfig(), db, rdb)
	require.NoError(t, err)
	app := srv.NewApp()

	aliceToken, aliceID := register(t, app, "alice")
	bobToken, _ := register(t, app, "bob")

	var post postResponse
	require.Equal(t, http.StatusCreated, doJSON(t, app, http.MethodPost, "/api/posts", aliceToken,
		map[string]string{"title": "T", "content": "C"}, &post))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := rdb.Subscribe(ctx, notifications.UserChannel(aliceID))
	defer func() { _ = sub.Close() }()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil, nil))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var ev notifications.Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
	assert.Equal(t, notifications.EventNotificationCreated, ev.Type)

	var ready map[string]interface{}
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/health/ready", "", nil, &ready))
	assert.Equal(t, "healthy", ready["checks"].(map[string]interface{})["redis"])
}
