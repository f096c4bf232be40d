package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "post ID", humanizeParam("postId"))
	assert.Equal(t, "notification target ID", humanizeParam("notificationTargetId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 5, 14, 7, 9, 999, loc)
	assert.Equal(t, "2024-03-05T12:07:09Z", formatTimestamp(ts))
}

func TestErrorHandler(t *testing.T) {
	s := &Server{config: testConfig()}
	app := fiber.New(fiber.Config{ErrorHandler: s.ErrorHandler})
	app.Get("/app", func(c *fiber.Ctx) error { return models.NewForbiddenError("nope") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("db exploded") })

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/app", http.StatusForbidden, models.CodeForbidden},
		{"/fiber", http.StatusNotFound, models.CodeNotFound},
		{"/plain", http.StatusInternalServerError, models.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(body), `"code":"`+tt.code+`"`)
			assert.NotContains(t, string(body), "db exploded")
		})
	}
}
