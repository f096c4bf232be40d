package server

import (
	"errors"
	"log/slog"

	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles GET /api/ws. Each connection receives the
// notification events published for its user.
// @Summary Realtime notification socket
// @Tags notifications
// @Param token query string true "JWT"
// @Success 101
// @Failure 426 {object} models.ErrorResponse
// @Router /ws [get]
func (s *Server) WebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals("userID").(uint)
		if !ok || s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			middleware.Logger.Warn("websocket registration rejected",
				slog.Any("user_id", uid),
				slog.String("error", err.Error()),
			)
			msg := `{"error":"internal error"}`
			if errors.Is(err, notifications.ErrConnectionLimit) {
				msg = `{"error":"connection limit reached"}`
			}
			_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("WebSocket upgrade required"))
		}
		if s.hub == nil {
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				&models.AppError{Code: models.CodeInternal, Message: "Realtime notifications are unavailable"})
		}
		return upgrade(c)
	}
}
