package handlers

import (
	"context"

	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebSocketUpgrade gates the websocket route to genuine upgrade requests.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"success": false,
		"message": "WebSocket upgrade required",
	})
}

// WebSocket attaches a connection to the hub. The socket is push-only:
// clients act through the REST API and passively receive events here. On
// connect the server pushes the current counters so a reconnecting client
// converges without replaying missed events.
func (h *Handler) WebSocket(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		c.Close()
		return
	}

	client := realtime.NewClient(userID, c, h.hub, h.log)
	h.hub.Register <- client

	go client.WritePump()
	h.pushSnapshot(client)
	client.ReadPump()
}

// pushSnapshot sends the reconciliation state for a fresh connection:
// connected ack, live notification count, and per-chat unread counters. The
// frames go straight to this connection's queue rather than through the
// hub, whose registration may still be in flight.
func (h *Handler) pushSnapshot(client *realtime.Client) {
	ctx := context.Background()
	userID := client.UserID

	client.Enqueue(realtime.EventConnected, fiber.Map{"userId": userID})

	count, err := h.notifier.Count(ctx, userID)
	if err != nil {
		h.log.Error("failed to count notifications", zap.String("user_id", userID), zap.Error(err))
	} else {
		client.Enqueue(realtime.EventNotificationCount,
			realtime.NotificationCountPayload{Count: count})
	}

	counts, fail := h.chat.UnreadCounts(ctx, userID)
	if fail != nil {
		h.log.Error("failed to load unread counts", zap.String("user_id", userID))
		return
	}
	for _, cu := range counts {
		client.Enqueue(realtime.EventUnreadCountUpdate,
			realtime.UnreadCountPayload{GroupID: cu.GroupID, Count: cu.Count})
	}
}

// WebSocketStats reports how many users hold live connections.
func (h *Handler) WebSocketStats(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"onlineUsers": h.hub.OnlineCount(),
		"userIds":     h.hub.OnlineUsers(),
	})
}
