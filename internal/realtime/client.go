package realtime

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client represents one WebSocket connection of a user.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan []byte
	log    *zap.Logger
}

// NewClient creates a client for a freshly upgraded connection.
func NewClient(userID string, conn *websocket.Conn, hub *Hub, log *zap.Logger) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan []byte, 256),
		log:    log,
	}
}

// Enqueue queues an event on this connection directly, bypassing the hub's
// room lookup. Used for the on-connect snapshot, which must reach the client
// even before the hub goroutine has processed the registration.
func (c *Client) Enqueue(event EventType, payload interface{}) {
	data, err := json.Marshal(WSMessage{
		Type:      event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		c.log.Error("failed to marshal event",
			zap.String("event", string(event)), zap.Error(err))
		return
	}
	select {
	case c.Send <- data:
	default:
		c.log.Warn("send buffer full, event dropped",
			zap.String("user_id", c.UserID))
	}
}

// ReadPump consumes the connection until it closes. Clients do not send
// domain commands over the socket (mutations go through REST); the read loop
// exists for pong handling and disconnect detection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read error",
					zap.String("user_id", c.UserID), zap.Error(err))
			}
			break
		}
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn("websocket write error",
					zap.String("user_id", c.UserID), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
