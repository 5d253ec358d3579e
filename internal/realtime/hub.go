package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub maintains the set of active clients keyed by user id and fans events
// out to them. A user may hold several simultaneous connections (tabs); each
// gets its own Client in the room's set.
type Hub struct {
	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex
	log   *zap.Logger
}

// NewHub creates a new hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]struct{}),
		log:        log,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.UserID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.UserID] = room
	}
	room[client] = struct{}{}

	h.log.Info("client connected",
		zap.String("user_id", client.UserID),
		zap.Int("connections", len(room)))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.UserID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}

	delete(room, client)
	close(client.Send)
	if len(room) == 0 {
		delete(h.rooms, client.UserID)
	}

	h.log.Info("client disconnected",
		zap.String("user_id", client.UserID),
		zap.Int("connections", len(room)))
}

// Publish delivers an event to all of one user's connections. No subscriber
// is not an error; disconnected clients reconcile on their next fetch.
func (h *Hub) Publish(userID string, event EventType, payload interface{}) {
	data, err := h.marshal(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendLocked(userID, data)
}

// PublishToUsers sends an event to multiple users, skipping excludeUserID.
func (h *Hub) PublishToUsers(userIDs []string, event EventType, payload interface{}, excludeUserID string) {
	data, err := h.marshal(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range userIDs {
		if userID == excludeUserID {
			continue
		}
		h.sendLocked(userID, data)
	}
}

// IsOnline reports whether a user has at least one connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[userID]) > 0
}

// OnlineCount returns the number of users with at least one connection.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms)
}

// OnlineUsers returns the ids of currently connected users.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userIDs := make([]string, 0, len(h.rooms))
	for userID := range h.rooms {
		userIDs = append(userIDs, userID)
	}
	return userIDs
}

func (h *Hub) marshal(event EventType, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(WSMessage{
		Type:      event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.log.Error("failed to marshal event",
			zap.String("event", string(event)), zap.Error(err))
		return nil, err
	}
	return data, nil
}

// sendLocked requires h.mu held at least for reading. A full send buffer
// drops the event; clients treat events as reconciling, not authoritative.
func (h *Hub) sendLocked(userID string, data []byte) {
	room, ok := h.rooms[userID]
	if !ok {
		h.log.Debug("no subscriber, event dropped", zap.String("user_id", userID))
		return
	}
	for client := range room {
		select {
		case client.Send <- data:
		default:
			h.log.Warn("send buffer full, event dropped",
				zap.String("user_id", userID))
		}
	}
}
