package realtime

import (
	"time"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Connection events
	EventConnected EventType = "connected"

	// Notification events. The domain event is always published before the
	// derived count event so clients can apply the change optimistically and
	// then reconcile against the authoritative count.
	EventNewNotification     EventType = "newNotification"
	EventNotificationDeleted EventType = "notificationDeleted"
	EventNotificationCount   EventType = "notificationCount"

	// Group chat events
	EventNewMessage        EventType = "newMessage"
	EventUnreadCountUpdate EventType = "unreadCountUpdate"
)

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NotificationPayload carries a full notification for newNotification.
type NotificationPayload struct {
	Notification *models.Notification `json:"notification"`
}

// NotificationDeletedPayload identifies an evicted notification.
type NotificationDeletedPayload struct {
	NotificationID string `json:"notificationId"`
}

// NotificationCountPayload is the authoritative per-user unread count.
type NotificationCountPayload struct {
	Count int `json:"count"`
}

// NewMessagePayload carries a freshly posted chat message.
type NewMessagePayload struct {
	GroupID string                    `json:"groupId"`
	Message *models.MessageWithSender `json:"message"`
}

// UnreadCountPayload is the per-chat unread counter for one user.
type UnreadCountPayload struct {
	GroupID string `json:"groupId"`
	Count   int    `json:"count"`
}
