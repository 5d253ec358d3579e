package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(userID string) *Client {
	return &Client{
		UserID: userID,
		Send:   make(chan []byte, 4),
		log:    zap.NewNop(),
	}
}

func receive(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("expected a message, got none")
		return WSMessage{}
	}
}

func TestHubPublishReachesAllConnectionsOfUser(t *testing.T) {
	h := NewHub(zap.NewNop())
	tabOne := newTestClient("u1")
	tabTwo := newTestClient("u1")
	h.registerClient(tabOne)
	h.registerClient(tabTwo)

	h.Publish("u1", EventNotificationCount, NotificationCountPayload{Count: 3})

	for _, c := range []*Client{tabOne, tabTwo} {
		msg := receive(t, c)
		assert.Equal(t, EventNotificationCount, msg.Type)
	}
}

func TestHubPublishToOfflineUserIsSilentlyDropped(t *testing.T) {
	h := NewHub(zap.NewNop())

	// Must not panic or block.
	h.Publish("nobody", EventNewNotification, nil)

	assert.False(t, h.IsOnline("nobody"))
}

func TestHubPublishToUsersExcludesSender(t *testing.T) {
	h := NewHub(zap.NewNop())
	sender := newTestClient("sender")
	other := newTestClient("other")
	h.registerClient(sender)
	h.registerClient(other)

	h.PublishToUsers([]string{"sender", "other"}, EventNewMessage,
		NewMessagePayload{GroupID: "g1"}, "sender")

	msg := receive(t, other)
	assert.Equal(t, EventNewMessage, msg.Type)
	assert.Empty(t, sender.Send)
}

func TestHubUnregisterClosesAndForgetsClient(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient("u1")
	h.registerClient(c)
	require.True(t, h.IsOnline("u1"))

	h.unregisterClient(c)

	assert.False(t, h.IsOnline("u1"))
	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, h.OnlineCount())
}

func TestHubFullSendBufferDropsEvent(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := &Client{UserID: "u1", Send: make(chan []byte), log: zap.NewNop()} // unbuffered, nobody reading
	h.registerClient(c)

	// Must not block even though the client cannot accept the write.
	h.Publish("u1", EventNotificationCount, NotificationCountPayload{Count: 1})
}

func TestClientEnqueueDeliversBeforeRegistration(t *testing.T) {
	// The on-connect snapshot is written straight to the connection's queue,
	// so it must arrive even when the hub has not registered the client yet.
	h := NewHub(zap.NewNop())
	c := newTestClient("u1")
	c.Hub = h
	require.False(t, h.IsOnline("u1"))

	c.Enqueue(EventConnected, map[string]string{"userId": "u1"})
	c.Enqueue(EventNotificationCount, NotificationCountPayload{Count: 2})

	msg := receive(t, c)
	assert.Equal(t, EventConnected, msg.Type)
	msg = receive(t, c)
	assert.Equal(t, EventNotificationCount, msg.Type)
}

func TestClientEnqueueFullBufferDoesNotBlock(t *testing.T) {
	c := &Client{UserID: "u1", Send: make(chan []byte), log: zap.NewNop()} // unbuffered, nobody reading

	c.Enqueue(EventConnected, map[string]string{"userId": "u1"})
}
