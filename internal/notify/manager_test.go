package notify

import (
	"context"
	"testing"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager(s *MockNotificationStore) (*Manager, *RecordingChannel, *CapturingEnqueuer) {
	ch := NewRecordingChannel()
	mail := &CapturingEnqueuer{}
	return NewManager(s, ch, mail, zap.NewNop()), ch, mail
}

func TestNotifyPublishesDomainEventBeforeCount(t *testing.T) {
	s := new(MockNotificationStore)
	m, ch, mail := newManager(s)

	recipient := &models.User{ID: "bob", Username: "bob", Email: "bob@example.com"}
	sender := &models.User{ID: "alice", Username: "alice"}

	s.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.On("CountForRecipient", mock.Anything, "bob").Return(1, nil)

	n, err := m.Notify(context.Background(), Event{
		Recipient: recipient,
		Sender:    sender,
		Type:      models.TypeFriendRequest,
		ActionID:  "req-1",
	})
	require.NoError(t, err)
	assert.True(t, n.ActionRequired)
	assert.Equal(t, "alice sent you a friend request", n.Message)

	events := ch.For("bob")
	require.Len(t, events, 2)
	assert.Equal(t, realtime.EventNewNotification, events[0].Event)
	assert.Equal(t, realtime.EventNotificationCount, events[1].Event)

	require.Len(t, mail.Emails, 1)
	assert.Equal(t, "bob@example.com", mail.Emails[0].To)
}

func TestNotifyTypeWithoutEmailSubjectSendsNoEmail(t *testing.T) {
	s := new(MockNotificationStore)
	m, _, mail := newManager(s)

	s.On("Create", mock.Anything, mock.Anything).Return(nil)
	s.On("CountForRecipient", mock.Anything, "alice").Return(1, nil)

	_, err := m.Notify(context.Background(), Event{
		Recipient: &models.User{ID: "alice", Username: "alice", Email: "alice@example.com"},
		Sender:    &models.User{ID: "bob", Username: "bob"},
		Type:      models.TypeFriendRequestRejected,
	})
	require.NoError(t, err)
	assert.Empty(t, mail.Emails)
}

func TestFetchUnreadEvictsSeenAndMarksReturnedSeen(t *testing.T) {
	s := new(MockNotificationStore)
	m, ch, _ := newManager(s)

	actionable := []*models.Notification{{ID: "a1", ActionRequired: true}}
	fresh := []*models.Notification{{ID: "n1"}, {ID: "n2"}}

	s.On("DeleteSeenNonActionable", mock.Anything, "u1").Return([]string{"old1"}, nil)
	s.On("ListActionable", mock.Anything, "u1").Return(actionable, nil)
	s.On("ListUnseenNonActionable", mock.Anything, "u1").Return(fresh, nil)
	s.On("MarkSeen", mock.Anything, []string{"n1", "n2"}).Return(nil)
	s.On("CountForRecipient", mock.Anything, "u1").Return(3, nil)

	bundle, err := m.FetchUnread(context.Background(), "u1")
	require.NoError(t, err)

	assert.Len(t, bundle.ActionRequired, 1)
	assert.Len(t, bundle.NonActionRequired, 2)
	assert.Equal(t, 3, bundle.UnreadCount)
	s.AssertCalled(t, "DeleteSeenNonActionable", mock.Anything, "u1")
	s.AssertCalled(t, "MarkSeen", mock.Anything, []string{"n1", "n2"})

	// Other tabs learn about the eviction: the deleted id first, then the
	// post-eviction count.
	events := ch.For("u1")
	require.Len(t, events, 2)
	assert.Equal(t, realtime.EventNotificationDeleted, events[0].Event)
	assert.Equal(t, "old1", events[0].Payload.(realtime.NotificationDeletedPayload).NotificationID)
	assert.Equal(t, realtime.EventNotificationCount, events[1].Event)
	assert.Equal(t, 3, events[1].Payload.(realtime.NotificationCountPayload).Count)
}

func TestFetchUnreadEmptyReturnsEmptySlices(t *testing.T) {
	s := new(MockNotificationStore)
	m, ch, _ := newManager(s)

	s.On("DeleteSeenNonActionable", mock.Anything, "u1").Return([]string{}, nil)
	s.On("ListActionable", mock.Anything, "u1").Return([]*models.Notification{}, nil)
	s.On("ListUnseenNonActionable", mock.Anything, "u1").Return([]*models.Notification{}, nil)
	s.On("CountForRecipient", mock.Anything, "u1").Return(0, nil)

	bundle, err := m.FetchUnread(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, bundle.ActionRequired)
	assert.NotNil(t, bundle.NonActionRequired)
	assert.Zero(t, bundle.UnreadCount)

	// Nothing was evicted, so nothing is announced.
	assert.Empty(t, ch.Events)
}

func TestDeleteRejectsForeignNotification(t *testing.T) {
	s := new(MockNotificationStore)
	m, ch, _ := newManager(s)

	s.On("GetByID", mock.Anything, "n1").
		Return(&models.Notification{ID: "n1", RecipientID: "someone-else"}, nil)

	err := m.Delete(context.Background(), "u1", "n1")
	assert.ErrorIs(t, err, ErrNotRecipient)
	assert.Empty(t, ch.Events)
	s.AssertNotCalled(t, "Delete", mock.Anything, "n1")
}

func TestDeleteForRequestPublishesPerRecipient(t *testing.T) {
	s := new(MockNotificationStore)
	m, ch, _ := newManager(s)

	deleted := []*models.Notification{{ID: "n1", RecipientID: "bob"}}
	s.On("DeleteByAction", mock.Anything, "req-1").Return(deleted, nil)
	s.On("CountForRecipient", mock.Anything, "bob").Return(0, nil)

	require.NoError(t, m.DeleteForRequest(context.Background(), "req-1"))

	events := ch.For("bob")
	require.Len(t, events, 2)
	assert.Equal(t, realtime.EventNotificationDeleted, events[0].Event)
	assert.Equal(t, realtime.EventNotificationCount, events[1].Event)
}

func TestMarkReadMissingNotificationSurfacesNotFound(t *testing.T) {
	s := new(MockNotificationStore)
	m, _, _ := newManager(s)

	s.On("MarkRead", mock.Anything, "u1", "missing").Return(store.ErrNotFound)

	err := m.MarkRead(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
