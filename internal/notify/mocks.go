package notify

import (
	"context"
	"sync"

	"github.com/Pratham2994/Symbiote-sub000/internal/mailer"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"

	"github.com/stretchr/testify/mock"
)

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationStore) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationStore) DeleteByAction(ctx context.Context, actionID string) ([]*models.Notification, error) {
	args := m.Called(ctx, actionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationStore) ListActionable(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationStore) ListUnseenNonActionable(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationStore) MarkSeen(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, recipientID, id string) error {
	args := m.Called(ctx, recipientID, id)
	return args.Error(0)
}

func (m *MockNotificationStore) MarkAllRead(ctx context.Context, recipientID string) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}

func (m *MockNotificationStore) DeleteSeenNonActionable(ctx context.Context, recipientID string) ([]string, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockNotificationStore) CountForRecipient(ctx context.Context, recipientID string) (int, error) {
	args := m.Called(ctx, recipientID)
	return args.Int(0), args.Error(1)
}

// RecordedEvent is one publish observed by RecordingChannel.
type RecordedEvent struct {
	UserID  string
	Event   realtime.EventType
	Payload interface{}
}

// RecordingChannel captures publishes in order for assertions.
type RecordingChannel struct {
	mu     sync.Mutex
	Events []RecordedEvent
	Online map[string]bool
}

func NewRecordingChannel() *RecordingChannel {
	return &RecordingChannel{Online: make(map[string]bool)}
}

func (r *RecordingChannel) Publish(userID string, event realtime.EventType, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, RecordedEvent{UserID: userID, Event: event, Payload: payload})
}

func (r *RecordingChannel) PublishToUsers(userIDs []string, event realtime.EventType, payload interface{}, excludeUserID string) {
	for _, userID := range userIDs {
		if userID == excludeUserID {
			continue
		}
		r.Publish(userID, event, payload)
	}
}

func (r *RecordingChannel) IsOnline(userID string) bool {
	return r.Online[userID]
}

// For returns the events published to one user, in order.
func (r *RecordingChannel) For(userID string) []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []RecordedEvent
	for _, ev := range r.Events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out
}

// CapturingEnqueuer records enqueued emails.
type CapturingEnqueuer struct {
	mu     sync.Mutex
	Emails []mailer.Email
}

func (c *CapturingEnqueuer) Enqueue(e mailer.Email) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Emails = append(c.Emails, e)
}
