package notify

import (
	"context"

	"github.com/Pratham2994/Symbiote-sub000/internal/mailer"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNotRecipient is returned when a user touches a notification that is not
// addressed to them.
var ErrNotRecipient = errors.New("notification does not belong to user")

// Event describes a state change a human must learn about.
type Event struct {
	Recipient *models.User
	Sender    *models.User // nil for system events
	Type      models.NotificationType
	TeamID    string // optional
	TeamName  string // used by message templates
	ActionID  string // originating request id, actionable types only
}

// UnreadBundle is the fetchUnread response shape.
type UnreadBundle struct {
	ActionRequired    []*models.Notification `json:"actionRequired"`
	NonActionRequired []*models.Notification `json:"nonActionRequired"`
	UnreadCount       int                    `json:"unreadCount"`
}

// Manager owns the notification lifecycle: creation mirrored to the
// delivery channel, fetch-time eviction, and cleanup when the underlying
// request resolves. Every mutation publishes the domain event first and the
// derived notificationCount second.
type Manager struct {
	store   store.NotificationRepository
	channel realtime.Channel
	mail    mailer.Enqueuer
	log     *zap.Logger
}

func NewManager(s store.NotificationRepository, ch realtime.Channel, mail mailer.Enqueuer, log *zap.Logger) *Manager {
	return &Manager{store: s, channel: ch, mail: mail, log: log}
}

// Notify persists a notification derived from the registry, pushes it to the
// recipient, and dispatches the email side channel fire-and-forget.
func (m *Manager) Notify(ctx context.Context, ev Event) (*models.Notification, error) {
	spec, ok := Registry[ev.Type]
	if !ok {
		return nil, errors.Errorf("unknown notification type %q", ev.Type)
	}

	senderName := ""
	n := &models.Notification{
		RecipientID:    ev.Recipient.ID,
		Type:           ev.Type,
		ActionRequired: spec.RequiresAction,
	}
	if ev.Sender != nil {
		senderName = ev.Sender.Username
		n.SenderID = &ev.Sender.ID
	}
	if ev.TeamID != "" {
		teamID := ev.TeamID
		n.TeamID = &teamID
	}
	if ev.ActionID != "" {
		actionID := ev.ActionID
		n.ActionID = &actionID
	}
	n.Message = spec.Message(senderName, ev.TeamName)

	if err := m.store.Create(ctx, n); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}

	m.channel.Publish(n.RecipientID, realtime.EventNewNotification,
		realtime.NotificationPayload{Notification: n})
	m.publishCount(ctx, n.RecipientID)

	if spec.EmailSubject != "" && ev.Recipient.Email != "" {
		m.mail.Enqueue(mailer.Email{
			To:      ev.Recipient.Email,
			Subject: spec.EmailSubject,
			Body: mailer.BuildNotificationEmail(mailer.NotificationEmailData{
				Title:   spec.EmailSubject,
				Message: n.Message,
			}),
		})
	}

	return n, nil
}

// FetchUnread implements show-once-then-evict: seen non-actionable rows are
// deleted, the remaining unseen ones are returned and marked seen so they
// are never surfaced as unread again. The eviction is announced like any
// other deletion so other open tabs of the same user converge.
func (m *Manager) FetchUnread(ctx context.Context, userID string) (*UnreadBundle, error) {
	evicted, err := m.store.DeleteSeenNonActionable(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to evict seen notifications")
	}
	for _, id := range evicted {
		m.channel.Publish(userID, realtime.EventNotificationDeleted,
			realtime.NotificationDeletedPayload{NotificationID: id})
	}

	actionable, err := m.store.ListActionable(ctx, userID)
	if err != nil {
		return nil, err
	}
	nonActionable, err := m.store.ListUnseenNonActionable(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(nonActionable) > 0 {
		ids := make([]string, 0, len(nonActionable))
		for _, n := range nonActionable {
			ids = append(ids, n.ID)
		}
		if err := m.store.MarkSeen(ctx, ids); err != nil {
			return nil, errors.Wrap(err, "failed to mark notifications seen")
		}
	}

	// The count is the live document count at read time, never cached.
	count, err := m.store.CountForRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(evicted) > 0 {
		m.channel.Publish(userID, realtime.EventNotificationCount,
			realtime.NotificationCountPayload{Count: count})
	}

	if actionable == nil {
		actionable = []*models.Notification{}
	}
	if nonActionable == nil {
		nonActionable = []*models.Notification{}
	}

	return &UnreadBundle{
		ActionRequired:    actionable,
		NonActionRequired: nonActionable,
		UnreadCount:       count,
	}, nil
}

// Delete removes one of the caller's notifications and reconciles the count.
func (m *Manager) Delete(ctx context.Context, userID, notificationID string) error {
	n, err := m.store.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return ErrNotRecipient
	}

	if err := m.store.Delete(ctx, notificationID); err != nil {
		return err
	}

	m.channel.Publish(userID, realtime.EventNotificationDeleted,
		realtime.NotificationDeletedPayload{NotificationID: notificationID})
	m.publishCount(ctx, userID)
	return nil
}

// DeleteForRequest evicts every notification tied to a resolved or retracted
// request so no orphan actionable notification survives it.
func (m *Manager) DeleteForRequest(ctx context.Context, requestID string) error {
	deleted, err := m.store.DeleteByAction(ctx, requestID)
	if err != nil {
		return err
	}
	for _, n := range deleted {
		m.channel.Publish(n.RecipientID, realtime.EventNotificationDeleted,
			realtime.NotificationDeletedPayload{NotificationID: n.ID})
		m.publishCount(ctx, n.RecipientID)
	}
	return nil
}

// MarkRead flags one notification read.
func (m *Manager) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := m.store.MarkRead(ctx, userID, notificationID); err != nil {
		return err
	}
	m.publishCount(ctx, userID)
	return nil
}

// MarkAllRead flags everything read and seen.
func (m *Manager) MarkAllRead(ctx context.Context, userID string) error {
	if err := m.store.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	m.publishCount(ctx, userID)
	return nil
}

// Count returns the live notification count for reconnect reconciliation.
func (m *Manager) Count(ctx context.Context, userID string) (int, error) {
	return m.store.CountForRecipient(ctx, userID)
}

func (m *Manager) publishCount(ctx context.Context, userID string) {
	count, err := m.store.CountForRecipient(ctx, userID)
	if err != nil {
		m.log.Error("failed to count notifications",
			zap.String("user_id", userID), zap.Error(err))
		return
	}
	m.channel.Publish(userID, realtime.EventNotificationCount,
		realtime.NotificationCountPayload{Count: count})
}
