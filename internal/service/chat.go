package service

import (
	"context"
	"strings"
	"time"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ChatService owns the ephemeral team group chats: message posting with a
// rolling TTL, unread counters, participant sync against team membership,
// and expiry sweeping.
type ChatService struct {
	chats store.ChatRepository
	teams store.TeamRepository
	users store.UserRepository

	channel realtime.Channel
	policy  *bluemonday.Policy
	log     *zap.Logger

	ttl time.Duration
	now func() time.Time
}

func NewChatService(chats store.ChatRepository, teams store.TeamRepository, users store.UserRepository,
	channel realtime.Channel, ttl time.Duration, log *zap.Logger) *ChatService {
	return &ChatService{
		chats:   chats,
		teams:   teams,
		users:   users,
		channel: channel,
		policy:  bluemonday.StrictPolicy(),
		log:     log,
		ttl:     ttl,
		now:     time.Now,
	}
}

// EnsureChat returns the team's group chat ID, creating the chat and
// backfilling teams.group_chat_id when it does not exist yet.
func (s *ChatService) EnsureChat(ctx context.Context, teamID string) (string, error) {
	chat, err := s.chats.GetChatByTeam(ctx, teamID)
	if err == nil {
		return chat.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	created := &models.GroupChat{TeamID: teamID}
	if err := s.chats.CreateChat(ctx, created); err != nil {
		return "", err
	}
	if err := s.teams.SetGroupChatID(ctx, teamID, created.ID); err != nil {
		return "", err
	}
	return created.ID, nil
}

// SyncParticipants reconciles the chat participant set with the team's
// current member list. Departed members keep their meta row with
// participant=false so their history access is revoked without losing
// counters.
func (s *ChatService) SyncParticipants(ctx context.Context, teamID string) error {
	groupID, err := s.EnsureChat(ctx, teamID)
	if err != nil {
		return err
	}
	memberIDs, err := s.teams.MemberIDs(ctx, teamID)
	if err != nil {
		return err
	}
	return s.chats.ReplaceParticipants(ctx, groupID, memberIDs)
}

// Create is the explicit chat-creation entry point. It is idempotent: an
// existing chat is returned as-is.
func (s *ChatService) Create(ctx context.Context, teamID, actorID string) (*models.GroupChat, *Error) {
	isMember, err := s.teams.IsMember(ctx, teamID, actorID)
	if err != nil {
		return nil, s.internal("failed to check membership", err)
	}
	if !isMember {
		return nil, NewError(ErrorCodeNotAuthorized, "only team members can open the group chat")
	}

	if _, err := s.EnsureChat(ctx, teamID); err != nil {
		return nil, s.internal("failed to create group chat", err)
	}
	if err := s.SyncParticipants(ctx, teamID); err != nil {
		return nil, s.internal("failed to sync chat participants", err)
	}

	chat, err := s.chats.GetChatByTeam(ctx, teamID)
	if err != nil {
		return nil, s.internal("failed to load group chat", err)
	}
	return chat, nil
}

// Post writes a message, bumps every other participant's unread counter and
// fans the message out. The message event is published before any counter
// event so clients never see a count for a message they have not received.
func (s *ChatService) Post(ctx context.Context, groupID, senderID, content string) (*models.MessageWithSender, *Error) {
	chat, err := s.chats.GetChatByID(ctx, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "group chat not found")
	}
	if err != nil {
		return nil, s.internal("failed to load group chat", err)
	}

	if fail := s.requireParticipant(ctx, chat, senderID); fail != nil {
		return nil, fail
	}

	clean := strings.TrimSpace(s.policy.Sanitize(content))
	if clean == "" {
		return nil, NewError(ErrorCodeValidation, "message content is empty")
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, s.internal("failed to load sender", err)
	}

	now := s.now()
	msg := &models.GroupMessage{
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   clean,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.chats.InsertMessage(ctx, msg); err != nil {
		return nil, s.internal("failed to store message", err)
	}

	deltas, err := s.chats.IncrementUnread(ctx, groupID, senderID)
	if err != nil {
		return nil, s.internal("failed to bump unread counters", err)
	}

	full := &models.MessageWithSender{
		ID:        msg.ID,
		GroupID:   msg.GroupID,
		Sender:    sender.ToResponse(),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
		ExpiresAt: msg.ExpiresAt,
	}

	participants, err := s.chats.ParticipantIDs(ctx, groupID)
	if err != nil {
		s.log.Error("failed to list participants for fan-out",
			zap.String("group_id", groupID), zap.Error(err))
		return full, nil
	}

	s.channel.PublishToUsers(participants, realtime.EventNewMessage, realtime.NewMessagePayload{
		GroupID: groupID,
		Message: full,
	}, senderID)
	for _, d := range deltas {
		s.channel.Publish(d.UserID, realtime.EventUnreadCountUpdate, realtime.UnreadCountPayload{
			GroupID: groupID,
			Count:   d.Count,
		})
	}

	return full, nil
}

// History returns the chat's unexpired messages, oldest first.
func (s *ChatService) History(ctx context.Context, groupID, requesterID string) ([]*models.MessageWithSender, *Error) {
	chat, err := s.chats.GetChatByID(ctx, groupID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "group chat not found")
	}
	if err != nil {
		return nil, s.internal("failed to load group chat", err)
	}

	if fail := s.requireParticipant(ctx, chat, requesterID); fail != nil {
		return nil, fail
	}

	msgs, err := s.chats.ListMessages(ctx, groupID, s.now())
	if err != nil {
		return nil, s.internal("failed to list messages", err)
	}
	if msgs == nil {
		msgs = []*models.MessageWithSender{}
	}
	return msgs, nil
}

// MarkRead zeroes the caller's unread counter and echoes the zero back over
// the socket so other open tabs converge.
func (s *ChatService) MarkRead(ctx context.Context, groupID, userID string) *Error {
	if _, err := s.chats.GetChatByID(ctx, groupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewError(ErrorCodeNotFound, "group chat not found")
		}
		return s.internal("failed to load group chat", err)
	}

	if err := s.chats.ResetUnread(ctx, groupID, userID, s.now()); err != nil {
		return s.internal("failed to reset unread counter", err)
	}

	s.channel.Publish(userID, realtime.EventUnreadCountUpdate, realtime.UnreadCountPayload{
		GroupID: groupID,
		Count:   0,
	})
	return nil
}

// UnreadCounts returns the caller's per-chat unread counters for the
// reconnect reconciliation pull.
func (s *ChatService) UnreadCounts(ctx context.Context, userID string) ([]models.ChatUnread, *Error) {
	counts, err := s.chats.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, s.internal("failed to load unread counts", err)
	}
	if counts == nil {
		counts = []models.ChatUnread{}
	}
	return counts, nil
}

// DeleteForTeam removes the team's chat with its messages and meta rows.
// Missing chat is not an error.
func (s *ChatService) DeleteForTeam(ctx context.Context, teamID string) error {
	chat, err := s.chats.GetChatByTeam(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.chats.DeleteChatCascade(ctx, chat.ID)
}

// Sweep deletes expired messages, reconciles the unread counters they
// backed, and then removes any chat whose team is gone. Called periodically
// by the background sweeper.
func (s *ChatService) Sweep(ctx context.Context) error {
	now := s.now()

	deleted, err := s.chats.DeleteExpiredMessages(ctx, now)
	if err != nil {
		return errors.Wrap(err, "delete expired messages")
	}

	// Counters count unexpired messages only, so expiry shrinks them.
	deltas, err := s.chats.ReconcileUnread(ctx, now)
	if err != nil {
		return errors.Wrap(err, "reconcile unread counters")
	}
	for _, d := range deltas {
		s.channel.Publish(d.UserID, realtime.EventUnreadCountUpdate, realtime.UnreadCountPayload{
			GroupID: d.GroupID,
			Count:   d.Count,
		})
	}

	orphans, err := s.chats.OrphanChatIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "list orphan chats")
	}
	for _, id := range orphans {
		if err := s.chats.DeleteChatCascade(ctx, id); err != nil {
			s.log.Error("failed to delete orphan chat", zap.String("group_id", id), zap.Error(err))
		}
	}

	if deleted > 0 || len(deltas) > 0 || len(orphans) > 0 {
		s.log.Info("chat sweep complete",
			zap.Int64("expired_messages", deleted),
			zap.Int("reconciled_counters", len(deltas)),
			zap.Int("orphan_chats", len(orphans)))
	}
	return nil
}

// requireParticipant admits current team members lazily: a member whose
// meta row predates their join, or is still participant=false, gets
// upserted on first touch.
func (s *ChatService) requireParticipant(ctx context.Context, chat *models.GroupChat, userID string) *Error {
	ok, err := s.chats.IsParticipant(ctx, chat.ID, userID)
	if err != nil {
		return s.internal("failed to check participant", err)
	}
	if ok {
		return nil
	}

	isMember, err := s.teams.IsMember(ctx, chat.TeamID, userID)
	if err != nil {
		return s.internal("failed to check membership", err)
	}
	if !isMember {
		return NewError(ErrorCodeNotAuthorized, "you are not a participant of this chat")
	}

	if err := s.chats.AddParticipant(ctx, chat.ID, userID); err != nil {
		return s.internal("failed to add participant", err)
	}
	return nil
}

func (s *ChatService) internal(msg string, err error) *Error {
	s.log.Error(msg, zap.Error(err))
	return NewError(ErrorCodeUnspecified, msg)
}
