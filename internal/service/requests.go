package service

import (
	"context"

	"github.com/Pratham2994/Symbiote-sub000/internal/db"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Notifier is the slice of the notification manager the state machine needs.
type Notifier interface {
	Notify(ctx context.Context, ev notify.Event) (*models.Notification, error)
	DeleteForRequest(ctx context.Context, requestID string) error
}

// ParticipantSyncer keeps a team's group chat participants in line with its
// member list, creating the chat when absent.
type ParticipantSyncer interface {
	SyncParticipants(ctx context.Context, teamID string) error
}

// RequestService is the state machine shared by friend requests, team
// invites and join requests: Pending -> Accepted/Rejected, with membership
// mutation on acceptance.
type RequestService struct {
	tx db.Transactor

	users    store.UserRepository
	teams    store.TeamRepository
	requests store.RequestRepository

	notifier Notifier
	chat     ParticipantSyncer
	channel  realtime.Channel
	log      *zap.Logger
}

func NewRequestService(tx db.Transactor, users store.UserRepository, teams store.TeamRepository,
	requests store.RequestRepository, notifier Notifier, chat ParticipantSyncer,
	channel realtime.Channel, log *zap.Logger) *RequestService {
	return &RequestService{
		tx:       tx,
		users:    users,
		teams:    teams,
		requests: requests,
		notifier: notifier,
		chat:     chat,
		channel:  channel,
		log:      log,
	}
}

// SubmitFriendRequest creates a pending friend request addressed by username.
func (s *RequestService) SubmitFriendRequest(ctx context.Context, fromID, toUsername string) (*models.RelationshipRequest, *Error) {
	from, err := s.users.GetByID(ctx, fromID)
	if err != nil {
		return nil, NewError(ErrorCodeNotFound, "user not found")
	}

	to, err := s.users.GetByUsername(ctx, toUsername)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "no user with that username")
	}
	if err != nil {
		return nil, s.internal("failed to look up user", err)
	}

	if to.ID == fromID {
		return nil, NewError(ErrorCodeSelfTarget, "you cannot send a friend request to yourself")
	}

	alreadyFriends, err := s.users.AreFriends(ctx, fromID, to.ID)
	if err != nil {
		return nil, s.internal("failed to check friendship", err)
	}
	if alreadyFriends {
		return nil, NewError(ErrorCodeAlreadyFriends, "you are already friends")
	}

	req := &models.RelationshipRequest{
		Kind:   models.KindFriend,
		FromID: fromID,
		ToID:   to.ID,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, NewError(ErrorCodeAlreadyExists, "a pending friend request already exists")
		}
		return nil, s.internal("failed to create friend request", err)
	}

	if _, err := s.notifier.Notify(ctx, notify.Event{
		Recipient: to,
		Sender:    from,
		Type:      notify.ActionableType(req.Kind),
		ActionID:  req.ID,
	}); err != nil {
		s.log.Error("failed to notify friend request", zap.String("request_id", req.ID), zap.Error(err))
	}

	return req, nil
}

// SubmitTeamInvite invites a friend onto the actor's team.
func (s *RequestService) SubmitTeamInvite(ctx context.Context, actorID, teamID, friendID string) (*models.RelationshipRequest, *Error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		return nil, s.internal("failed to load team", err)
	}

	if friendID == actorID {
		return nil, NewError(ErrorCodeSelfTarget, "you cannot invite yourself")
	}

	isMember, err := s.teams.IsMember(ctx, teamID, actorID)
	if err != nil {
		return nil, s.internal("failed to check membership", err)
	}
	if !isMember {
		return nil, NewError(ErrorCodeNotAuthorized, "only team members can send invites")
	}

	areFriends, err := s.users.AreFriends(ctx, actorID, friendID)
	if err != nil {
		return nil, s.internal("failed to check friendship", err)
	}
	if !areFriends {
		return nil, NewError(ErrorCodeValidation, "you can only invite your friends")
	}

	if fail := s.checkTargetFree(ctx, team, friendID); fail != nil {
		return nil, fail
	}

	invitee, err := s.users.GetByID(ctx, friendID)
	if err != nil {
		return nil, NewError(ErrorCodeNotFound, "user not found")
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, NewError(ErrorCodeNotFound, "user not found")
	}

	req := &models.RelationshipRequest{
		Kind:   models.KindTeamInvite,
		FromID: actorID,
		ToID:   friendID,
		TeamID: &team.ID,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, NewError(ErrorCodeAlreadyExists, "a pending invite already exists for this user")
		}
		return nil, s.internal("failed to create team invite", err)
	}

	if _, err := s.notifier.Notify(ctx, notify.Event{
		Recipient: invitee,
		Sender:    actor,
		Type:      notify.ActionableType(req.Kind),
		TeamID:    team.ID,
		TeamName:  team.Name,
		ActionID:  req.ID,
	}); err != nil {
		s.log.Error("failed to notify team invite", zap.String("request_id", req.ID), zap.Error(err))
	}

	return req, nil
}

// SubmitJoinRequest asks to join a team. The actionable notification goes to
// the team creator; any current member may resolve it.
func (s *RequestService) SubmitJoinRequest(ctx context.Context, actorID, teamID string) (*models.RelationshipRequest, *Error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		return nil, s.internal("failed to load team", err)
	}

	if fail := s.checkTargetFree(ctx, team, actorID); fail != nil {
		return nil, fail
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, NewError(ErrorCodeNotFound, "user not found")
	}
	creator, err := s.users.GetByID(ctx, team.CreatedBy)
	if err != nil {
		return nil, s.internal("failed to load team creator", err)
	}

	req := &models.RelationshipRequest{
		Kind:   models.KindJoinRequest,
		FromID: actorID,
		ToID:   team.CreatedBy,
		TeamID: &team.ID,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, NewError(ErrorCodeAlreadyExists, "a pending join request already exists for this team")
		}
		return nil, s.internal("failed to create join request", err)
	}

	// The actionable record is addressed to the creator; the event still
	// reaches every member since any of them may resolve it.
	n, err := s.notifier.Notify(ctx, notify.Event{
		Recipient: creator,
		Sender:    actor,
		Type:      notify.ActionableType(req.Kind),
		TeamID:    team.ID,
		TeamName:  team.Name,
		ActionID:  req.ID,
	})
	if err != nil {
		s.log.Error("failed to notify join request", zap.String("request_id", req.ID), zap.Error(err))
		return req, nil
	}

	memberIDs, err := s.teams.MemberIDs(ctx, team.ID)
	if err != nil {
		s.log.Error("failed to list members for fan-out", zap.String("team_id", team.ID), zap.Error(err))
		return req, nil
	}
	s.channel.PublishToUsers(memberIDs, realtime.EventNewNotification,
		realtime.NotificationPayload{Notification: n}, team.CreatedBy)

	return req, nil
}

// Resolve accepts or rejects a pending request. The status flip and, on
// acceptance, the membership mutation happen inside one transaction so a
// concurrent resolution either wins outright or observes AlreadyResolved,
// never a double side effect. A failed accept-time re-validation rolls the
// flip back and leaves the request pending for another resolver.
func (s *RequestService) Resolve(ctx context.Context, requestID, actorID string, decision models.Decision) (*models.RelationshipRequest, *Error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "request not found")
	}
	if err != nil {
		return nil, s.internal("failed to load request", err)
	}

	if req.Status != models.StatusPending {
		return nil, NewError(ErrorCodeAlreadyResolved, "request has already been resolved")
	}

	if fail := s.authorizeResolve(ctx, req, actorID); fail != nil {
		return nil, fail
	}

	status := models.StatusRejected
	if decision == models.DecisionAccept {
		status = models.StatusAccepted
	}

	var team *models.Team
	if req.TeamID != nil {
		team, err = s.teams.GetByID(ctx, *req.TeamID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewError(ErrorCodeNotFound, "team no longer exists")
		}
		if err != nil {
			return nil, s.internal("failed to load team", err)
		}
	}

	var resolved *models.RelationshipRequest
	txErr := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		resolved, err = s.requests.ResolveIfPending(txCtx, requestID, status)
		if err != nil {
			return err
		}

		if decision != models.DecisionAccept {
			return nil
		}

		switch req.Kind {
		case models.KindFriend:
			// Idempotent: re-adding an existing edge is a no-op.
			return s.users.AddFriendEdge(txCtx, req.FromID, req.ToID)
		default:
			// Accept-time re-validation: membership may have changed since
			// submission, so the check and the append are the same atomic
			// step keyed by the team.
			return s.teams.AddMember(txCtx, team.ID, team.CompetitionID, s.newMemberID(req))
		}
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, store.ErrAlreadyResolved):
			return nil, NewError(ErrorCodeAlreadyResolved, "request has already been resolved")
		case errors.Is(txErr, store.ErrNotFound):
			return nil, NewError(ErrorCodeNotFound, "request not found")
		case errors.Is(txErr, store.ErrAlreadyMember):
			return nil, NewError(ErrorCodeAlreadyMember, "user is already a member of this team")
		case errors.Is(txErr, store.ErrAlreadyOnTeam):
			return nil, NewError(ErrorCodeAlreadyOnTeam, "user is already on a team for this competition")
		default:
			return nil, s.internal("failed to resolve request", txErr)
		}
	}

	s.afterResolve(ctx, resolved, team, actorID, decision)
	return resolved, nil
}

func (s *RequestService) authorizeResolve(ctx context.Context, req *models.RelationshipRequest, actorID string) *Error {
	switch req.Kind {
	case models.KindJoinRequest:
		// Any current member may admit; only the creator may evict.
		isMember, err := s.teams.IsMember(ctx, *req.TeamID, actorID)
		if err != nil {
			return s.internal("failed to check membership", err)
		}
		if !isMember {
			return NewError(ErrorCodeNotAuthorized, "only team members can resolve join requests")
		}
	default:
		if req.ToID != actorID {
			return NewError(ErrorCodeNotAuthorized, "this request is not addressed to you")
		}
	}
	return nil
}

// newMemberID is the user who gains membership when a team request is
// accepted: the invitee for invites, the applicant for join requests.
func (s *RequestService) newMemberID(req *models.RelationshipRequest) string {
	if req.Kind == models.KindTeamInvite {
		return req.ToID
	}
	return req.FromID
}

// afterResolve runs the post-commit side effects shared by every
// resolution: chat participant sync on team joins, eviction of the
// originating actionable notification, and exactly one outcome notification
// for the original requester.
func (s *RequestService) afterResolve(ctx context.Context, req *models.RelationshipRequest, team *models.Team, actorID string, decision models.Decision) {
	if decision == models.DecisionAccept && team != nil {
		if err := s.chat.SyncParticipants(ctx, team.ID); err != nil {
			s.log.Error("failed to sync chat participants",
				zap.String("team_id", team.ID), zap.Error(err))
		}
	}

	if err := s.notifier.DeleteForRequest(ctx, req.ID); err != nil {
		s.log.Error("failed to delete request notification",
			zap.String("request_id", req.ID), zap.Error(err))
	}

	requester, err := s.users.GetByID(ctx, req.FromID)
	if err != nil {
		s.log.Error("failed to load requester", zap.String("user_id", req.FromID), zap.Error(err))
		return
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		s.log.Error("failed to load resolver", zap.String("user_id", actorID), zap.Error(err))
		return
	}

	ev := notify.Event{
		Recipient: requester,
		Sender:    actor,
		Type:      notify.OutcomeType(req.Kind, decision),
	}
	if team != nil {
		ev.TeamID = team.ID
		ev.TeamName = team.Name
	}
	if _, err := s.notifier.Notify(ctx, ev); err != nil {
		s.log.Error("failed to notify outcome", zap.String("request_id", req.ID), zap.Error(err))
	}
}

// ListPendingFriendRequests returns the caller's pending friend requests,
// incoming and outgoing, with both parties resolved for display.
func (s *RequestService) ListPendingFriendRequests(ctx context.Context, userID string) ([]*models.RequestWithUsers, *Error) {
	requests, err := s.requests.ListPendingForUser(ctx, models.KindFriend, userID)
	if err != nil {
		return nil, s.internal("failed to list friend requests", err)
	}
	if requests == nil {
		requests = []*models.RequestWithUsers{}
	}
	return requests, nil
}

// RemoveFriend severs the symmetric edge in both directions.
func (s *RequestService) RemoveFriend(ctx context.Context, userID, friendID string) *Error {
	err := s.users.RemoveFriendEdge(ctx, userID, friendID)
	if errors.Is(err, store.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "you are not friends with this user")
	}
	if err != nil {
		return s.internal("failed to remove friend", err)
	}
	return nil
}

func (s *RequestService) checkTargetFree(ctx context.Context, team *models.Team, userID string) *Error {
	isMember, err := s.teams.IsMember(ctx, team.ID, userID)
	if err != nil {
		return s.internal("failed to check membership", err)
	}
	if isMember {
		return NewError(ErrorCodeAlreadyMember, "user is already a member of this team")
	}

	onTeam, err := s.teams.IsOnTeamForCompetition(ctx, team.CompetitionID, userID)
	if err != nil {
		return s.internal("failed to check competition membership", err)
	}
	if onTeam {
		return NewError(ErrorCodeAlreadyOnTeam, "user is already on a team for this competition")
	}
	return nil
}

func (s *RequestService) internal(msg string, err error) *Error {
	s.log.Error(msg, zap.Error(err))
	return NewError(ErrorCodeUnspecified, msg)
}
