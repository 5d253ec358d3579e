package service

import (
	"context"

	"github.com/Pratham2994/Symbiote-sub000/internal/db"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ChatManager is the slice of the chat service team lifecycle needs.
type ChatManager interface {
	ParticipantSyncer
	EnsureChat(ctx context.Context, teamID string) (string, error)
	DeleteForTeam(ctx context.Context, teamID string) error
}

// TeamService owns team lifecycle: creation, membership changes initiated
// by members themselves, and deletion with its fan-out of cleanups.
type TeamService struct {
	tx db.Transactor

	users    store.UserRepository
	teams    store.TeamRepository
	requests store.RequestRepository

	chat     ChatManager
	notifier Notifier
	log      *zap.Logger
}

func NewTeamService(tx db.Transactor, users store.UserRepository, teams store.TeamRepository,
	requests store.RequestRepository, chat ChatManager, notifier Notifier, log *zap.Logger) *TeamService {
	return &TeamService{
		tx:       tx,
		users:    users,
		teams:    teams,
		requests: requests,
		chat:     chat,
		notifier: notifier,
		log:      log,
	}
}

// Create registers a team with the creator as its first member. The team
// row and the creator's membership commit together, so a creator already on
// a team for the competition leaves nothing behind.
func (s *TeamService) Create(ctx context.Context, creatorID, name, competitionID string) (*models.Team, *Error) {
	team := &models.Team{
		Name:          name,
		CompetitionID: competitionID,
		CreatedBy:     creatorID,
	}

	txErr := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.teams.Create(txCtx, team); err != nil {
			return err
		}
		return s.teams.AddMember(txCtx, team.ID, competitionID, creatorID)
	})
	if txErr != nil {
		if errors.Is(txErr, store.ErrAlreadyOnTeam) {
			return nil, NewError(ErrorCodeAlreadyOnTeam, "you are already on a team for this competition")
		}
		return nil, s.internal("failed to create team", txErr)
	}

	// Chat creation is best-effort here; EnsureChat backfills it on first
	// chat access if this fails.
	if groupID, err := s.chat.EnsureChat(ctx, team.ID); err != nil {
		s.log.Error("failed to create team chat", zap.String("team_id", team.ID), zap.Error(err))
	} else {
		team.GroupChatID = &groupID
		if err := s.chat.SyncParticipants(ctx, team.ID); err != nil {
			s.log.Error("failed to sync chat participants", zap.String("team_id", team.ID), zap.Error(err))
		}
	}

	return team, nil
}

// Get returns a team with its member roster, creator first.
func (s *TeamService) Get(ctx context.Context, teamID string) (*models.TeamWithMembers, *Error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		return nil, s.internal("failed to load team", err)
	}

	members, err := s.teams.Members(ctx, teamID)
	if err != nil {
		return nil, s.internal("failed to load team members", err)
	}

	roster := make([]models.UserResponse, 0, len(members))
	for _, m := range members {
		roster = append(roster, m.ToResponse())
	}

	return &models.TeamWithMembers{
		ID:            team.ID,
		Name:          team.Name,
		CompetitionID: team.CompetitionID,
		CreatedBy:     team.CreatedBy,
		GroupChatID:   team.GroupChatID,
		Members:       roster,
		CreatedAt:     team.CreatedAt,
	}, nil
}

// ListMine returns every team the user is a member of.
func (s *TeamService) ListMine(ctx context.Context, userID string) ([]*models.Team, *Error) {
	teams, err := s.teams.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.internal("failed to list teams", err)
	}
	if teams == nil {
		teams = []*models.Team{}
	}
	return teams, nil
}

// Delete disbands a team. Creator only. Pending requests targeting the team
// are deleted first so their actionable notifications can be retracted
// before the cascade would silently drop the rows; every other member then
// gets a team-deleted notification and email.
func (s *TeamService) Delete(ctx context.Context, teamID, actorID string) *Error {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		return s.internal("failed to load team", err)
	}
	if team.CreatedBy != actorID {
		return NewError(ErrorCodeNotAuthorized, "only the team creator can delete the team")
	}

	members, err := s.teams.Members(ctx, teamID)
	if err != nil {
		return s.internal("failed to load team members", err)
	}
	creator, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return s.internal("failed to load creator", err)
	}

	requestIDs, err := s.requests.DeletePendingForTeam(ctx, teamID)
	if err != nil {
		return s.internal("failed to delete pending requests", err)
	}
	for _, id := range requestIDs {
		if err := s.notifier.DeleteForRequest(ctx, id); err != nil {
			s.log.Error("failed to retract request notification",
				zap.String("request_id", id), zap.Error(err))
		}
	}

	if err := s.teams.Delete(ctx, teamID); err != nil {
		return s.internal("failed to delete team", err)
	}
	if err := s.chat.DeleteForTeam(ctx, teamID); err != nil {
		s.log.Error("failed to delete team chat", zap.String("team_id", teamID), zap.Error(err))
	}

	for _, m := range members {
		if m.ID == actorID {
			continue
		}
		if _, err := s.notifier.Notify(ctx, notify.Event{
			Recipient: m,
			Sender:    creator,
			Type:      models.TypeTeamDeleted,
			TeamID:    team.ID,
			TeamName:  team.Name,
		}); err != nil {
			s.log.Error("failed to notify team deletion",
				zap.String("user_id", m.ID), zap.Error(err))
		}
	}

	return nil
}

// Leave removes the caller from the team. The creator cannot leave their
// own team; they delete it instead.
func (s *TeamService) Leave(ctx context.Context, teamID, actorID string) *Error {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		return s.internal("failed to load team", err)
	}
	if team.CreatedBy == actorID {
		return NewError(ErrorCodeValidation, "the creator cannot leave the team; delete it instead")
	}

	err = s.teams.RemoveMember(ctx, teamID, team.CompetitionID, actorID)
	if errors.Is(err, store.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "you are not a member of this team")
	}
	if err != nil {
		return s.internal("failed to leave team", err)
	}

	if err := s.chat.SyncParticipants(ctx, teamID); err != nil {
		s.log.Error("failed to sync chat participants", zap.String("team_id", teamID), zap.Error(err))
	}

	s.notifyMembership(ctx, team, actorID, team.CreatedBy, models.TypeTeamMemberLeft)
	return nil
}

// RemoveMember evicts a member. Creator only; the creator cannot evict
// themselves.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, actorID, memberID string) *Error {
	team, err := s.teams.GetByID(ctx, teamID)
	if errors.Is(err, store.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		return s.internal("failed to load team", err)
	}
	if team.CreatedBy != actorID {
		return NewError(ErrorCodeNotAuthorized, "only the team creator can remove members")
	}
	if memberID == actorID {
		return NewError(ErrorCodeValidation, "the creator cannot remove themselves; delete the team instead")
	}

	err = s.teams.RemoveMember(ctx, teamID, team.CompetitionID, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return NewError(ErrorCodeNotFound, "user is not a member of this team")
	}
	if err != nil {
		return s.internal("failed to remove member", err)
	}

	if err := s.chat.SyncParticipants(ctx, teamID); err != nil {
		s.log.Error("failed to sync chat participants", zap.String("team_id", teamID), zap.Error(err))
	}

	s.notifyMembership(ctx, team, actorID, memberID, models.TypeTeamMemberRemoved)
	return nil
}

func (s *TeamService) notifyMembership(ctx context.Context, team *models.Team, senderID, recipientID string, typ models.NotificationType) {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		s.log.Error("failed to load sender", zap.String("user_id", senderID), zap.Error(err))
		return
	}
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		s.log.Error("failed to load recipient", zap.String("user_id", recipientID), zap.Error(err))
		return
	}
	if _, err := s.notifier.Notify(ctx, notify.Event{
		Recipient: recipient,
		Sender:    sender,
		Type:      typ,
		TeamID:    team.ID,
		TeamName:  team.Name,
	}); err != nil {
		s.log.Error("failed to notify membership change",
			zap.String("team_id", team.ID), zap.Error(err))
	}
}

func (s *TeamService) internal(msg string, err error) *Error {
	s.log.Error(msg, zap.Error(err))
	return NewError(ErrorCodeUnspecified, msg)
}
