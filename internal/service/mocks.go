package service

import (
	"context"
	"time"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/stretchr/testify/mock"
)

// Test doubles for the service layer. Hand-written testify mocks so the
// tests never need a live database.

// NoopTransactor runs the callback without a transaction.
type NoopTransactor struct{}

func (NoopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AddFriendEdge(ctx context.Context, userID, friendID string) error {
	return m.Called(ctx, userID, friendID).Error(0)
}

func (m *MockUserRepository) RemoveFriendEdge(ctx context.Context, userID, friendID string) error {
	return m.Called(ctx, userID, friendID).Error(0)
}

func (m *MockUserRepository) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Friends(ctx context.Context, userID string) ([]*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByUser(ctx context.Context, userID string) ([]*models.Team, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Team), args.Error(1)
}

func (m *MockTeamRepository) SetGroupChatID(ctx context.Context, teamID, groupChatID string) error {
	return m.Called(ctx, teamID, groupChatID).Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, teamID string) error {
	return m.Called(ctx, teamID).Error(0)
}

func (m *MockTeamRepository) Members(ctx context.Context, teamID string) ([]*models.User, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockTeamRepository) MemberIDs(ctx context.Context, teamID string) ([]string, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTeamRepository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, teamID, competitionID, userID string) error {
	return m.Called(ctx, teamID, competitionID, userID).Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, competitionID, userID string) error {
	return m.Called(ctx, teamID, competitionID, userID).Error(0)
}

func (m *MockTeamRepository) IsOnTeamForCompetition(ctx context.Context, competitionID, userID string) (bool, error) {
	args := m.Called(ctx, competitionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) UsersWithoutTeam(ctx context.Context, competitionID, excludeUserID string) ([]*models.User, error) {
	args := m.Called(ctx, competitionID, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, req *models.RelationshipRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*models.RelationshipRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RelationshipRequest), args.Error(1)
}

func (m *MockRequestRepository) ResolveIfPending(ctx context.Context, id string, status models.RequestStatus) (*models.RelationshipRequest, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RelationshipRequest), args.Error(1)
}

func (m *MockRequestRepository) ListPendingForUser(ctx context.Context, kind models.RequestKind, userID string) ([]*models.RequestWithUsers, error) {
	args := m.Called(ctx, kind, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RequestWithUsers), args.Error(1)
}

func (m *MockRequestRepository) DeletePendingForTeam(ctx context.Context, teamID string) ([]string, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateChat(ctx context.Context, chat *models.GroupChat) error {
	return m.Called(ctx, chat).Error(0)
}

func (m *MockChatRepository) GetChatByTeam(ctx context.Context, teamID string) (*models.GroupChat, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupChat), args.Error(1)
}

func (m *MockChatRepository) GetChatByID(ctx context.Context, groupID string) (*models.GroupChat, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupChat), args.Error(1)
}

func (m *MockChatRepository) DeleteChatCascade(ctx context.Context, groupID string) error {
	return m.Called(ctx, groupID).Error(0)
}

func (m *MockChatRepository) ParticipantIDs(ctx context.Context, groupID string) ([]string, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChatRepository) IsParticipant(ctx context.Context, groupID, userID string) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) AddParticipant(ctx context.Context, groupID, userID string) error {
	return m.Called(ctx, groupID, userID).Error(0)
}

func (m *MockChatRepository) ReplaceParticipants(ctx context.Context, groupID string, memberIDs []string) error {
	return m.Called(ctx, groupID, memberIDs).Error(0)
}

func (m *MockChatRepository) InsertMessage(ctx context.Context, msg *models.GroupMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, groupID string, now time.Time) ([]*models.MessageWithSender, error) {
	args := m.Called(ctx, groupID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MessageWithSender), args.Error(1)
}

func (m *MockChatRepository) IncrementUnread(ctx context.Context, groupID, senderID string) ([]store.UnreadDelta, error) {
	args := m.Called(ctx, groupID, senderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.UnreadDelta), args.Error(1)
}

func (m *MockChatRepository) ResetUnread(ctx context.Context, groupID, userID string, now time.Time) error {
	return m.Called(ctx, groupID, userID, now).Error(0)
}

func (m *MockChatRepository) ReconcileUnread(ctx context.Context, now time.Time) ([]store.UnreadDelta, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.UnreadDelta), args.Error(1)
}

func (m *MockChatRepository) UnreadCounts(ctx context.Context, userID string) ([]models.ChatUnread, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatUnread), args.Error(1)
}

func (m *MockChatRepository) DeleteExpiredMessages(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) OrphanChatIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, ev notify.Event) (*models.Notification, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotifier) DeleteForRequest(ctx context.Context, requestID string) error {
	return m.Called(ctx, requestID).Error(0)
}

type MockChatManager struct {
	mock.Mock
}

func (m *MockChatManager) SyncParticipants(ctx context.Context, teamID string) error {
	return m.Called(ctx, teamID).Error(0)
}

func (m *MockChatManager) EnsureChat(ctx context.Context, teamID string) (string, error) {
	args := m.Called(ctx, teamID)
	return args.String(0), args.Error(1)
}

func (m *MockChatManager) DeleteForTeam(ctx context.Context, teamID string) error {
	return m.Called(ctx, teamID).Error(0)
}

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Score(ctx context.Context, userID string) (models.MatchScore, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.MatchScore), args.Error(1)
}
