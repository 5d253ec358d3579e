package service

import (
	"context"
	"testing"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type teamFixture struct {
	users    *MockUserRepository
	teams    *MockTeamRepository
	requests *MockRequestRepository
	chat     *MockChatManager
	notifier *MockNotifier
	svc      *TeamService
}

func newTeamFixture() *teamFixture {
	f := &teamFixture{
		users:    new(MockUserRepository),
		teams:    new(MockTeamRepository),
		requests: new(MockRequestRepository),
		chat:     new(MockChatManager),
		notifier: new(MockNotifier),
	}
	f.svc = NewTeamService(NoopTransactor{}, f.users, f.teams, f.requests, f.chat, f.notifier, zap.NewNop())
	return f
}

func TestCreateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("creates team with creator as first member and a chat", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("Create", ctx, mock.AnythingOfType("*models.Team")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Team).ID = "t1"
			}).Return(nil)
		f.teams.On("AddMember", ctx, "t1", "c1", "u1").Return(nil)
		f.chat.On("EnsureChat", ctx, "t1").Return("g1", nil)
		f.chat.On("SyncParticipants", ctx, "t1").Return(nil)

		team, fail := f.svc.Create(ctx, "u1", "gophers", "c1")
		require.Nil(t, fail)
		assert.Equal(t, "u1", team.CreatedBy)
		require.NotNil(t, team.GroupChatID)
		assert.Equal(t, "g1", *team.GroupChatID)
		f.teams.AssertCalled(t, "AddMember", ctx, "t1", "c1", "u1")
	})

	t.Run("creator already on a team for the competition", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Team).ID = "t1"
		}).Return(nil)
		f.teams.On("AddMember", ctx, "t1", "c1", "u1").Return(store.ErrAlreadyOnTeam)

		_, fail := f.svc.Create(ctx, "u1", "gophers", "c1")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeAlreadyOnTeam, fail.Code)
	})
}

func TestGetTeam(t *testing.T) {
	ctx := context.Background()
	team := &models.Team{ID: "t1", Name: "gophers", CompetitionID: "c1", CreatedBy: "u1"}

	t.Run("returns the team with its roster in join order", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("Members", ctx, "t1").Return([]*models.User{
			testUser("u1", "alice"),
			testUser("u2", "bob"),
		}, nil)

		got, fail := f.svc.Get(ctx, "t1")
		require.Nil(t, fail)
		assert.Equal(t, "t1", got.ID)
		assert.Equal(t, "gophers", got.Name)
		assert.Equal(t, "u1", got.CreatedBy)
		require.Len(t, got.Members, 2)
		assert.Equal(t, "alice", got.Members[0].Username)
		assert.Equal(t, "bob", got.Members[1].Username)
	})

	t.Run("unknown team", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "tX").Return(nil, store.ErrNotFound)

		_, fail := f.svc.Get(ctx, "tX")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotFound, fail.Code)
	})
}

func TestDeleteTeam(t *testing.T) {
	ctx := context.Background()
	team := &models.Team{ID: "t1", Name: "gophers", CompetitionID: "c1", CreatedBy: "u1"}
	members := []*models.User{
		testUser("u1", "alice"),
		testUser("u2", "bob"),
		testUser("u3", "carol"),
	}

	t.Run("only the creator may delete", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)

		fail := f.svc.Delete(ctx, "t1", "u2")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotAuthorized, fail.Code)
	})

	t.Run("retracts pending requests and notifies remaining members", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("Members", ctx, "t1").Return(members, nil)
		f.users.On("GetByID", ctx, "u1").Return(members[0], nil)
		f.requests.On("DeletePendingForTeam", ctx, "t1").Return([]string{"r1", "r2"}, nil)
		f.notifier.On("DeleteForRequest", ctx, "r1").Return(nil)
		f.notifier.On("DeleteForRequest", ctx, "r2").Return(nil)
		f.teams.On("Delete", ctx, "t1").Return(nil)
		f.chat.On("DeleteForTeam", ctx, "t1").Return(nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeTeamDeleted && ev.Recipient.ID != "u1"
		})).Return(&models.Notification{}, nil).Twice()

		fail := f.svc.Delete(ctx, "t1", "u1")
		require.Nil(t, fail)
		f.notifier.AssertExpectations(t)
		f.chat.AssertExpectations(t)
	})
}

func TestLeaveTeam(t *testing.T) {
	ctx := context.Background()
	team := &models.Team{ID: "t1", Name: "gophers", CompetitionID: "c1", CreatedBy: "u1"}

	t.Run("creator cannot leave", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)

		fail := f.svc.Leave(ctx, "t1", "u1")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeValidation, fail.Code)
	})

	t.Run("member leaves, chat syncs, creator notified", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("RemoveMember", ctx, "t1", "c1", "u2").Return(nil)
		f.chat.On("SyncParticipants", ctx, "t1").Return(nil)
		f.users.On("GetByID", ctx, "u2").Return(testUser("u2", "bob"), nil)
		f.users.On("GetByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeTeamMemberLeft &&
				ev.Recipient.ID == "u1" && ev.Sender.ID == "u2"
		})).Return(&models.Notification{}, nil)

		fail := f.svc.Leave(ctx, "t1", "u2")
		require.Nil(t, fail)
		f.notifier.AssertExpectations(t)
		f.chat.AssertExpectations(t)
	})
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	team := &models.Team{ID: "t1", Name: "gophers", CompetitionID: "c1", CreatedBy: "u1"}

	t.Run("only the creator may remove members", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)

		fail := f.svc.RemoveMember(ctx, "t1", "u2", "u3")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotAuthorized, fail.Code)
	})

	t.Run("creator cannot remove themselves", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)

		fail := f.svc.RemoveMember(ctx, "t1", "u1", "u1")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeValidation, fail.Code)
	})

	t.Run("removed member is notified", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("RemoveMember", ctx, "t1", "c1", "u2").Return(nil)
		f.chat.On("SyncParticipants", ctx, "t1").Return(nil)
		f.users.On("GetByID", ctx, "u1").Return(testUser("u1", "alice"), nil)
		f.users.On("GetByID", ctx, "u2").Return(testUser("u2", "bob"), nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeTeamMemberRemoved && ev.Recipient.ID == "u2"
		})).Return(&models.Notification{}, nil)

		fail := f.svc.RemoveMember(ctx, "t1", "u1", "u2")
		require.Nil(t, fail)
		f.notifier.AssertExpectations(t)
	})
}
