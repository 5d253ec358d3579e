package service

import (
	"context"
	"testing"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testUser(id, username string) *models.User {
	return &models.User{ID: id, Username: username, Email: username + "@example.com"}
}

type requestFixture struct {
	users    *MockUserRepository
	teams    *MockTeamRepository
	requests *MockRequestRepository
	notifier *MockNotifier
	chat     *MockChatManager
	channel  *notify.RecordingChannel
	svc      *RequestService
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		users:    new(MockUserRepository),
		teams:    new(MockTeamRepository),
		requests: new(MockRequestRepository),
		notifier: new(MockNotifier),
		chat:     new(MockChatManager),
		channel:  notify.NewRecordingChannel(),
	}
	f.svc = NewRequestService(NoopTransactor{}, f.users, f.teams, f.requests, f.notifier, f.chat, f.channel, zap.NewNop())
	return f
}

func TestSubmitFriendRequest(t *testing.T) {
	ctx := context.Background()
	alice := testUser("u1", "alice")
	bob := testUser("u2", "bob")

	t.Run("creates pending request and notifies recipient", func(t *testing.T) {
		f := newRequestFixture()
		f.users.On("GetByID", ctx, "u1").Return(alice, nil)
		f.users.On("GetByUsername", ctx, "bob").Return(bob, nil)
		f.users.On("AreFriends", ctx, "u1", "u2").Return(false, nil)
		f.requests.On("Create", ctx, mock.AnythingOfType("*models.RelationshipRequest")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.RelationshipRequest).ID = "r1"
			}).Return(nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeFriendRequest &&
				ev.Recipient.ID == "u2" && ev.Sender.ID == "u1" && ev.ActionID == "r1"
		})).Return(&models.Notification{}, nil)

		req, fail := f.svc.SubmitFriendRequest(ctx, "u1", "bob")
		require.Nil(t, fail)
		assert.Equal(t, models.KindFriend, req.Kind)
		assert.Equal(t, "u2", req.ToID)
		f.notifier.AssertExpectations(t)
	})

	t.Run("rejects self target", func(t *testing.T) {
		f := newRequestFixture()
		f.users.On("GetByID", ctx, "u1").Return(alice, nil)
		f.users.On("GetByUsername", ctx, "alice").Return(alice, nil)

		_, fail := f.svc.SubmitFriendRequest(ctx, "u1", "alice")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeSelfTarget, fail.Code)
	})

	t.Run("rejects existing friendship", func(t *testing.T) {
		f := newRequestFixture()
		f.users.On("GetByID", ctx, "u1").Return(alice, nil)
		f.users.On("GetByUsername", ctx, "bob").Return(bob, nil)
		f.users.On("AreFriends", ctx, "u1", "u2").Return(true, nil)

		_, fail := f.svc.SubmitFriendRequest(ctx, "u1", "bob")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeAlreadyFriends, fail.Code)
	})

	t.Run("duplicate pending request maps to ALREADY_EXISTS", func(t *testing.T) {
		f := newRequestFixture()
		f.users.On("GetByID", ctx, "u1").Return(alice, nil)
		f.users.On("GetByUsername", ctx, "bob").Return(bob, nil)
		f.users.On("AreFriends", ctx, "u1", "u2").Return(false, nil)
		f.requests.On("Create", ctx, mock.Anything).Return(store.ErrAlreadyExists)

		_, fail := f.svc.SubmitFriendRequest(ctx, "u1", "bob")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeAlreadyExists, fail.Code)
	})

	t.Run("unknown username maps to NOT_FOUND", func(t *testing.T) {
		f := newRequestFixture()
		f.users.On("GetByID", ctx, "u1").Return(alice, nil)
		f.users.On("GetByUsername", ctx, "ghost").Return(nil, store.ErrNotFound)

		_, fail := f.svc.SubmitFriendRequest(ctx, "u1", "ghost")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotFound, fail.Code)
	})
}

func TestResolveFriendRequest(t *testing.T) {
	ctx := context.Background()
	alice := testUser("u1", "alice")
	bob := testUser("u2", "bob")
	pending := &models.RelationshipRequest{
		ID: "r1", Kind: models.KindFriend,
		FromID: "u1", ToID: "u2", Status: models.StatusPending,
	}

	t.Run("accept adds the edge and sends the outcome", func(t *testing.T) {
		f := newRequestFixture()
		accepted := *pending
		accepted.Status = models.StatusAccepted

		f.requests.On("GetByID", ctx, "r1").Return(pending, nil)
		f.requests.On("ResolveIfPending", ctx, "r1", models.StatusAccepted).Return(&accepted, nil)
		f.users.On("AddFriendEdge", ctx, "u1", "u2").Return(nil)
		f.notifier.On("DeleteForRequest", ctx, "r1").Return(nil)
		f.users.On("GetByID", ctx, "u1").Return(alice, nil)
		f.users.On("GetByID", ctx, "u2").Return(bob, nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeFriendRequestAccepted && ev.Recipient.ID == "u1"
		})).Return(&models.Notification{}, nil)

		got, fail := f.svc.Resolve(ctx, "r1", "u2", models.DecisionAccept)
		require.Nil(t, fail)
		assert.Equal(t, models.StatusAccepted, got.Status)
		f.users.AssertCalled(t, "AddFriendEdge", ctx, "u1", "u2")
		f.notifier.AssertExpectations(t)
	})

	t.Run("reject sends the rejection outcome without an edge", func(t *testing.T) {
		f := newRequestFixture()
		rejected := *pending
		rejected.Status = models.StatusRejected

		f.requests.On("GetByID", ctx, "r1").Return(pending, nil)
		f.requests.On("ResolveIfPending", ctx, "r1", models.StatusRejected).Return(&rejected, nil)
		f.notifier.On("DeleteForRequest", ctx, "r1").Return(nil)
		f.users.On("GetByID", ctx, "u1").Return(alice, nil)
		f.users.On("GetByID", ctx, "u2").Return(bob, nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeFriendRequestRejected && ev.Recipient.ID == "u1"
		})).Return(&models.Notification{}, nil)

		_, fail := f.svc.Resolve(ctx, "r1", "u2", models.DecisionReject)
		require.Nil(t, fail)
		f.users.AssertNotCalled(t, "AddFriendEdge", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("only the recipient may resolve", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("GetByID", ctx, "r1").Return(pending, nil)

		_, fail := f.svc.Resolve(ctx, "r1", "u3", models.DecisionAccept)
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotAuthorized, fail.Code)
	})

	t.Run("second resolution observes ALREADY_RESOLVED", func(t *testing.T) {
		f := newRequestFixture()
		done := *pending
		done.Status = models.StatusAccepted
		f.requests.On("GetByID", ctx, "r1").Return(&done, nil)

		_, fail := f.svc.Resolve(ctx, "r1", "u2", models.DecisionAccept)
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeAlreadyResolved, fail.Code)
	})

	t.Run("concurrent winner surfaces through the guarded update", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("GetByID", ctx, "r1").Return(pending, nil)
		f.requests.On("ResolveIfPending", ctx, "r1", models.StatusAccepted).
			Return(nil, store.ErrAlreadyResolved)

		_, fail := f.svc.Resolve(ctx, "r1", "u2", models.DecisionAccept)
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeAlreadyResolved, fail.Code)
		f.notifier.AssertNotCalled(t, "DeleteForRequest", mock.Anything, mock.Anything)
	})
}

func TestResolveTeamRequests(t *testing.T) {
	ctx := context.Background()
	teamID := "t1"
	team := &models.Team{ID: teamID, Name: "gophers", CompetitionID: "c1", CreatedBy: "u2"}

	invite := &models.RelationshipRequest{
		ID: "r2", Kind: models.KindTeamInvite,
		FromID: "u2", ToID: "u3", TeamID: &teamID, Status: models.StatusPending,
	}
	join := &models.RelationshipRequest{
		ID: "r3", Kind: models.KindJoinRequest,
		FromID: "u4", ToID: "u2", TeamID: &teamID, Status: models.StatusPending,
	}

	t.Run("accepted invite admits the invitee and syncs the chat", func(t *testing.T) {
		f := newRequestFixture()
		accepted := *invite
		accepted.Status = models.StatusAccepted

		f.requests.On("GetByID", ctx, "r2").Return(invite, nil)
		f.teams.On("GetByID", ctx, teamID).Return(team, nil)
		f.requests.On("ResolveIfPending", ctx, "r2", models.StatusAccepted).Return(&accepted, nil)
		f.teams.On("AddMember", ctx, teamID, "c1", "u3").Return(nil)
		f.chat.On("SyncParticipants", ctx, teamID).Return(nil)
		f.notifier.On("DeleteForRequest", ctx, "r2").Return(nil)
		f.users.On("GetByID", ctx, "u2").Return(testUser("u2", "bob"), nil)
		f.users.On("GetByID", ctx, "u3").Return(testUser("u3", "carol"), nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeTeamInviteAccepted &&
				ev.Recipient.ID == "u2" && ev.TeamName == "gophers"
		})).Return(&models.Notification{}, nil)

		_, fail := f.svc.Resolve(ctx, "r2", "u3", models.DecisionAccept)
		require.Nil(t, fail)
		f.teams.AssertCalled(t, "AddMember", ctx, teamID, "c1", "u3")
		f.chat.AssertExpectations(t)
	})

	t.Run("failed re-validation leaves the request pending", func(t *testing.T) {
		f := newRequestFixture()
		accepted := *invite
		accepted.Status = models.StatusAccepted

		f.requests.On("GetByID", ctx, "r2").Return(invite, nil)
		f.teams.On("GetByID", ctx, teamID).Return(team, nil)
		f.requests.On("ResolveIfPending", ctx, "r2", models.StatusAccepted).Return(&accepted, nil)
		f.teams.On("AddMember", ctx, teamID, "c1", "u3").Return(store.ErrAlreadyOnTeam)

		_, fail := f.svc.Resolve(ctx, "r2", "u3", models.DecisionAccept)
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeAlreadyOnTeam, fail.Code)
		f.notifier.AssertNotCalled(t, "DeleteForRequest", mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("any member may admit a join request", func(t *testing.T) {
		f := newRequestFixture()
		accepted := *join
		accepted.Status = models.StatusAccepted

		f.requests.On("GetByID", ctx, "r3").Return(join, nil)
		f.teams.On("IsMember", ctx, teamID, "u5").Return(true, nil)
		f.teams.On("GetByID", ctx, teamID).Return(team, nil)
		f.requests.On("ResolveIfPending", ctx, "r3", models.StatusAccepted).Return(&accepted, nil)
		f.teams.On("AddMember", ctx, teamID, "c1", "u4").Return(nil)
		f.chat.On("SyncParticipants", ctx, teamID).Return(nil)
		f.notifier.On("DeleteForRequest", ctx, "r3").Return(nil)
		f.users.On("GetByID", ctx, "u4").Return(testUser("u4", "dave"), nil)
		f.users.On("GetByID", ctx, "u5").Return(testUser("u5", "erin"), nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeJoinRequestAccepted && ev.Recipient.ID == "u4"
		})).Return(&models.Notification{}, nil)

		_, fail := f.svc.Resolve(ctx, "r3", "u5", models.DecisionAccept)
		require.Nil(t, fail)
		f.teams.AssertCalled(t, "AddMember", ctx, teamID, "c1", "u4")
	})

	t.Run("non-members cannot resolve join requests", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("GetByID", ctx, "r3").Return(join, nil)
		f.teams.On("IsMember", ctx, teamID, "u9").Return(false, nil)

		_, fail := f.svc.Resolve(ctx, "r3", "u9", models.DecisionAccept)
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotAuthorized, fail.Code)
	})
}

func TestSubmitJoinRequest(t *testing.T) {
	ctx := context.Background()
	team := &models.Team{ID: "t1", Name: "gophers", CompetitionID: "c1", CreatedBy: "u2"}

	t.Run("rejects applicants already on a team for the competition", func(t *testing.T) {
		f := newRequestFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("IsMember", ctx, "t1", "u4").Return(false, nil)
		f.teams.On("IsOnTeamForCompetition", ctx, "c1", "u4").Return(true, nil)

		_, fail := f.svc.SubmitJoinRequest(ctx, "u4", "t1")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeAlreadyOnTeam, fail.Code)
	})

	t.Run("notifies the creator and fans the event out to members", func(t *testing.T) {
		f := newRequestFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("IsMember", ctx, "t1", "u4").Return(false, nil)
		f.teams.On("IsOnTeamForCompetition", ctx, "c1", "u4").Return(false, nil)
		f.users.On("GetByID", ctx, "u4").Return(testUser("u4", "dave"), nil)
		f.users.On("GetByID", ctx, "u2").Return(testUser("u2", "bob"), nil)
		f.requests.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*models.RelationshipRequest).ID = "r3"
		}).Return(nil)
		f.notifier.On("Notify", ctx, mock.MatchedBy(func(ev notify.Event) bool {
			return ev.Type == models.TypeJoinRequest && ev.Recipient.ID == "u2" && ev.ActionID == "r3"
		})).Return(&models.Notification{ID: "n1", RecipientID: "u2"}, nil)
		f.teams.On("MemberIDs", ctx, "t1").Return([]string{"u2", "u5"}, nil)

		req, fail := f.svc.SubmitJoinRequest(ctx, "u4", "t1")
		require.Nil(t, fail)
		assert.Equal(t, "u2", req.ToID)
		f.notifier.AssertExpectations(t)

		// The creator already got the event through the notifier; only the
		// other member sees the fan-out copy.
		assert.Empty(t, f.channel.For("u2"))
		events := f.channel.For("u5")
		require.Len(t, events, 1)
		assert.Equal(t, realtime.EventNewNotification, events[0].Event)
	})
}

func TestListPendingFriendRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("returns both parties for display", func(t *testing.T) {
		f := newRequestFixture()
		listed := []*models.RequestWithUsers{{
			ID:   "r1",
			Kind: models.KindFriend,
			From: testUser("u1", "alice").ToResponse(),
			To:   testUser("u2", "bob").ToResponse(),
		}}
		f.requests.On("ListPendingForUser", ctx, models.KindFriend, "u2").Return(listed, nil)

		got, fail := f.svc.ListPendingFriendRequests(ctx, "u2")
		require.Nil(t, fail)
		require.Len(t, got, 1)
		assert.Equal(t, "alice", got[0].From.Username)
		assert.Equal(t, "bob", got[0].To.Username)
	})

	t.Run("no pending requests is a slice, not nil", func(t *testing.T) {
		f := newRequestFixture()
		f.requests.On("ListPendingForUser", ctx, models.KindFriend, "u2").Return(nil, nil)

		got, fail := f.svc.ListPendingFriendRequests(ctx, "u2")
		require.Nil(t, fail)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestSubmitTeamInvite(t *testing.T) {
	ctx := context.Background()
	team := &models.Team{ID: "t1", Name: "gophers", CompetitionID: "c1", CreatedBy: "u2"}

	t.Run("only friends may be invited", func(t *testing.T) {
		f := newRequestFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("IsMember", ctx, "t1", "u2").Return(true, nil)
		f.users.On("AreFriends", ctx, "u2", "u3").Return(false, nil)

		_, fail := f.svc.SubmitTeamInvite(ctx, "u2", "t1", "u3")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeValidation, fail.Code)
	})

	t.Run("only members may invite", func(t *testing.T) {
		f := newRequestFixture()
		f.teams.On("GetByID", ctx, "t1").Return(team, nil)
		f.teams.On("IsMember", ctx, "t1", "u9").Return(false, nil)

		_, fail := f.svc.SubmitTeamInvite(ctx, "u9", "t1", "u3")
		require.NotNil(t, fail)
		assert.Equal(t, ErrorCodeNotAuthorized, fail.Code)
	})
}
