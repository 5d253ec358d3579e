package notify

import (
	"testing"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversEveryType(t *testing.T) {
	types := []models.NotificationType{
		models.TypeFriendRequest,
		models.TypeFriendRequestAccepted,
		models.TypeFriendRequestRejected,
		models.TypeTeamInvite,
		models.TypeTeamInviteAccepted,
		models.TypeTeamInviteRejected,
		models.TypeJoinRequest,
		models.TypeJoinRequestAccepted,
		models.TypeJoinRequestRejected,
		models.TypeTeamDeleted,
		models.TypeTeamMemberLeft,
		models.TypeTeamMemberRemoved,
	}

	for _, typ := range types {
		spec, ok := Registry[typ]
		require.True(t, ok, "missing registry entry for %s", typ)
		require.NotNil(t, spec.Message)
		assert.NotEmpty(t, spec.Message("alice", "rocket"))
	}
}

func TestOnlyRequestTypesRequireAction(t *testing.T) {
	actionable := map[models.NotificationType]bool{
		models.TypeFriendRequest: true,
		models.TypeTeamInvite:    true,
		models.TypeJoinRequest:   true,
	}
	for typ, spec := range Registry {
		assert.Equal(t, actionable[typ], spec.RequiresAction, "type %s", typ)
	}
}

func TestOutcomeTypeMapping(t *testing.T) {
	tests := []struct {
		kind     models.RequestKind
		decision models.Decision
		want     models.NotificationType
	}{
		{models.KindFriend, models.DecisionAccept, models.TypeFriendRequestAccepted},
		{models.KindFriend, models.DecisionReject, models.TypeFriendRequestRejected},
		{models.KindTeamInvite, models.DecisionAccept, models.TypeTeamInviteAccepted},
		{models.KindTeamInvite, models.DecisionReject, models.TypeTeamInviteRejected},
		{models.KindJoinRequest, models.DecisionAccept, models.TypeJoinRequestAccepted},
		{models.KindJoinRequest, models.DecisionReject, models.TypeJoinRequestRejected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutcomeType(tt.kind, tt.decision))
	}
}

func TestActionableTypeMapping(t *testing.T) {
	assert.Equal(t, models.TypeFriendRequest, ActionableType(models.KindFriend))
	assert.Equal(t, models.TypeTeamInvite, ActionableType(models.KindTeamInvite))
	assert.Equal(t, models.TypeJoinRequest, ActionableType(models.KindJoinRequest))
}
