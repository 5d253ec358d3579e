package notify

import (
	"fmt"

	"github.com/Pratham2994/Symbiote-sub000/internal/models"
)

// Spec describes one notification type: its message template, whether it
// demands a human decision, and the subject line of its email (empty means
// no email is sent). Adding a type is a data change here, not a new branch.
type Spec struct {
	RequiresAction bool
	EmailSubject   string
	Message        func(sender, team string) string
}

// Registry maps every notification type to its Spec.
var Registry = map[models.NotificationType]Spec{
	models.TypeFriendRequest: {
		RequiresAction: true,
		EmailSubject:   "New friend request",
		Message: func(sender, _ string) string {
			return fmt.Sprintf("%s sent you a friend request", sender)
		},
	},
	models.TypeFriendRequestAccepted: {
		EmailSubject: "Friend request accepted",
		Message: func(sender, _ string) string {
			return fmt.Sprintf("%s accepted your friend request", sender)
		},
	},
	models.TypeFriendRequestRejected: {
		Message: func(sender, _ string) string {
			return fmt.Sprintf("%s declined your friend request", sender)
		},
	},
	models.TypeTeamInvite: {
		RequiresAction: true,
		EmailSubject:   "New team invitation",
		Message: func(sender, team string) string {
			return fmt.Sprintf("%s invited you to join team %s", sender, team)
		},
	},
	models.TypeTeamInviteAccepted: {
		EmailSubject: "Team invitation accepted",
		Message: func(sender, team string) string {
			return fmt.Sprintf("%s accepted your invitation to team %s", sender, team)
		},
	},
	models.TypeTeamInviteRejected: {
		Message: func(sender, team string) string {
			return fmt.Sprintf("%s declined your invitation to team %s", sender, team)
		},
	},
	models.TypeJoinRequest: {
		RequiresAction: true,
		EmailSubject:   "New join request",
		Message: func(sender, team string) string {
			return fmt.Sprintf("%s requested to join team %s", sender, team)
		},
	},
	models.TypeJoinRequestAccepted: {
		EmailSubject: "Join request accepted",
		Message: func(_, team string) string {
			return fmt.Sprintf("Your request to join team %s was accepted", team)
		},
	},
	models.TypeJoinRequestRejected: {
		Message: func(_, team string) string {
			return fmt.Sprintf("Your request to join team %s was declined", team)
		},
	},
	models.TypeTeamDeleted: {
		EmailSubject: "Team deleted",
		Message: func(_, team string) string {
			return fmt.Sprintf("Team %s was deleted by its creator", team)
		},
	},
	models.TypeTeamMemberLeft: {
		Message: func(sender, team string) string {
			return fmt.Sprintf("%s left team %s", sender, team)
		},
	},
	models.TypeTeamMemberRemoved: {
		Message: func(_, team string) string {
			return fmt.Sprintf("You were removed from team %s", team)
		},
	},
}

// OutcomeType maps a request kind and decision to the non-actionable
// notification type addressed to the original requester.
func OutcomeType(kind models.RequestKind, decision models.Decision) models.NotificationType {
	accepted := decision == models.DecisionAccept
	switch kind {
	case models.KindFriend:
		if accepted {
			return models.TypeFriendRequestAccepted
		}
		return models.TypeFriendRequestRejected
	case models.KindTeamInvite:
		if accepted {
			return models.TypeTeamInviteAccepted
		}
		return models.TypeTeamInviteRejected
	default:
		if accepted {
			return models.TypeJoinRequestAccepted
		}
		return models.TypeJoinRequestRejected
	}
}

// ActionableType maps a request kind to its actionable notification type.
func ActionableType(kind models.RequestKind) models.NotificationType {
	switch kind {
	case models.KindFriend:
		return models.TypeFriendRequest
	case models.KindTeamInvite:
		return models.TypeTeamInvite
	default:
		return models.TypeJoinRequest
	}
}
