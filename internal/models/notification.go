package models

import "time"

// NotificationType drives message text, email template and whether a human
// decision is required. See notify.Registry.
type NotificationType string

const (
	TypeFriendRequest         NotificationType = "FRIEND_REQUEST"
	TypeFriendRequestAccepted NotificationType = "FRIEND_REQUEST_ACCEPTED"
	TypeFriendRequestRejected NotificationType = "FRIEND_REQUEST_REJECTED"
	TypeTeamInvite            NotificationType = "TEAM_INVITE"
	TypeTeamInviteAccepted    NotificationType = "TEAM_INVITE_ACCEPTED"
	TypeTeamInviteRejected    NotificationType = "TEAM_INVITE_REJECTED"
	TypeJoinRequest           NotificationType = "JOIN_REQUEST"
	TypeJoinRequestAccepted   NotificationType = "JOIN_REQUEST_ACCEPTED"
	TypeJoinRequestRejected   NotificationType = "JOIN_REQUEST_REJECTED"
	TypeTeamDeleted           NotificationType = "TEAM_DELETED"
	TypeTeamMemberLeft        NotificationType = "TEAM_MEMBER_LEFT"
	TypeTeamMemberRemoved     NotificationType = "TEAM_MEMBER_REMOVED"
)

// Notification mirrors relationship request state. Actionable notifications
// are deleted when the underlying request resolves; non-actionable ones are
// evicted on the fetch after they were seen.
type Notification struct {
	ID             string           `json:"id" db:"id"`
	RecipientID    string           `json:"recipientId" db:"recipient_id"`
	SenderID       *string          `json:"senderId,omitempty" db:"sender_id"`
	Type           NotificationType `json:"type" db:"type"`
	Message        string           `json:"message" db:"message"`
	ActionRequired bool             `json:"actionRequired" db:"action_required"`
	ActionID       *string          `json:"actionId,omitempty" db:"action_id"`
	TeamID         *string          `json:"teamId,omitempty" db:"team_id"`
	Read           bool             `json:"read" db:"read"`
	Seen           bool             `json:"seen" db:"seen"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}
