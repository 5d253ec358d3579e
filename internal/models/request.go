package models

import "time"

// RequestKind distinguishes the three relationship request variants.
type RequestKind string

const (
	KindFriend      RequestKind = "friend"
	KindTeamInvite  RequestKind = "team_invite"
	KindJoinRequest RequestKind = "join_request"
)

// RequestStatus is the state machine. Once non-pending a request is
// immutable; a new request must be created to retry.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// Decision is a resolution choice.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ParseDecision maps the client's action string to a Decision.
func ParseDecision(action string) (Decision, bool) {
	switch action {
	case "accept", "accepted":
		return DecisionAccept, true
	case "reject", "rejected":
		return DecisionReject, true
	}
	return "", false
}

// RelationshipRequest is the common shape shared by friend requests, team
// invites and join requests. For team invites To is the invitee; for join
// requests From is the applicant and To is the team creator.
type RelationshipRequest struct {
	ID         string        `json:"id" db:"id"`
	Kind       RequestKind   `json:"kind" db:"kind"`
	FromID     string        `json:"fromId" db:"from_id"`
	ToID       string        `json:"toId" db:"to_id"`
	TeamID     *string       `json:"teamId,omitempty" db:"team_id"`
	Status     RequestStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
	ResolvedAt *time.Time    `json:"resolvedAt,omitempty" db:"resolved_at"`
}

// RequestWithUsers includes both parties for listings.
type RequestWithUsers struct {
	ID        string        `json:"id"`
	Kind      RequestKind   `json:"kind"`
	From      UserResponse  `json:"from"`
	To        UserResponse  `json:"to"`
	TeamID    *string       `json:"teamId,omitempty"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
