package models

import "time"

// GroupChat is the ephemeral per-team chat. Participants are kept in sync
// with the owning team's member list.
type GroupChat struct {
	ID        string    `json:"id" db:"id"`
	TeamID    string    `json:"teamId" db:"team_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// GroupMessage is destroyed once now > ExpiresAt.
type GroupMessage struct {
	ID        string    `json:"id" db:"id"`
	GroupID   string    `json:"groupId" db:"group_id"`
	SenderID  string    `json:"senderId" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// MessageWithSender includes sender information
type MessageWithSender struct {
	ID        string       `json:"id"`
	GroupID   string       `json:"groupId"`
	Sender    UserResponse `json:"sender"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// GroupChatMeta is the per (group, user) read position. UnreadCount counts
// unexpired messages created after LastSeenAt not authored by the user.
type GroupChatMeta struct {
	GroupID     string    `json:"groupId" db:"group_id"`
	UserID      string    `json:"userId" db:"user_id"`
	Participant bool      `json:"participant" db:"participant"`
	LastSeenAt  time.Time `json:"lastSeenAt" db:"last_seen_at"`
	UnreadCount int       `json:"unreadCount" db:"unread_count"`
}

// ChatUnread is one entry of a user's unread summary.
type ChatUnread struct {
	GroupID string `json:"groupId"`
	TeamID  string `json:"teamId"`
	Count   int    `json:"count"`
}
