package models

import "time"

// Team represents a competition team. CreatedBy is immutable and is always a
// member; members keep join order via joined_at.
type Team struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	CompetitionID string    `json:"competitionId" db:"competition_id"`
	CreatedBy     string    `json:"createdBy" db:"created_by"`
	GroupChatID   *string   `json:"groupChatId,omitempty" db:"group_chat_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// TeamWithMembers includes member information in join order.
type TeamWithMembers struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	CompetitionID string         `json:"competitionId"`
	CreatedBy     string         `json:"createdBy"`
	GroupChatID   *string        `json:"groupChatId,omitempty"`
	Members       []UserResponse `json:"members"`
	CreatedAt     time.Time      `json:"createdAt"`
}
