package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist yet. Statements are
// executed one at a time because the pool uses the extended protocol.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		avatar TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// Symmetric friendship edges: two rows per pair.
	`CREATE TABLE IF NOT EXISTS friendships (
		user_id TEXT NOT NULL REFERENCES users(id),
		friend_id TEXT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, friend_id)
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		competition_id TEXT NOT NULL,
		created_by TEXT NOT NULL REFERENCES users(id),
		group_chat_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id),
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (team_id, user_id)
	)`,

	// One team per user per competition, enforced by the primary key so the
	// membership check and the append are a single atomic insert.
	`CREATE TABLE IF NOT EXISTS competition_members (
		competition_id TEXT NOT NULL,
		user_id TEXT NOT NULL REFERENCES users(id),
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		PRIMARY KEY (competition_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS relationship_requests (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		from_id TEXT NOT NULL REFERENCES users(id),
		to_id TEXT NOT NULL REFERENCES users(id),
		team_id TEXT REFERENCES teams(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		resolved_at TIMESTAMPTZ
	)`,

	// At most one pending request per ordered pair / (user, team) pair.
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_pending_friend
		ON relationship_requests (from_id, to_id)
		WHERE status = 'pending' AND kind = 'friend'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_pending_invite
		ON relationship_requests (to_id, team_id)
		WHERE status = 'pending' AND kind = 'team_invite'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_pending_join
		ON relationship_requests (from_id, team_id)
		WHERE status = 'pending' AND kind = 'join_request'`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL REFERENCES users(id),
		sender_id TEXT REFERENCES users(id),
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		action_required BOOLEAN NOT NULL DEFAULT false,
		action_id TEXT,
		team_id TEXT,
		read BOOLEAN NOT NULL DEFAULT false,
		seen BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient
		ON notifications (recipient_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_action
		ON notifications (action_id) WHERE action_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS group_chats (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS group_messages (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL REFERENCES group_chats(id) ON DELETE CASCADE,
		sender_id TEXT NOT NULL REFERENCES users(id),
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_group_messages_expiry
		ON group_messages (expires_at)`,

	// Per (group, user) read position and unread counter. Rows are created
	// when a participant is added and never deleted on removal.
	`CREATE TABLE IF NOT EXISTS group_chat_meta (
		group_id TEXT NOT NULL REFERENCES group_chats(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id),
		participant BOOLEAN NOT NULL DEFAULT true,
		last_seen_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		unread_count INT NOT NULL DEFAULT 0,
		PRIMARY KEY (group_id, user_id)
	)`,
}
