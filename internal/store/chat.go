package store

import (
	"context"
	"time"

	"github.com/Pratham2994/Symbiote-sub000/internal/db"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// UnreadDelta is one recipient's counter after a change.
type UnreadDelta struct {
	GroupID string
	UserID  string
	Count   int
}

type ChatRepository interface {
	CreateChat(ctx context.Context, chat *models.GroupChat) error
	GetChatByTeam(ctx context.Context, teamID string) (*models.GroupChat, error)
	GetChatByID(ctx context.Context, groupID string) (*models.GroupChat, error)
	DeleteChatCascade(ctx context.Context, groupID string) error

	ParticipantIDs(ctx context.Context, groupID string) ([]string, error)
	IsParticipant(ctx context.Context, groupID, userID string) (bool, error)
	AddParticipant(ctx context.Context, groupID, userID string) error
	ReplaceParticipants(ctx context.Context, groupID string, memberIDs []string) error

	InsertMessage(ctx context.Context, msg *models.GroupMessage) error
	ListMessages(ctx context.Context, groupID string, now time.Time) ([]*models.MessageWithSender, error)
	IncrementUnread(ctx context.Context, groupID, senderID string) ([]UnreadDelta, error)
	ResetUnread(ctx context.Context, groupID, userID string, now time.Time) error
	UnreadCounts(ctx context.Context, userID string) ([]models.ChatUnread, error)
	ReconcileUnread(ctx context.Context, now time.Time) ([]UnreadDelta, error)

	DeleteExpiredMessages(ctx context.Context, now time.Time) (int64, error)
	OrphanChatIDs(ctx context.Context) ([]string, error)
}

type pgxChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgxChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &pgxChatRepository{pool: pool}
}

func (p *pgxChatRepository) CreateChat(ctx context.Context, chat *models.GroupChat) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}

	err := e.QueryRow(ctx, `
		INSERT INTO group_chats (id, team_id) VALUES ($1, $2)
		RETURNING created_at
	`, chat.ID, chat.TeamID).Scan(&chat.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func (p *pgxChatRepository) GetChatByTeam(ctx context.Context, teamID string) (*models.GroupChat, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var chat models.GroupChat
	err := e.QueryRow(ctx, `
		SELECT id, team_id, created_at FROM group_chats WHERE team_id = $1
	`, teamID).Scan(&chat.ID, &chat.TeamID, &chat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (p *pgxChatRepository) GetChatByID(ctx context.Context, groupID string) (*models.GroupChat, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var chat models.GroupChat
	err := e.QueryRow(ctx, `
		SELECT id, team_id, created_at FROM group_chats WHERE id = $1
	`, groupID).Scan(&chat.ID, &chat.TeamID, &chat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// DeleteChatCascade removes the chat with its messages and meta rows, never
// leaving orphans behind.
func (p *pgxChatRepository) DeleteChatCascade(ctx context.Context, groupID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `DELETE FROM group_chats WHERE id = $1`, groupID)
	return err
}

func (p *pgxChatRepository) ParticipantIDs(ctx context.Context, groupID string) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT user_id FROM group_chat_meta
		WHERE group_id = $1 AND participant = true
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *pgxChatRepository) IsParticipant(ctx context.Context, groupID, userID string) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var exists bool
	err := e.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM group_chat_meta
			WHERE group_id = $1 AND user_id = $2 AND participant = true)
	`, groupID, userID).Scan(&exists)
	return exists, err
}

func (p *pgxChatRepository) AddParticipant(ctx context.Context, groupID, userID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `
		INSERT INTO group_chat_meta (group_id, user_id, participant)
		VALUES ($1, $2, true)
		ON CONFLICT (group_id, user_id) DO UPDATE SET participant = true
	`, groupID, userID)
	return err
}

// ReplaceParticipants makes the participant set equal to memberIDs. Meta
// rows for removed members are kept (flagged non-participant) so unread
// history survives; they are simply never incremented again.
func (p *pgxChatRepository) ReplaceParticipants(ctx context.Context, groupID string, memberIDs []string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `
		UPDATE group_chat_meta SET participant = false
		WHERE group_id = $1 AND NOT (user_id = ANY($2))
	`, groupID, memberIDs)
	if err != nil {
		return err
	}

	for _, userID := range memberIDs {
		if err := p.AddParticipant(ctx, groupID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (p *pgxChatRepository) InsertMessage(ctx context.Context, msg *models.GroupMessage) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	return e.QueryRow(ctx, `
		INSERT INTO group_messages (id, group_id, sender_id, content, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, msg.ID, msg.GroupID, msg.SenderID, msg.Content, msg.ExpiresAt).
		Scan(&msg.CreatedAt)
}

// ListMessages filters expired messages defensively even when the sweep has
// not run yet, so no client ever observes one.
func (p *pgxChatRepository) ListMessages(ctx context.Context, groupID string, now time.Time) ([]*models.MessageWithSender, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT m.id, m.group_id, m.content, m.created_at, m.expires_at,
			u.id, u.username, u.email, u.avatar, u.created_at
		FROM group_messages m
		INNER JOIN users u ON m.sender_id = u.id
		WHERE m.group_id = $1 AND m.expires_at > $2
		ORDER BY m.created_at ASC
	`, groupID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.MessageWithSender
	for rows.Next() {
		var m models.MessageWithSender
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Content, &m.CreatedAt, &m.ExpiresAt,
			&m.Sender.ID, &m.Sender.Username, &m.Sender.Email, &m.Sender.Avatar,
			&m.Sender.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// IncrementUnread bumps every participant except the sender in one atomic
// statement and returns each recipient's new counter.
func (p *pgxChatRepository) IncrementUnread(ctx context.Context, groupID, senderID string) ([]UnreadDelta, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		UPDATE group_chat_meta
		SET unread_count = unread_count + 1
		WHERE group_id = $1 AND user_id <> $2 AND participant = true
		RETURNING user_id, unread_count
	`, groupID, senderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deltas []UnreadDelta
	for rows.Next() {
		d := UnreadDelta{GroupID: groupID}
		if err := rows.Scan(&d.UserID, &d.Count); err != nil {
			return nil, err
		}
		deltas = append(deltas, d)
	}
	return deltas, rows.Err()
}

// ReconcileUnread recomputes every counter from the unexpired messages
// behind it and returns the rows that changed. Counters drift when messages
// expire between a post and the next markRead.
func (p *pgxChatRepository) ReconcileUnread(ctx context.Context, now time.Time) ([]UnreadDelta, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		UPDATE group_chat_meta gm
		SET unread_count = live.cnt
		FROM (
			SELECT m.group_id, m.user_id, COUNT(g.id) AS cnt
			FROM group_chat_meta m
			LEFT JOIN group_messages g
				ON g.group_id = m.group_id
				AND g.sender_id <> m.user_id
				AND g.created_at > m.last_seen_at
				AND g.expires_at > $1
			WHERE m.participant = true
			GROUP BY m.group_id, m.user_id
		) live
		WHERE gm.group_id = live.group_id AND gm.user_id = live.user_id
			AND gm.unread_count <> live.cnt
		RETURNING gm.group_id, gm.user_id, gm.unread_count
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deltas []UnreadDelta
	for rows.Next() {
		var d UnreadDelta
		if err := rows.Scan(&d.GroupID, &d.UserID, &d.Count); err != nil {
			return nil, err
		}
		deltas = append(deltas, d)
	}
	return deltas, rows.Err()
}

func (p *pgxChatRepository) ResetUnread(ctx context.Context, groupID, userID string, now time.Time) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `
		UPDATE group_chat_meta
		SET unread_count = 0, last_seen_at = $3
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID, now)
	return err
}

func (p *pgxChatRepository) UnreadCounts(ctx context.Context, userID string) ([]models.ChatUnread, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT gm.group_id, gc.team_id, gm.unread_count
		FROM group_chat_meta gm
		INNER JOIN group_chats gc ON gm.group_id = gc.id
		WHERE gm.user_id = $1 AND gm.participant = true
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.ChatUnread
	for rows.Next() {
		var c models.ChatUnread
		if err := rows.Scan(&c.GroupID, &c.TeamID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (p *pgxChatRepository) DeleteExpiredMessages(ctx context.Context, now time.Time) (int64, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	tag, err := e.Exec(ctx, `DELETE FROM group_messages WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// OrphanChatIDs lists chats whose owning team no longer exists so the sweep
// can reconcile them.
func (p *pgxChatRepository) OrphanChatIDs(ctx context.Context) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT gc.id FROM group_chats gc
		WHERE NOT EXISTS (SELECT 1 FROM teams t WHERE t.id = gc.team_id)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
