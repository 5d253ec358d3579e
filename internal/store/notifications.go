package store

import (
	"context"

	"github.com/Pratham2994/Symbiote-sub000/internal/db"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	Delete(ctx context.Context, id string) error
	// DeleteByAction removes every notification tied to a request id and
	// returns them so events can be published per recipient.
	DeleteByAction(ctx context.Context, actionID string) ([]*models.Notification, error)
	ListActionable(ctx context.Context, recipientID string) ([]*models.Notification, error)
	ListUnseenNonActionable(ctx context.Context, recipientID string) ([]*models.Notification, error)
	MarkSeen(ctx context.Context, ids []string) error
	MarkRead(ctx context.Context, recipientID, id string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	DeleteSeenNonActionable(ctx context.Context, recipientID string) ([]string, error)
	CountForRecipient(ctx context.Context, recipientID string) (int, error)
}

type pgxNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgxNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &pgxNotificationRepository{pool: pool}
}

const notificationColumns = `id, recipient_id, sender_id, type, message,
	action_required, action_id, team_id, read, seen, created_at`

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Message,
		&n.ActionRequired, &n.ActionID, &n.TeamID, &n.Read, &n.Seen, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (p *pgxNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	return e.QueryRow(ctx, `
		INSERT INTO notifications (id, recipient_id, sender_id, type, message,
			action_required, action_id, team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, n.ID, n.RecipientID, n.SenderID, n.Type, n.Message,
		n.ActionRequired, n.ActionID, n.TeamID).Scan(&n.CreatedAt)
}

func (p *pgxNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)
	return scanNotification(e.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
}

func (p *pgxNotificationRepository) Delete(ctx context.Context, id string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	tag, err := e.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *pgxNotificationRepository) DeleteByAction(ctx context.Context, actionID string) ([]*models.Notification, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		DELETE FROM notifications WHERE action_id = $1
		RETURNING `+notificationColumns, actionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (p *pgxNotificationRepository) ListActionable(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_id = $1 AND action_required = true
		ORDER BY created_at DESC
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (p *pgxNotificationRepository) ListUnseenNonActionable(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_id = $1 AND action_required = false AND seen = false
		ORDER BY created_at DESC
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (p *pgxNotificationRepository) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `UPDATE notifications SET seen = true WHERE id = ANY($1)`, ids)
	return err
}

func (p *pgxNotificationRepository) MarkRead(ctx context.Context, recipientID, id string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	tag, err := e.Exec(ctx, `
		UPDATE notifications SET read = true WHERE id = $1 AND recipient_id = $2
	`, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *pgxNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `
		UPDATE notifications SET read = true, seen = true WHERE recipient_id = $1
	`, recipientID)
	return err
}

// DeleteSeenNonActionable is the fetch-time eviction: a non-actionable
// notification already shown once never re-surfaces. Returns the evicted ids
// so the caller can announce them.
func (p *pgxNotificationRepository) DeleteSeenNonActionable(ctx context.Context, recipientID string) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		DELETE FROM notifications
		WHERE recipient_id = $1 AND action_required = false AND seen = true
		RETURNING id
	`, recipientID)
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

func (p *pgxNotificationRepository) CountForRecipient(ctx context.Context, recipientID string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var count int
	err := e.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE recipient_id = $1
	`, recipientID).Scan(&count)
	return count, err
}

func collectNotifications(rows pgx.Rows) ([]*models.Notification, error) {
	var list []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Message,
			&n.ActionRequired, &n.ActionID, &n.TeamID, &n.Read, &n.Seen, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
