package store

import (
	"context"

	"github.com/Pratham2994/Symbiote-sub000/internal/db"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type RequestRepository interface {
	Create(ctx context.Context, req *models.RelationshipRequest) error
	GetByID(ctx context.Context, id string) (*models.RelationshipRequest, error)
	ResolveIfPending(ctx context.Context, id string, status models.RequestStatus) (*models.RelationshipRequest, error)
	ListPendingForUser(ctx context.Context, kind models.RequestKind, userID string) ([]*models.RequestWithUsers, error)
	DeletePendingForTeam(ctx context.Context, teamID string) ([]string, error)
}

type pgxRequestRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &pgxRequestRepository{pool: pool}
}

const requestColumns = `id, kind, from_id, to_id, team_id, status, created_at, resolved_at`

func scanRequest(row pgx.Row) (*models.RelationshipRequest, error) {
	var r models.RelationshipRequest
	err := row.Scan(&r.ID, &r.Kind, &r.FromID, &r.ToID, &r.TeamID, &r.Status,
		&r.CreatedAt, &r.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a pending request. The partial unique indexes reject a
// second pending request for the same ordered pair / (user, team) pair.
func (p *pgxRequestRepository) Create(ctx context.Context, req *models.RelationshipRequest) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.StatusPending

	err := e.QueryRow(ctx, `
		INSERT INTO relationship_requests (id, kind, from_id, to_id, team_id, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING created_at
	`, req.ID, req.Kind, req.FromID, req.ToID, req.TeamID).Scan(&req.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func (p *pgxRequestRepository) GetByID(ctx context.Context, id string) (*models.RelationshipRequest, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)
	return scanRequest(e.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM relationship_requests WHERE id = $1`, id))
}

// ResolveIfPending flips a pending request to the given terminal status in a
// single guarded update. Zero rows means a concurrent resolution won;
// callers get ErrAlreadyResolved (or ErrNotFound for unknown ids) and must
// not apply side effects.
func (p *pgxRequestRepository) ResolveIfPending(ctx context.Context, id string, status models.RequestStatus) (*models.RelationshipRequest, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	req, err := scanRequest(e.QueryRow(ctx, `
		UPDATE relationship_requests
		SET status = $1, resolved_at = now()
		WHERE id = $2 AND status = 'pending'
		RETURNING `+requestColumns+`
	`, status, id))
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing request from a lost race.
		if _, getErr := p.GetByID(ctx, id); getErr == nil {
			return nil, ErrAlreadyResolved
		}
		return nil, ErrNotFound
	}
	return req, err
}

// ListPendingForUser returns pending requests involving the user, joined
// with both parties for display.
func (p *pgxRequestRepository) ListPendingForUser(ctx context.Context, kind models.RequestKind, userID string) ([]*models.RequestWithUsers, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT r.id, r.kind, r.team_id, r.status, r.created_at,
			f.id, f.username, f.email, f.avatar, f.created_at,
			t.id, t.username, t.email, t.avatar, t.created_at
		FROM relationship_requests r
		INNER JOIN users f ON r.from_id = f.id
		INNER JOIN users t ON r.to_id = t.id
		WHERE r.kind = $1 AND r.status = 'pending' AND (r.from_id = $2 OR r.to_id = $2)
		ORDER BY r.created_at DESC
	`, kind, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.RequestWithUsers
	for rows.Next() {
		var r models.RequestWithUsers
		if err := rows.Scan(&r.ID, &r.Kind, &r.TeamID, &r.Status, &r.CreatedAt,
			&r.From.ID, &r.From.Username, &r.From.Email, &r.From.Avatar, &r.From.CreatedAt,
			&r.To.ID, &r.To.Username, &r.To.Email, &r.To.Avatar, &r.To.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}

// DeletePendingForTeam removes every pending invite/join request targeting
// the team and returns their ids so callers can evict the actionable
// notifications tied to them.
func (p *pgxRequestRepository) DeletePendingForTeam(ctx context.Context, teamID string) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		DELETE FROM relationship_requests
		WHERE team_id = $1 AND status = 'pending'
		RETURNING id
	`, teamID)
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
