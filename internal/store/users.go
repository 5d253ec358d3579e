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

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	AddFriendEdge(ctx context.Context, userID, friendID string) error
	RemoveFriendEdge(ctx context.Context, userID, friendID string) error
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
	Friends(ctx context.Context, userID string) ([]*models.User, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgxUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgxUserRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, avatar, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Avatar,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *pgxUserRepository) Create(ctx context.Context, user *models.User) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	err := e.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, user.ID, user.Username, user.Email, user.Password, user.Avatar).
		Scan(&user.CreatedAt, &user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrAlreadyExists
	}
	return err
}

func (p *pgxUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)
	return scanUser(e.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (p *pgxUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)
	return scanUser(e.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (p *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)
	return scanUser(e.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// AddFriendEdge inserts both directions of the symmetric edge. Re-adding an
// existing friend is a no-op.
func (p *pgxUserRepository) AddFriendEdge(ctx context.Context, userID, friendID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING
	`, userID, friendID)
	return err
}

func (p *pgxUserRepository) RemoveFriendEdge(ctx context.Context, userID, friendID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	tag, err := e.Exec(ctx, `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`, userID, friendID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *pgxUserRepository) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var exists bool
	err := e.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)
	`, userID, friendID).Scan(&exists)
	return exists, err
}

func (p *pgxUserRepository) Friends(ctx context.Context, userID string) ([]*models.User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.avatar, u.created_at, u.updated_at
		FROM friendships f
		INNER JOIN users u ON f.friend_id = u.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Avatar,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		friends = append(friends, &u)
	}
	return friends, rows.Err()
}
