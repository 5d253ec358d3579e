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

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Team, error)
	SetGroupChatID(ctx context.Context, teamID, groupChatID string) error
	Delete(ctx context.Context, teamID string) error

	Members(ctx context.Context, teamID string) ([]*models.User, error)
	MemberIDs(ctx context.Context, teamID string) ([]string, error)
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
	AddMember(ctx context.Context, teamID, competitionID, userID string) error
	RemoveMember(ctx context.Context, teamID, competitionID, userID string) error
	IsOnTeamForCompetition(ctx context.Context, competitionID, userID string) (bool, error)
	UsersWithoutTeam(ctx context.Context, competitionID, excludeUserID string) ([]*models.User, error)
}

type pgxTeamRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgxTeamRepository{pool: pool}
}

const teamColumns = `id, name, competition_id, created_by, group_chat_id, created_at, updated_at`

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.CompetitionID, &t.CreatedBy,
		&t.GroupChatID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (p *pgxTeamRepository) Create(ctx context.Context, team *models.Team) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	if team.ID == "" {
		team.ID = uuid.NewString()
	}

	return e.QueryRow(ctx, `
		INSERT INTO teams (id, name, competition_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, team.ID, team.Name, team.CompetitionID, team.CreatedBy).
		Scan(&team.CreatedAt, &team.UpdatedAt)
}

func (p *pgxTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)
	return scanTeam(e.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
}

func (p *pgxTeamRepository) ListByUser(ctx context.Context, userID string) ([]*models.Team, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT t.id, t.name, t.competition_id, t.created_by, t.group_chat_id, t.created_at, t.updated_at
		FROM teams t
		INNER JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CompetitionID, &t.CreatedBy,
			&t.GroupChatID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}

func (p *pgxTeamRepository) SetGroupChatID(ctx context.Context, teamID, groupChatID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	tag, err := e.Exec(ctx, `
		UPDATE teams SET group_chat_id = $1, updated_at = now() WHERE id = $2
	`, groupChatID, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the team; team_members and competition_members rows cascade.
func (p *pgxTeamRepository) Delete(ctx context.Context, teamID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	tag, err := e.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *pgxTeamRepository) Members(ctx context.Context, teamID string) ([]*models.User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.avatar, u.created_at, u.updated_at
		FROM team_members tm
		INNER JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at ASC
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Avatar,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, &u)
	}
	return members, rows.Err()
}

func (p *pgxTeamRepository) MemberIDs(ctx context.Context, teamID string) ([]string, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY joined_at ASC
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

func (p *pgxTeamRepository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var exists bool
	err := e.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	return exists, err
}

// AddMember appends a user to the team and claims their competition slot.
// The competition_members primary key makes the one-team-per-competition
// check and the append a single atomic step: a concurrent acceptance that
// lost the race fails here with ErrAlreadyOnTeam instead of corrupting
// membership. Run inside WithinTransaction with the status flip.
func (p *pgxTeamRepository) AddMember(ctx context.Context, teamID, competitionID, userID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	_, err := e.Exec(ctx, `
		INSERT INTO competition_members (competition_id, user_id, team_id)
		VALUES ($1, $2, $3)
	`, competitionID, userID, teamID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyOnTeam
		}
		return err
	}

	_, err = e.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
	`, teamID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (p *pgxTeamRepository) RemoveMember(ctx context.Context, teamID, competitionID, userID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	tag, err := e.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = e.Exec(ctx, `
		DELETE FROM competition_members
		WHERE competition_id = $1 AND user_id = $2 AND team_id = $3
	`, competitionID, userID, teamID)
	return err
}

func (p *pgxTeamRepository) IsOnTeamForCompetition(ctx context.Context, competitionID, userID string) (bool, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	var exists bool
	err := e.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM competition_members WHERE competition_id = $1 AND user_id = $2)
	`, competitionID, userID).Scan(&exists)
	return exists, err
}

// UsersWithoutTeam returns suggestion candidates: users not yet on any team
// for the competition.
func (p *pgxTeamRepository) UsersWithoutTeam(ctx context.Context, competitionID, excludeUserID string) ([]*models.User, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	rows, err := e.Query(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.avatar, u.created_at, u.updated_at
		FROM users u
		WHERE u.id <> $2
		AND NOT EXISTS (
			SELECT 1 FROM competition_members cm
			WHERE cm.competition_id = $1 AND cm.user_id = u.id
		)
		ORDER BY u.created_at ASC
	`, competitionID, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Avatar,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
