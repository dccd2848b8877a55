package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/ranked-hc/models"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameConflict   = errors.New("team name conflict")
	ErrTeamNameInvalid    = errors.New("team name invalid")
	ErrTeamMemberConflict = errors.New("player already on team")
	ErrTeamMemberNotFound = errors.New("player not on team")
)

// Имена внешних ключей team_members из db/schema.sql.
const (
	MemberTeamConstraint   = "team_members_team_id_fkey"
	MemberPlayerConstraint = "team_members_abbreviation_fkey"
)

type TeamRepository interface {
	List(ctx context.Context, exec SQLExecutor) ([]models.Team, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	Rename(ctx context.Context, exec SQLExecutor, id int, name string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error

	ListMembers(ctx context.Context, exec SQLExecutor, teamID int) ([]string, error)
	AddMember(ctx context.Context, exec SQLExecutor, teamID int, abbreviation string) error
	RemoveMember(ctx context.Context, exec SQLExecutor, teamID int, abbreviation string) error
	ClearMembers(ctx context.Context, exec SQLExecutor, teamID int) error
	// ListTeamIDsByMember возвращает команды, в составе которых есть игрок.
	ListTeamIDsByMember(ctx context.Context, exec SQLExecutor, abbreviation string) ([]int, error)
	// RemovePlayerFromAll удаляет игрока из всех составов и возвращает затронутые команды.
	RemovePlayerFromAll(ctx context.Context, exec SQLExecutor, abbreviation string) ([]int, error)

	// SetRating вызывается только агрегатором рейтинга команды.
	SetRating(ctx context.Context, exec SQLExecutor, teamID int, rating int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Team, error) {
	executor := r.getExecutor(exec)

	query := `SELECT id, name, rating, created_at FROM teams ORDER BY rating DESC, name ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	index := make(map[int]int)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Rating, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		t.Roster = []string{}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := executor.QueryContext(ctx, `SELECT team_id, abbreviation FROM team_members ORDER BY team_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var teamID int
		var abbreviation string
		if err := memberRows.Scan(&teamID, &abbreviation); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		if i, ok := index[teamID]; ok {
			teams[i].Roster = append(teams[i].Roster, abbreviation)
		}
	}
	return teams, memberRows.Err()
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)

	var t models.Team
	query := `SELECT id, name, rating, created_at FROM teams WHERE id = $1`
	err := executor.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Rating, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	t.Roster, err = r.ListMembers(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `INSERT INTO teams (name, rating) VALUES ($1, $2) RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, team.Name, team.Rating).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return mapTeamWriteError(err)
	}
	return nil
}

func (r *postgresTeamRepository) Rename(ctx context.Context, exec SQLExecutor, id int, name string) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE teams SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return mapTeamWriteError(err)
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, exec SQLExecutor, teamID int) ([]string, error) {
	query := `SELECT abbreviation FROM team_members WHERE team_id = $1 ORDER BY position`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]string, 0)
	for rows.Next() {
		var abbreviation string
		if err := rows.Scan(&abbreviation); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, abbreviation)
	}
	return members, rows.Err()
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, exec SQLExecutor, teamID int, abbreviation string) error {
	query := `
		INSERT INTO team_members (team_id, abbreviation, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1
		FROM team_members WHERE team_id = $1`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, teamID, abbreviation)
	if err != nil {
		code, constraint := pqCode(err)
		switch {
		case code == uniqueViolation:
			return ErrTeamMemberConflict
		case code == foreignKeyViolation && constraint == MemberTeamConstraint:
			return ErrTeamNotFound
		case code == foreignKeyViolation && constraint == MemberPlayerConstraint:
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to add %q to team %d: %w", abbreviation, teamID, err)
	}
	return nil
}

func (r *postgresTeamRepository) RemoveMember(ctx context.Context, exec SQLExecutor, teamID int, abbreviation string) error {
	query := `DELETE FROM team_members WHERE team_id = $1 AND abbreviation = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, teamID, abbreviation)
	if err != nil {
		return fmt.Errorf("failed to remove %q from team %d: %w", abbreviation, teamID, err)
	}
	return checkRowsAffected(result, ErrTeamMemberNotFound)
}

func (r *postgresTeamRepository) ClearMembers(ctx context.Context, exec SQLExecutor, teamID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to clear members of team %d: %w", teamID, err)
	}
	return nil
}

func (r *postgresTeamRepository) ListTeamIDsByMember(ctx context.Context, exec SQLExecutor, abbreviation string) ([]int, error) {
	query := `SELECT team_id FROM team_members WHERE abbreviation = $1 ORDER BY team_id`
	return r.queryTeamIDs(ctx, exec, query, abbreviation)
}

func (r *postgresTeamRepository) RemovePlayerFromAll(ctx context.Context, exec SQLExecutor, abbreviation string) ([]int, error) {
	query := `DELETE FROM team_members WHERE abbreviation = $1 RETURNING team_id`
	return r.queryTeamIDs(ctx, exec, query, abbreviation)
}

func (r *postgresTeamRepository) queryTeamIDs(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]int, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query team ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresTeamRepository) SetRating(ctx context.Context, exec SQLExecutor, teamID int, rating int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `UPDATE teams SET rating = $1 WHERE id = $2`, rating, teamID)
	if err != nil {
		return fmt.Errorf("failed to set rating of team %d: %w", teamID, err)
	}
	return checkRowsAffected(result, ErrTeamNotFound)
}

func mapTeamWriteError(err error) error {
	switch code, _ := pqCode(err); code {
	case uniqueViolation:
		return ErrTeamNameConflict
	case checkViolation:
		return ErrTeamNameInvalid
	}
	return fmt.Errorf("failed to write team: %w", err)
}
