package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/ranked-hc/models"
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerConflict   = errors.New("player abbreviation conflict")
	ErrPlayerInvalid    = errors.New("player abbreviation invalid")
	ErrRatingOutOfRange = errors.New("player rating does not fit INTEGER")
)

type PlayerRepository interface {
	List(ctx context.Context, exec SQLExecutor) ([]models.Player, error)
	GetByAbbreviation(ctx context.Context, exec SQLExecutor, abbreviation string) (*models.Player, error)
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	// Upsert вставляет игрока или обновляет рейтинг существующего.
	Upsert(ctx context.Context, exec SQLExecutor, player *models.Player) error
	// Update переименовывает и/или меняет рейтинг игрока abbreviation.
	// Составы команд следуют за переименованием через ON UPDATE CASCADE.
	Update(ctx context.Context, exec SQLExecutor, abbreviation string, player *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, abbreviation string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) List(ctx context.Context, exec SQLExecutor) ([]models.Player, error) {
	query := `
		SELECT abbreviation, rating, created_at, updated_at
		FROM players
		ORDER BY rating DESC, abbreviation ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.Abbreviation, &p.Rating, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) GetByAbbreviation(ctx context.Context, exec SQLExecutor, abbreviation string) (*models.Player, error) {
	query := `SELECT abbreviation, rating, created_at, updated_at FROM players WHERE abbreviation = $1`

	var p models.Player
	err := r.getExecutor(exec).QueryRowContext(ctx, query, abbreviation).
		Scan(&p.Abbreviation, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %q: %w", abbreviation, err)
	}
	return &p, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (abbreviation, rating)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, player.Abbreviation, player.Rating).
		Scan(&player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return mapPlayerWriteError(err)
	}
	return nil
}

func (r *postgresPlayerRepository) Upsert(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (abbreviation, rating)
		VALUES ($1, $2)
		ON CONFLICT (abbreviation) DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
		RETURNING created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, player.Abbreviation, player.Rating).
		Scan(&player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return mapPlayerWriteError(err)
	}
	return nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, abbreviation string, player *models.Player) error {
	query := `
		UPDATE players SET
			abbreviation = $1,
			rating = $2,
			updated_at = now()
		WHERE abbreviation = $3
		RETURNING created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, player.Abbreviation, player.Rating, abbreviation).
		Scan(&player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlayerNotFound
		}
		return mapPlayerWriteError(err)
	}
	return nil
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, abbreviation string) error {
	query := `DELETE FROM players WHERE abbreviation = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, abbreviation)
	if err != nil {
		return fmt.Errorf("failed to delete player %q: %w", abbreviation, err)
	}
	return checkRowsAffected(result, ErrPlayerNotFound)
}

func mapPlayerWriteError(err error) error {
	switch code, _ := pqCode(err); code {
	case uniqueViolation:
		return ErrPlayerConflict
	case checkViolation:
		return ErrPlayerInvalid
	case numericOutOfRange:
		return ErrRatingOutOfRange
	}
	return fmt.Errorf("failed to write player: %w", err)
}
