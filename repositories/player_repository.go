package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grims-squad/clan-backend/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerNameConflict = errors.New("player name conflict")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Player, error)
	GetByProfileID(ctx context.Context, profileID int) (*models.Player, error)
	// AddPoints increments total_points server-side, so two racing batches
	// cannot lose an update.
	AddPoints(ctx context.Context, exec SQLExecutor, name string, points int) error
	SetTotalPoints(ctx context.Context, exec SQLExecutor, id, points int) error
	UpdateRank(ctx context.Context, exec SQLExecutor, id, rank int) error
	// ListByTotalPoints returns every player ordered by total_points DESC
	// with player_name ASC breaking ties.
	ListByTotalPoints(ctx context.Context, exec SQLExecutor) ([]*models.Player, error)
	ListByRank(ctx context.Context, limit int) ([]models.Player, error)
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

const playerColumns = `id, player_name, total_points, rank, user_profile_id, created_at, updated_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (player_name, total_points, rank, user_profile_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		p.PlayerName, p.TotalPoints, p.Rank, p.UserProfileID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "players_player_name_key" {
				return ErrPlayerNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) scanPlayer(row interface{ Scan(...interface{}) error }) (*models.Player, error) {
	p := &models.Player{}
	err := row.Scan(&p.ID, &p.PlayerName, &p.TotalPoints, &p.Rank, &p.UserProfileID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_name = $1`
	return r.scanPlayer(executor.QueryRowContext(ctx, query, name))
}

func (r *postgresPlayerRepository) GetByProfileID(ctx context.Context, profileID int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE user_profile_id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, profileID))
}

func (r *postgresPlayerRepository) AddPoints(ctx context.Context, exec SQLExecutor, name string, points int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE players
		SET total_points = total_points + $1, updated_at = NOW()
		WHERE player_name = $2`
	result, err := executor.ExecContext(ctx, query, points, name)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) SetTotalPoints(ctx context.Context, exec SQLExecutor, id, points int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE players SET total_points = $1, updated_at = NOW() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, points, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateRank(ctx context.Context, exec SQLExecutor, id, rank int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE players SET rank = $1 WHERE id = $2`, rank, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) ListByTotalPoints(ctx context.Context, exec SQLExecutor) ([]*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY total_points DESC, player_name ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p, scanErr := r.scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) ListByRank(ctx context.Context, limit int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY rank ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, scanErr := r.scanPlayer(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		players = append(players, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
