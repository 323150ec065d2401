package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grims-squad/clan-backend/models"
	"github.com/lib/pq"
)

var ErrResultTournamentInvalid = errors.New("result references an unknown tournament")

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.TournamentResult) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentResult, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.TournamentResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_results (tournament_id, player_name, points)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		result.TournamentID, result.PlayerName, result.Points,
	).Scan(&result.ID, &result.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "tournament_results_tournament_id_fkey" {
				return ErrResultTournamentInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresResultRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentResult, error) {
	query := `
		SELECT id, tournament_id, player_name, points, created_at
		FROM tournament_results
		WHERE tournament_id = $1
		ORDER BY points DESC, player_name ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.TournamentResult, 0)
	for rows.Next() {
		var res models.TournamentResult
		if scanErr := rows.Scan(&res.ID, &res.TournamentID, &res.PlayerName, &res.Points, &res.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
