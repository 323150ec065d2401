package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grims-squad/clan-backend/models"
)

var ErrStatsNotFound = errors.New("player stats not found")

type StatsRepository interface {
	GetByProfileID(ctx context.Context, profileID int) (*models.PlayerStats, error)
	Upsert(ctx context.Context, stats *models.PlayerStats) error
}

type postgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) GetByProfileID(ctx context.Context, profileID int) (*models.PlayerStats, error) {
	query := `
		SELECT profile_id, tournaments_played, tournaments_won, updated_at
		FROM player_stats
		WHERE profile_id = $1`

	s := &models.PlayerStats{}
	err := r.db.QueryRowContext(ctx, query, profileID).Scan(
		&s.ProfileID, &s.TournamentsPlayed, &s.TournamentsWon, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *postgresStatsRepository) Upsert(ctx context.Context, s *models.PlayerStats) error {
	query := `
		INSERT INTO player_stats (profile_id, tournaments_played, tournaments_won, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile_id) DO UPDATE SET
			tournaments_played = EXCLUDED.tournaments_played,
			tournaments_won = EXCLUDED.tournaments_won,
			updated_at = NOW()
		RETURNING updated_at`

	return r.db.QueryRowContext(ctx, query, s.ProfileID, s.TournamentsPlayed, s.TournamentsWon).Scan(&s.UpdatedAt)
}
