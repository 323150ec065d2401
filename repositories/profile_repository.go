package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grims-squad/clan-backend/models"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound     = errors.New("user profile not found")
	ErrProfileNameConflict = errors.New("in-game name is already taken")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, id int) (*models.UserProfile, error)
	GetByInGameName(ctx context.Context, inGameName string) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) error
	UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error
	ListPublic(ctx context.Context) ([]models.UserProfile, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

const profileColumns = `
	id, in_game_name, password_hash, role, game_level, clan, main_weapon,
	favorite_mode, bio, is_public, avatar_key, created_at`

func (r *postgresProfileRepository) Create(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles
			(in_game_name, password_hash, role, game_level, clan, main_weapon, favorite_mode, bio, is_public, avatar_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.InGameName, p.PasswordHash, p.Role, p.GameLevel, p.Clan,
		p.MainWeapon, p.FavoriteMode, p.Bio, p.IsPublic, p.AvatarKey,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "user_profiles_in_game_name_key" {
				return ErrProfileNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresProfileRepository) scanProfile(row interface{ Scan(...interface{}) error }) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	err := row.Scan(
		&p.ID, &p.InGameName, &p.PasswordHash, &p.Role, &p.GameLevel, &p.Clan,
		&p.MainWeapon, &p.FavoriteMode, &p.Bio, &p.IsPublic, &p.AvatarKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id int) (*models.UserProfile, error) {
	query := `SELECT` + profileColumns + ` FROM user_profiles WHERE id = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresProfileRepository) GetByInGameName(ctx context.Context, inGameName string) (*models.UserProfile, error) {
	query := `SELECT` + profileColumns + ` FROM user_profiles WHERE in_game_name = $1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, inGameName))
}

func (r *postgresProfileRepository) Update(ctx context.Context, p *models.UserProfile) error {
	query := `
		UPDATE user_profiles SET
			password_hash = $1,
			game_level = $2,
			clan = $3,
			main_weapon = $4,
			favorite_mode = $5,
			bio = $6,
			is_public = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		p.PasswordHash, p.GameLevel, p.Clan, p.MainWeapon, p.FavoriteMode, p.Bio, p.IsPublic, p.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE user_profiles SET avatar_key = $1 WHERE id = $2`, avatarKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) ListPublic(ctx context.Context) ([]models.UserProfile, error) {
	query := `SELECT` + profileColumns + ` FROM user_profiles WHERE is_public = TRUE ORDER BY in_game_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.UserProfile, 0)
	for rows.Next() {
		p, scanErr := r.scanProfile(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		profiles = append(profiles, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
