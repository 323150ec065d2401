package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
	"github.com/grims-squad/clan-backend/storage"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

type UpdateProfileInput struct {
	GameLevel       int     `json:"game_level"`
	Clan            *string `json:"clan,omitempty"`
	MainWeapon      *string `json:"main_weapon,omitempty"`
	FavoriteMode    *string `json:"favorite_mode,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	IsPublic        bool    `json:"is_public"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty"`
}

// PublicProfile is the composite served by the public profile page: the
// profile itself, the participation stats and the leaderboard entry, either
// of which may be absent for members who never played a tournament.
type PublicProfile struct {
	Profile     *models.UserProfile `json:"profile"`
	Stats       *models.PlayerStats `json:"stats,omitempty"`
	Leaderboard *models.Player      `json:"leaderboard,omitempty"`
}

type ProfileService struct {
	profileRepo repositories.ProfileRepository
	statsRepo   repositories.StatsRepository
	playerRepo  repositories.PlayerRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	statsRepo repositories.StatsRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		statsRepo:   statsRepo,
		playerRepo:  playerRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

// GetPublicProfile loads a member's public page data. Stats and the
// leaderboard entry are fetched concurrently once the profile is known.
func (s *ProfileService) GetPublicProfile(ctx context.Context, inGameName string) (*PublicProfile, error) {
	profile, err := s.profileRepo.GetByInGameName(ctx, inGameName)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if !profile.IsPublic {
		return nil, ErrProfileNotFound
	}
	profile.PasswordHash = ""
	s.fillAvatarURL(profile)

	result := &PublicProfile{Profile: profile}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.statsRepo.GetByProfileID(gCtx, profile.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrStatsNotFound) {
				return nil
			}
			return err
		}
		result.Stats = stats
		return nil
	})
	g.Go(func() error {
		player, err := s.playerRepo.GetByProfileID(gCtx, profile.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return nil
			}
			return err
		}
		result.Leaderboard = player
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile data for %q: %w", inGameName, err)
	}

	return result, nil
}

// ListRegisteredPlayers returns every public profile, for the registered
// players page.
func (s *ProfileService) ListRegisteredPlayers(ctx context.Context) ([]models.UserProfile, error) {
	profiles, err := s.profileRepo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public profiles: %w", err)
	}
	for i := range profiles {
		profiles[i].PasswordHash = ""
		s.fillAvatarURL(&profiles[i])
	}
	return profiles, nil
}

// UpdateProfile edits the caller's own profile. Changing the password
// requires the current one.
func (s *ProfileService) UpdateProfile(ctx context.Context, profileID int, input UpdateProfileInput) (*models.UserProfile, error) {
	if input.GameLevel < 1 || input.GameLevel > 400 {
		return nil, ErrInvalidGameLevel
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if input.NewPassword != "" {
		if len(input.NewPassword) < 6 {
			return nil, ErrPasswordTooShort
		}
		if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.CurrentPassword)); err != nil {
			return nil, ErrCurrentPasswordIncorrect
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		profile.PasswordHash = string(hashed)
	}

	profile.GameLevel = input.GameLevel
	profile.Clan = input.Clan
	profile.MainWeapon = input.MainWeapon
	profile.FavoriteMode = input.FavoriteMode
	profile.Bio = input.Bio
	profile.IsPublic = input.IsPublic

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	profile.PasswordHash = ""
	s.fillAvatarURL(profile)
	return profile, nil
}

func (s *ProfileService) UploadAvatar(ctx context.Context, profileID int, contentType string, file io.Reader) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	ext, err := contentTypeExtension(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("avatars/%s.%s", uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	oldKey := profile.AvatarKey
	if err := s.profileRepo.UpdateAvatarKey(ctx, profileID, &key); err != nil {
		return nil, fmt.Errorf("failed to save avatar key: %w", err)
	}

	if oldKey != nil {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous avatar",
				slog.String("key", *oldKey),
				slog.Any("error", delErr),
			)
		}
	}

	profile.PasswordHash = ""
	profile.AvatarKey = &key
	s.fillAvatarURL(profile)
	return profile, nil
}

func (s *ProfileService) DeleteAvatar(ctx context.Context, profileID int) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	if profile.AvatarKey == nil {
		return nil
	}

	if err := s.profileRepo.UpdateAvatarKey(ctx, profileID, nil); err != nil {
		return fmt.Errorf("failed to clear avatar key: %w", err)
	}
	if err := s.uploader.Delete(ctx, *profile.AvatarKey); err != nil {
		s.logger.Warn("failed to delete avatar object",
			slog.String("key", *profile.AvatarKey),
			slog.Any("error", err),
		)
	}
	return nil
}

// SetStats is the admin override for a member's participation stats.
func (s *ProfileService) SetStats(ctx context.Context, inGameName string, played, won int) (*models.PlayerStats, error) {
	if played < 0 || won < 0 || won > played {
		return nil, ErrValidationFailed
	}
	profile, err := s.profileRepo.GetByInGameName(ctx, inGameName)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	stats := &models.PlayerStats{
		ProfileID:         profile.ID,
		TournamentsPlayed: played,
		TournamentsWon:    won,
	}
	if err := s.statsRepo.Upsert(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to upsert stats: %w", err)
	}
	return stats, nil
}

func (s *ProfileService) fillAvatarURL(p *models.UserProfile) {
	if s.uploader == nil || p.AvatarKey == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*p.AvatarKey); url != "" {
		p.AvatarURL = &url
	}
}
