package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	InGameName   string  `json:"in_game_name"`
	Password     string  `json:"password"`
	GameLevel    int     `json:"game_level"`
	Clan         *string `json:"clan,omitempty"`
	MainWeapon   *string `json:"main_weapon,omitempty"`
	FavoriteMode *string `json:"favorite_mode,omitempty"`
	Bio          *string `json:"bio,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.UserProfile, error)
	Login(ctx context.Context, credentials models.Credentials) (*models.UserProfile, error)
}

type authService struct {
	profileRepo repositories.ProfileRepository
}

func NewAuthService(profileRepo repositories.ProfileRepository) AuthService {
	return &authService{profileRepo: profileRepo}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.UserProfile, error) {
	input.InGameName = strings.TrimSpace(input.InGameName)
	if input.InGameName == "" {
		return nil, ErrValidationFailed
	}
	if len(input.Password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if input.GameLevel < 1 || input.GameLevel > 400 {
		return nil, ErrInvalidGameLevel
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.UserProfile{
		InGameName:   input.InGameName,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleMember,
		GameLevel:    input.GameLevel,
		Clan:         input.Clan,
		MainWeapon:   input.MainWeapon,
		FavoriteMode: input.FavoriteMode,
		Bio:          input.Bio,
		IsPublic:     true,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrProfileNameConflict) {
			return nil, ErrProfileNameConflict
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) Login(ctx context.Context, credentials models.Credentials) (*models.UserProfile, error) {
	if credentials.InGameName == "" || credentials.Password == "" {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profileRepo.GetByInGameName(ctx, credentials.InGameName)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(credentials.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	profile.PasswordHash = ""
	return profile, nil
}
