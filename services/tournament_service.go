package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
	"github.com/grims-squad/clan-backend/storage"
)

type CreateTournamentInput struct {
	Name        string     `json:"name"`
	Mode        string     `json:"mode"`
	Description *string    `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Status      string     `json:"status,omitempty"`
}

type UpdateTournamentStatusInput struct {
	Status     string  `json:"status"`
	WinnerName *string `json:"winner_name,omitempty"`
}

type TournamentService struct {
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Mode = strings.TrimSpace(input.Mode)
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Mode == "" {
		return nil, ErrTournamentModeRequired
	}
	if input.StartTime.IsZero() {
		return nil, ErrValidationFailed
	}

	status := models.StatusUpcoming
	if input.Status != "" {
		status = models.TournamentStatus(input.Status)
		if !status.Valid() {
			return nil, ErrTournamentInvalidStatus
		}
	}

	tournament := &models.Tournament{
		Name:           input.Name,
		Mode:           input.Mode,
		Description:    input.Description,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		Status:         status,
		ResultsEntered: false,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.fillImageURL(tournament)
	return tournament, nil
}

func (s *TournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	s.fillImageURL(tournament)
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for i := range tournaments {
		s.fillImageURL(&tournaments[i])
	}
	return tournaments, nil
}

// UpdateStatus is the operator status edit. It may also set or clear the
// declared winner name; results_entered is never touched here, only by the
// ingestion pipeline.
func (s *TournamentService) UpdateStatus(ctx context.Context, id int, input UpdateTournamentStatusInput) (*models.Tournament, error) {
	status := models.TournamentStatus(input.Status)
	if !status.Valid() {
		return nil, ErrTournamentInvalidStatus
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, status); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament status: %w", err)
	}

	if input.WinnerName != nil {
		if err := s.tournamentRepo.UpdateWinner(ctx, nil, id, input.WinnerName); err != nil {
			return nil, fmt.Errorf("failed to update tournament winner: %w", err)
		}
	}

	return s.GetTournamentByID(ctx, id)
}

// UploadImage stores a new tournament image in the object store and swaps
// the stored key, deleting the previous image afterwards.
func (s *TournamentService) UploadImage(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	ext, err := contentTypeExtension(contentType)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("tournaments/%s.%s", uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload tournament image: %w", err)
	}

	oldKey := tournament.ImageKey
	if err := s.tournamentRepo.UpdateImageKey(ctx, id, &key); err != nil {
		return nil, fmt.Errorf("failed to save tournament image key: %w", err)
	}

	if oldKey != nil {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous tournament image",
				slog.String("key", *oldKey),
				slog.Any("error", delErr),
			)
		}
	}

	tournament.ImageKey = &key
	s.fillImageURL(tournament)
	return tournament, nil
}

// AutoUpdateTournamentStatuses flips upcoming tournaments to live once
// their start time has passed. Run periodically by the scheduler goroutine.
func (s *TournamentService) AutoUpdateTournamentStatuses(ctx context.Context) error {
	due, err := s.tournamentRepo.ListDueForStart(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list tournaments due for start: %w", err)
	}

	for _, t := range due {
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, models.StatusLive); err != nil {
			s.logger.Error("failed to mark tournament live",
				slog.Int("tournament_id", t.ID),
				slog.Any("error", err),
			)
			continue
		}
		s.logger.Info("tournament is now live",
			slog.Int("tournament_id", t.ID),
			slog.String("name", t.Name),
		)
	}
	return nil
}

func (s *TournamentService) fillImageURL(t *models.Tournament) {
	if s.uploader == nil || t.ImageKey == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*t.ImageKey); url != "" {
		t.ImageURL = &url
	}
}
