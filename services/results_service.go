package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
)

// ResultEntry is one submitted (player, points) pair. Points is a pointer so
// entries that never filled the field in the admin form can be told apart
// from an explicit zero.
type ResultEntry struct {
	PlayerName string `json:"player_name"`
	Points     *int   `json:"points"`
}

// ResultsService is the entry point of the results-to-leaderboard
// reconciliation pipeline: it records immutable per-tournament result rows,
// keeps the per-player aggregates in step, and marks the tournament
// completed once the batch is in.
type ResultsService struct {
	resultRepo     repositories.ResultRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	profileRepo    repositories.ProfileRepository
	leaderboard    *LeaderboardService
	txManager      TransactionManager
	logger         *slog.Logger
}

func NewResultsService(
	resultRepo repositories.ResultRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	profileRepo repositories.ProfileRepository,
	leaderboard *LeaderboardService,
	txManager TransactionManager,
	logger *slog.Logger,
) *ResultsService {
	return &ResultsService{
		resultRepo:     resultRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		profileRepo:    profileRepo,
		leaderboard:    leaderboard,
		txManager:      txManager,
		logger:         logger,
	}
}

// SubmitTournamentResults ingests a batch of results for one tournament.
//
// Entries missing a player name or a points value are skipped, not rejected:
// partial batches from the admin form are expected. For each remaining entry,
// in list order, one TournamentResult row is inserted and the named player's
// aggregate is incremented (created with the entry's points if the name has
// never been seen). Ranks are then recalculated once for the whole batch and
// the tournament is marked completed with results_entered set.
//
// The batch, the rank pass and the status flip run inside one transaction:
// a storage failure anywhere leaves no partial state behind. A tournament
// whose results were already entered rejects the batch outright, so
// re-submitting cannot double count.
func (s *ResultsService) SubmitTournamentResults(ctx context.Context, tournamentID int, entries []ResultEntry) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if tournament.ResultsEntered {
		return ErrResultsAlreadyEntered
	}

	valid := make([]ResultEntry, 0, len(entries))
	for _, e := range entries {
		e.PlayerName = strings.TrimSpace(e.PlayerName)
		if e.PlayerName == "" || e.Points == nil {
			continue
		}
		valid = append(valid, e)
	}
	if len(valid) == 0 {
		return ErrEmptyResultsBatch
	}

	err = s.txManager.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		for _, entry := range valid {
			if err := s.ingestEntry(ctx, exec, tournamentID, entry); err != nil {
				return err
			}
		}

		if err := s.leaderboard.RecalculateRanks(ctx, exec); err != nil {
			return err
		}

		if err := s.tournamentRepo.MarkResultsEntered(ctx, exec, tournamentID); err != nil {
			return fmt.Errorf("failed to mark tournament %d completed: %w", tournamentID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("tournament results ingested",
		slog.Int("tournament_id", tournamentID),
		slog.Int("entries", len(valid)),
	)

	s.leaderboard.notifyLeaderboardUpdated(ctx)
	return nil
}

func (s *ResultsService) ingestEntry(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, entry ResultEntry) error {
	result := &models.TournamentResult{
		TournamentID: tournamentID,
		PlayerName:   entry.PlayerName,
		Points:       *entry.Points,
	}
	if err := s.resultRepo.Create(ctx, exec, result); err != nil {
		return fmt.Errorf("failed to record result for %q: %w", entry.PlayerName, err)
	}

	// Atomic server-side increment; the read-then-write pattern would lose
	// updates under concurrent batches.
	err := s.playerRepo.AddPoints(ctx, exec, entry.PlayerName, *entry.Points)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrPlayerNotFound) {
		return fmt.Errorf("failed to add points for %q: %w", entry.PlayerName, err)
	}

	// First appearance of this name: create the aggregate with rank 0. The
	// placeholder is corrected by the recalculation pass before commit.
	player := &models.Player{
		PlayerName:    entry.PlayerName,
		TotalPoints:   *entry.Points,
		Rank:          0,
		UserProfileID: s.lookupProfileID(ctx, entry.PlayerName),
	}
	createErr := s.playerRepo.Create(ctx, exec, player)
	if createErr == nil {
		return nil
	}
	if errors.Is(createErr, repositories.ErrPlayerNameConflict) {
		// Lost a create race against a concurrent batch; fall back to the
		// increment.
		return s.playerRepo.AddPoints(ctx, exec, entry.PlayerName, *entry.Points)
	}
	return fmt.Errorf("failed to create player %q: %w", entry.PlayerName, createErr)
}

// lookupProfileID links a new leaderboard entry to a registered profile when
// the submitted name matches an in-game name. The link is best effort; a
// missing profile or a lookup failure never blocks ingestion.
func (s *ResultsService) lookupProfileID(ctx context.Context, playerName string) *int {
	profile, err := s.profileRepo.GetByInGameName(ctx, playerName)
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			s.logger.Warn("profile lookup failed during ingestion",
				slog.String("player_name", playerName),
				slog.Any("error", err),
			)
		}
		return nil
	}
	return &profile.ID
}

// ListTournamentResults returns the immutable result rows for one
// tournament, highest points first.
func (s *ResultsService) ListTournamentResults(ctx context.Context, tournamentID int) ([]models.TournamentResult, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.resultRepo.ListByTournament(ctx, tournamentID)
}
