package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
)

// LeaderboardService owns the per-player aggregates: listing them in rank
// order, the operator point override, and the full rank recalculation pass
// that every mutation path finishes with.
type LeaderboardService struct {
	playerRepo repositories.PlayerRepository
	txManager  TransactionManager
	notifier   LeaderboardNotifier
	logger     *slog.Logger
}

func NewLeaderboardService(
	playerRepo repositories.PlayerRepository,
	txManager TransactionManager,
	notifier LeaderboardNotifier,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		playerRepo: playerRepo,
		txManager:  txManager,
		notifier:   notifier,
		logger:     logger,
	}
}

// ListPlayers returns the leaderboard in rank order. A limit of 0 means no
// limit.
func (s *LeaderboardService) ListPlayers(ctx context.Context, limit int) ([]models.Player, error) {
	players, err := s.playerRepo.ListByRank(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// SetPlayerPoints is the operator override path: it overwrites a player's
// total directly, without recording a tournament result, then recalculates
// every rank. Negative totals are rejected.
func (s *LeaderboardService) SetPlayerPoints(ctx context.Context, playerID, points int) (*models.Player, error) {
	if points < 0 {
		return nil, ErrNegativePoints
	}

	err := s.txManager.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.playerRepo.SetTotalPoints(ctx, exec, playerID, points); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return fmt.Errorf("failed to set player points: %w", err)
		}
		return s.RecalculateRanks(ctx, exec)
	})
	if err != nil {
		return nil, err
	}

	s.notifyLeaderboardUpdated(ctx)

	player, err := s.playerRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

// RecalculateRanks re-derives every player's rank from the current totals:
// players are read ordered by total_points descending (player_name ascending
// breaks ties, so the ordering is deterministic) and assigned dense ranks
// 1..N, written back one at a time.
func (s *LeaderboardService) RecalculateRanks(ctx context.Context, exec repositories.SQLExecutor) error {
	players, err := s.playerRepo.ListByTotalPoints(ctx, exec)
	if err != nil {
		return fmt.Errorf("failed to read players for rank recalculation: %w", err)
	}

	for i, p := range players {
		if err := s.playerRepo.UpdateRank(ctx, exec, p.ID, i+1); err != nil {
			return fmt.Errorf("failed to write rank %d for player %q: %w", i+1, p.PlayerName, err)
		}
	}
	return nil
}

func (s *LeaderboardService) notifyLeaderboardUpdated(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	players, err := s.playerRepo.ListByRank(ctx, 0)
	if err != nil {
		s.logger.Error("failed to read leaderboard for live update", slog.Any("error", err))
		return
	}
	s.notifier.LeaderboardUpdated(players)
}
