package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/grims-squad/clan-backend/models"
	"github.com/grims-squad/clan-backend/repositories"
)

// TransactionManager runs a function inside a database transaction, passing
// the transaction down as a repositories.SQLExecutor. The transaction is
// rolled back if fn returns an error and committed otherwise.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

type sqlTransactionManager struct {
	db *sql.DB
}

func NewTransactionManager(db *sql.DB) TransactionManager {
	return &sqlTransactionManager{db: db}
}

func (m *sqlTransactionManager) WithinTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LeaderboardNotifier receives the fresh leaderboard after every mutation,
// for pushing to live subscribers. Implemented by live.Hub.
type LeaderboardNotifier interface {
	LeaderboardUpdated(players []models.Player)
}

func contentTypeExtension(contentType string) (string, error) {
	switch contentType {
	case "image/png":
		return "png", nil
	case "image/jpeg":
		return "jpg", nil
	case "image/webp":
		return "webp", nil
	case "image/gif":
		return "gif", nil
	default:
		return "", ErrUnsupportedImageType
	}
}
