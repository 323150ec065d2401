package models

import "time"

// TournamentResult is one immutable per-player result row for a tournament.
// PlayerName is free text, not a foreign key: results may name players who
// never registered a profile.
type TournamentResult struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerName   string    `json:"player_name" db:"player_name"`
	Points       int       `json:"points" db:"points"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
