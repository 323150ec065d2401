package models

import "time"

// PlayerStats is the per-profile tournament participation summary shown on
// the public profile page.
type PlayerStats struct {
	ProfileID         int       `json:"profile_id" db:"profile_id"`
	TournamentsPlayed int       `json:"tournaments_played" db:"tournaments_played"`
	TournamentsWon    int       `json:"tournaments_won" db:"tournaments_won"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
