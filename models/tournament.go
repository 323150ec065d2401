package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusLive      TournamentStatus = "live"
	StatusCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusCompleted:
		return true
	}
	return false
}

// Tournament is one clan tournament. ResultsEntered flips to true exactly
// once, when the results batch for the tournament has been ingested.
type Tournament struct {
	ID             int              `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	Mode           string           `json:"mode" db:"mode"`
	Description    *string          `json:"description,omitempty" db:"description"`
	StartTime      time.Time        `json:"start_time" db:"start_time"`
	EndTime        *time.Time       `json:"end_time,omitempty" db:"end_time"`
	WinnerName     *string          `json:"winner_name,omitempty" db:"winner_name"`
	Status         TournamentStatus `json:"status" db:"status"`
	ResultsEntered bool             `json:"results_entered" db:"results_entered"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	ImageKey       *string          `json:"-" db:"image_key"`
	ImageURL       *string          `json:"image_url,omitempty" db:"-"`
}
