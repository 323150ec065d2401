package models

import "time"

// Player is the leaderboard aggregate: one row per known player name with
// the running point total and the dense rank derived from it. Rank 0 means
// "not ranked yet" and only exists between creation and the next
// recalculation pass.
type Player struct {
	ID            int       `json:"id" db:"id"`
	PlayerName    string    `json:"player_name" db:"player_name"`
	TotalPoints   int       `json:"total_points" db:"total_points"`
	Rank          int       `json:"rank" db:"rank"`
	UserProfileID *int      `json:"user_profile_id,omitempty" db:"user_profile_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
