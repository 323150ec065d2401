package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// UserProfile is a self-service clan member profile. InGameName doubles as
// the login identifier and the link to the leaderboard (players.player_name
// matches it when the member shows up in tournament results).
type UserProfile struct {
	ID           int       `json:"id"`
	InGameName   string    `json:"in_game_name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	GameLevel    int       `json:"game_level"`
	Clan         *string   `json:"clan,omitempty"`
	MainWeapon   *string   `json:"main_weapon,omitempty"`
	FavoriteMode *string   `json:"favorite_mode,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	AvatarKey    *string   `json:"-"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
}

type Credentials struct {
	InGameName string `json:"in_game_name"`
	Password   string `json:"password"`
}
