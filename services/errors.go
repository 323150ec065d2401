package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses at the handler boundary.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed         = errors.New("validation failed")
	ErrPasswordTooShort         = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials       = errors.New("invalid in-game name or password")
	ErrInvalidGameLevel         = errors.New("game level must be between 1 and 400")
	ErrNegativePoints           = errors.New("points must not be negative")
	ErrEmptyResultsBatch        = errors.New("results batch contains no valid entries")
	ErrTournamentNameRequired   = errors.New("tournament name is required")
	ErrTournamentModeRequired   = errors.New("tournament mode is required")
	ErrTournamentInvalidStatus  = errors.New("invalid tournament status provided")
	ErrUnsupportedImageType     = errors.New("unsupported image content type")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")

	// Conflicts
	ErrProfileNameConflict    = errors.New("in-game name is already taken")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrResultsAlreadyEntered  = errors.New("results have already been entered for this tournament")

	// Authentication and authorization
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrProfileNotFound    = errors.New("user profile not found")
)
