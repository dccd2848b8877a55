package services

import "errors"

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	// Ошибки валидации
	ErrValidationFailed     = errors.New("validation failed")
	ErrAbbreviationRequired = errors.New("player abbreviation is required")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrTeamRosterRequired   = errors.New("team roster must contain at least one player")
	ErrInvalidImport        = errors.New("invalid player import")
	ErrRatingOutOfRange     = errors.New("rating must be between -2147483648 and 2147483647")

	// Ресурс не найден
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamMemberNotFound = errors.New("player is not on the team")

	// Конфликты
	ErrPlayerConflict     = errors.New("player abbreviation is already in use")
	ErrTeamNameConflict   = errors.New("team name is already in use")
	ErrTeamMemberConflict = errors.New("player is already on the team")

	ErrExportsDisabled = errors.New("leaderboard exports are not configured")
)
