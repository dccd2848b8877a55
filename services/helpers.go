package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/ranked-hc/repositories"
)

// mapRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
func mapRepositoryError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamMemberNotFound):
		return ErrTeamMemberNotFound
	case errors.Is(err, repositories.ErrPlayerConflict):
		return ErrPlayerConflict
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamMemberConflict):
		return ErrTeamMemberConflict
	case errors.Is(err, repositories.ErrRatingOutOfRange):
		return ErrRatingOutOfRange
	case errors.Is(err, repositories.ErrPlayerInvalid):
		return ErrAbbreviationRequired
	case errors.Is(err, repositories.ErrTeamNameInvalid):
		return ErrTeamNameRequired
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func normalizeAbbreviation(s string) string {
	return strings.TrimSpace(s)
}

// uniqueAbbreviations trims entries, drops blanks and keeps the first
// occurrence of each abbreviation.
func uniqueAbbreviations(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = normalizeAbbreviation(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
