package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/ranked-hc/rating"
	"github.com/Dosada05/ranked-hc/repositories"
)

// Aggregator keeps team ratings equal to the mean of their members' current
// ratings. It is the only writer of the team rating column.
type Aggregator struct {
	players repositories.PlayerRepository
	teams   repositories.TeamRepository
}

func NewAggregator(players repositories.PlayerRepository, teams repositories.TeamRepository) *Aggregator {
	return &Aggregator{players: players, teams: teams}
}

// Recompute reloads the roster of teamID, averages the members that still
// exist and persists the result.
func (a *Aggregator) Recompute(ctx context.Context, exec repositories.SQLExecutor, teamID int) (int, error) {
	members, err := a.teams.ListMembers(ctx, exec, teamID)
	if err != nil {
		return 0, mapRepositoryError(err, fmt.Sprintf("load roster of team %d", teamID))
	}

	ratings := make([]int, 0, len(members))
	for _, abv := range members {
		player, err := a.players.GetByAbbreviation(ctx, exec, abv)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				// висячая ссылка не участвует в среднем
				continue
			}
			return 0, fmt.Errorf("failed to load member %q of team %d: %w", abv, teamID, err)
		}
		ratings = append(ratings, player.Rating)
	}

	teamRating := rating.TeamRating(ratings)
	if err := a.teams.SetRating(ctx, exec, teamID, teamRating); err != nil {
		return 0, mapRepositoryError(err, fmt.Sprintf("store rating of team %d", teamID))
	}
	return teamRating, nil
}

// RecomputeAll recomputes every team in teamIDs, skipping duplicates.
func (a *Aggregator) RecomputeAll(ctx context.Context, exec repositories.SQLExecutor, teamIDs []int) error {
	done := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, ok := done[id]; ok {
			continue
		}
		done[id] = struct{}{}
		if _, err := a.Recompute(ctx, exec, id); err != nil {
			return err
		}
	}
	return nil
}
