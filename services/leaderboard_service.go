package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Dosada05/ranked-hc/models"
	"github.com/Dosada05/ranked-hc/repositories"
	"golang.org/x/sync/errgroup"
)

// LeaderboardService отдаёт публичные данные, авторизация не требуется.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, filter models.LeaderboardFilter) (*models.Leaderboard, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
}

type leaderboardService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	logger     *slog.Logger
}

func NewLeaderboardService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository, logger *slog.Logger) LeaderboardService {
	return &leaderboardService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		logger:     logger,
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, filter models.LeaderboardFilter) (*models.Leaderboard, error) {
	return loadLeaderboard(ctx, s.playerRepo, s.teamRepo, filter)
}

func (s *leaderboardService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	sortTeams(teams)
	return teams, nil
}

func (s *leaderboardService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapRepositoryError(err, fmt.Sprintf("get team %d", id))
	}
	return team, nil
}

// loadLeaderboard читает игроков и команды параллельно. Sl нумерует полную
// таблицу, фильтр применяется после нумерации.
func loadLeaderboard(ctx context.Context, playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository, filter models.LeaderboardFilter) (*models.Leaderboard, error) {
	var players []models.Player
	var teams []models.Team

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = playerRepo.List(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = teamRepo.List(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Rating != players[j].Rating {
			return players[i].Rating > players[j].Rating
		}
		return players[i].Abbreviation < players[j].Abbreviation
	})
	sortTeams(teams)

	board := &models.Leaderboard{
		Players: make([]models.LeaderboardEntry, 0, len(players)),
		Teams:   make([]models.Team, 0, len(teams)),
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	for i, p := range players {
		entry := models.LeaderboardEntry{
			Sl:           i + 1,
			Abbreviation: p.Abbreviation,
			Rating:       p.Rating,
			Rank:         p.Rank(),
		}
		if filter.Rank != nil && entry.Rank != *filter.Rank {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(entry.Abbreviation), search) {
			continue
		}
		board.Players = append(board.Players, entry)
	}

	for _, t := range teams {
		if filter.Rank != nil && t.Rank() != *filter.Rank {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Name), search) {
			continue
		}
		board.Teams = append(board.Teams, t)
	}
	return board, nil
}

func sortTeams(teams []models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Rating != teams[j].Rating {
			return teams[i].Rating > teams[j].Rating
		}
		return teams[i].Name < teams[j].Name
	})
}
