package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/ranked-hc/auth"
	"github.com/Dosada05/ranked-hc/hub"
	"github.com/Dosada05/ranked-hc/models"
	"github.com/Dosada05/ranked-hc/rating"
	"github.com/Dosada05/ranked-hc/repositories"
	"github.com/Dosada05/ranked-hc/rostercsv"
	"github.com/Dosada05/ranked-hc/storage"
	"github.com/itbasis/go-clock"
)

// Authorizer decides whether a session may mutate the roster.
type Authorizer interface {
	Authorize(sess *auth.Session) error
}

// RosterService изменяет таблицу. Каждый метод сначала проверяет
// авторизацию; при отказе хранилище не читается и не изменяется.
type RosterService interface {
	CreatePlayer(ctx context.Context, sess *auth.Session, input CreatePlayerInput) (*models.Player, error)
	UpdatePlayer(ctx context.Context, sess *auth.Session, abbreviation string, input UpdatePlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, sess *auth.Session, abbreviation string) error
	ImportPlayers(ctx context.Context, sess *auth.Session, r io.Reader) (*ImportResult, error)

	CreateTeam(ctx context.Context, sess *auth.Session, input CreateTeamInput) (*models.Team, error)
	RenameTeam(ctx context.Context, sess *auth.Session, teamID int, name string) (*models.Team, error)
	DeleteTeam(ctx context.Context, sess *auth.Session, teamID int) error
	AddTeamMember(ctx context.Context, sess *auth.Session, teamID int, abbreviation string) (*models.Team, error)
	RemoveTeamMember(ctx context.Context, sess *auth.Session, teamID int, abbreviation string) (*models.Team, error)

	ExportLeaderboard(ctx context.Context, sess *auth.Session) (*ExportResult, error)
}

type CreatePlayerInput struct {
	Abbreviation string
	Rating       *int
}

// UpdatePlayerInput: nil-поля не меняются.
type UpdatePlayerInput struct {
	Abbreviation *string
	Rating       *int
}

type CreateTeamInput struct {
	Name   string
	Roster []string
}

type ImportResult struct {
	Imported        int `json:"imported"`
	TeamsRecomputed int `json:"teams_recomputed"`
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// LeaderboardUpdate is the payload of hub.EventLeaderboardUpdated.
type LeaderboardUpdate struct {
	Reason       string `json:"reason"`
	Abbreviation string `json:"abbreviation,omitempty"`
	TeamID       int    `json:"team_id,omitempty"`
}

type RosterServiceDeps struct {
	PlayerRepo  repositories.PlayerRepository
	TeamRepo    repositories.TeamRepository
	Transactor  repositories.Transactor
	Authorizer  Authorizer
	Broadcaster hub.Broadcaster
	// Uploader == nil отключает экспорт.
	Uploader storage.FileUploader
	Clock    clock.Clock
	Logger   *slog.Logger
}

type rosterService struct {
	playerRepo  repositories.PlayerRepository
	teamRepo    repositories.TeamRepository
	tx          repositories.Transactor
	aggregator  *Aggregator
	authz       Authorizer
	broadcaster hub.Broadcaster
	uploader    storage.FileUploader
	clock       clock.Clock
	logger      *slog.Logger
}

func NewRosterService(deps RosterServiceDeps) RosterService {
	s := &rosterService{
		playerRepo:  deps.PlayerRepo,
		teamRepo:    deps.TeamRepo,
		tx:          deps.Transactor,
		aggregator:  NewAggregator(deps.PlayerRepo, deps.TeamRepo),
		authz:       deps.Authorizer,
		broadcaster: deps.Broadcaster,
		uploader:    deps.Uploader,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *rosterService) CreatePlayer(ctx context.Context, sess *auth.Session, input CreatePlayerInput) (*models.Player, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}
	abv := normalizeAbbreviation(input.Abbreviation)
	if abv == "" {
		return nil, ErrAbbreviationRequired
	}
	if input.Rating != nil && !rating.InRange(*input.Rating) {
		return nil, ErrRatingOutOfRange
	}

	player := &models.Player{Abbreviation: abv, Rating: derefInt(input.Rating, rating.DefaultRating)}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return mapRepositoryError(s.playerRepo.Create(ctx, exec, player), "create player")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player created", slog.String("abbreviation", abv), slog.Int("rating", player.Rating))
	s.notify(LeaderboardUpdate{Reason: "player_created", Abbreviation: abv})
	return player, nil
}

func (s *rosterService) UpdatePlayer(ctx context.Context, sess *auth.Session, abbreviation string, input UpdatePlayerInput) (*models.Player, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}
	abbreviation = normalizeAbbreviation(abbreviation)
	if input.Rating != nil && !rating.InRange(*input.Rating) {
		return nil, ErrRatingOutOfRange
	}

	var player *models.Player
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		current, err := s.playerRepo.GetByAbbreviation(ctx, exec, abbreviation)
		if err != nil {
			return mapRepositoryError(err, "get player")
		}

		updated := *current
		if input.Abbreviation != nil {
			updated.Abbreviation = normalizeAbbreviation(*input.Abbreviation)
			if updated.Abbreviation == "" {
				return ErrAbbreviationRequired
			}
		}
		if input.Rating != nil {
			updated.Rating = *input.Rating
		}
		if err := s.playerRepo.Update(ctx, exec, abbreviation, &updated); err != nil {
			return mapRepositoryError(err, "update player")
		}

		// составы уже указывают на новое имя (ON UPDATE CASCADE)
		teamIDs, err := s.teamRepo.ListTeamIDsByMember(ctx, exec, updated.Abbreviation)
		if err != nil {
			return mapRepositoryError(err, "list teams of player")
		}
		if err := s.aggregator.RecomputeAll(ctx, exec, teamIDs); err != nil {
			return err
		}
		player = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player updated",
		slog.String("abbreviation", abbreviation),
		slog.String("new_abbreviation", player.Abbreviation),
		slog.Int("rating", player.Rating))
	s.notify(LeaderboardUpdate{Reason: "player_updated", Abbreviation: player.Abbreviation})
	return player, nil
}

func (s *rosterService) DeletePlayer(ctx context.Context, sess *auth.Session, abbreviation string) error {
	if err := s.authz.Authorize(sess); err != nil {
		return err
	}
	abbreviation = normalizeAbbreviation(abbreviation)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		teamIDs, err := s.teamRepo.RemovePlayerFromAll(ctx, exec, abbreviation)
		if err != nil {
			return mapRepositoryError(err, "remove player from rosters")
		}
		if err := s.playerRepo.Delete(ctx, exec, abbreviation); err != nil {
			return mapRepositoryError(err, "delete player")
		}
		return s.aggregator.RecomputeAll(ctx, exec, teamIDs)
	})
	if err != nil {
		return err
	}

	s.logger.Info("player deleted", slog.String("abbreviation", abbreviation))
	s.notify(LeaderboardUpdate{Reason: "player_deleted", Abbreviation: abbreviation})
	return nil
}

func (s *rosterService) ImportPlayers(ctx context.Context, sess *auth.Session, r io.Reader) (*ImportResult, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}

	records, err := rostercsv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	result := &ImportResult{}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var affected []int
		for _, rec := range records {
			player := &models.Player{Abbreviation: rec.Abbreviation, Rating: rec.Rating}
			if err := s.playerRepo.Upsert(ctx, exec, player); err != nil {
				return mapRepositoryError(err, fmt.Sprintf("import player %q", rec.Abbreviation))
			}
			ids, err := s.teamRepo.ListTeamIDsByMember(ctx, exec, rec.Abbreviation)
			if err != nil {
				return mapRepositoryError(err, "list teams of player")
			}
			affected = append(affected, ids...)
		}
		if err := s.aggregator.RecomputeAll(ctx, exec, affected); err != nil {
			return err
		}
		result.Imported = len(records)
		result.TeamsRecomputed = countDistinct(affected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("players imported", slog.Int("imported", result.Imported), slog.Int("teams_recomputed", result.TeamsRecomputed))
	if result.Imported > 0 {
		s.notify(LeaderboardUpdate{Reason: "players_imported"})
	}
	return result, nil
}

func (s *rosterService) CreateTeam(ctx context.Context, sess *auth.Session, input CreateTeamInput) (*models.Team, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	roster := uniqueAbbreviations(input.Roster)
	if len(roster) == 0 {
		return nil, ErrTeamRosterRequired
	}

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		created := &models.Team{Name: name, Rating: rating.EmptyTeamRating}
		if err := s.teamRepo.Create(ctx, exec, created); err != nil {
			return mapRepositoryError(err, "create team")
		}
		for _, abv := range roster {
			if err := s.teamRepo.AddMember(ctx, exec, created.ID, abv); err != nil {
				if errors.Is(err, repositories.ErrPlayerNotFound) {
					return fmt.Errorf("%w: %q", ErrPlayerNotFound, abv)
				}
				return mapRepositoryError(err, "add team member")
			}
		}
		var err error
		team, err = s.recomputeAndLoad(ctx, exec, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team created", slog.Int("team_id", team.ID), slog.String("name", team.Name), slog.Int("rating", team.Rating))
	s.notify(LeaderboardUpdate{Reason: "team_created", TeamID: team.ID})
	return team, nil
}

func (s *rosterService) RenameTeam(ctx context.Context, sess *auth.Session, teamID int, name string) (*models.Team, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.Rename(ctx, exec, teamID, name); err != nil {
			return mapRepositoryError(err, "rename team")
		}
		var err error
		team, err = s.teamRepo.GetByID(ctx, exec, teamID)
		return mapRepositoryError(err, "get team")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team renamed", slog.Int("team_id", teamID), slog.String("name", name))
	s.notify(LeaderboardUpdate{Reason: "team_renamed", TeamID: teamID})
	return team, nil
}

func (s *rosterService) DeleteTeam(ctx context.Context, sess *auth.Session, teamID int) error {
	if err := s.authz.Authorize(sess); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.ClearMembers(ctx, exec, teamID); err != nil {
			return mapRepositoryError(err, "clear team roster")
		}
		return mapRepositoryError(s.teamRepo.Delete(ctx, exec, teamID), "delete team")
	})
	if err != nil {
		return err
	}

	s.logger.Info("team deleted", slog.Int("team_id", teamID))
	s.notify(LeaderboardUpdate{Reason: "team_deleted", TeamID: teamID})
	return nil
}

func (s *rosterService) AddTeamMember(ctx context.Context, sess *auth.Session, teamID int, abbreviation string) (*models.Team, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}
	abbreviation = normalizeAbbreviation(abbreviation)
	if abbreviation == "" {
		return nil, ErrAbbreviationRequired
	}

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.AddMember(ctx, exec, teamID, abbreviation); err != nil {
			return mapRepositoryError(err, "add team member")
		}
		var err error
		team, err = s.recomputeAndLoad(ctx, exec, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team member added", slog.Int("team_id", teamID), slog.String("abbreviation", abbreviation))
	s.notify(LeaderboardUpdate{Reason: "team_member_added", TeamID: teamID, Abbreviation: abbreviation})
	return team, nil
}

func (s *rosterService) RemoveTeamMember(ctx context.Context, sess *auth.Session, teamID int, abbreviation string) (*models.Team, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}
	abbreviation = normalizeAbbreviation(abbreviation)

	var team *models.Team
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.RemoveMember(ctx, exec, teamID, abbreviation); err != nil {
			return mapRepositoryError(err, "remove team member")
		}
		var err error
		team, err = s.recomputeAndLoad(ctx, exec, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team member removed", slog.Int("team_id", teamID), slog.String("abbreviation", abbreviation))
	s.notify(LeaderboardUpdate{Reason: "team_member_removed", TeamID: teamID, Abbreviation: abbreviation})
	return team, nil
}

func (s *rosterService) ExportLeaderboard(ctx context.Context, sess *auth.Session) (*ExportResult, error) {
	if err := s.authz.Authorize(sess); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrExportsDisabled
	}

	board, err := loadLeaderboard(ctx, s.playerRepo, s.teamRepo, models.LeaderboardFilter{})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := rostercsv.Write(&buf, board.Players); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard csv: %w", err)
	}

	key := fmt.Sprintf("exports/leaderboard-%s.csv", s.clock.Now().UTC().Format("20060102T150405Z"))
	uploaded, err := s.uploader.Upload(ctx, key, "text/csv", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to publish leaderboard export: %w", err)
	}

	s.logger.Info("leaderboard exported", slog.String("key", uploaded.Key), slog.Int("players", len(board.Players)))
	return &ExportResult{Key: uploaded.Key, URL: uploaded.Location}, nil
}

func (s *rosterService) recomputeAndLoad(ctx context.Context, exec repositories.SQLExecutor, teamID int) (*models.Team, error) {
	if _, err := s.aggregator.Recompute(ctx, exec, teamID); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, exec, teamID)
	if err != nil {
		return nil, mapRepositoryError(err, "get team")
	}
	return team, nil
}

// notify вызывается только после успешного коммита.
func (s *rosterService) notify(update LeaderboardUpdate) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(hub.LeaderboardRoom, hub.Message{
		Type:    hub.EventLeaderboardUpdated,
		Payload: update,
		RoomID:  hub.LeaderboardRoom,
	})
}

func countDistinct(ids []int) int {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
