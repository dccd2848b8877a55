// Package mockservices holds testify mocks of the service interfaces for
// handler tests.
package mockservices

import (
	"context"
	"io"

	"github.com/Dosada05/ranked-hc/auth"
	"github.com/Dosada05/ranked-hc/models"
	"github.com/Dosada05/ranked-hc/services"
	"github.com/stretchr/testify/mock"
)

type Leaderboard struct {
	mock.Mock
}

func (m *Leaderboard) Leaderboard(ctx context.Context, filter models.LeaderboardFilter) (*models.Leaderboard, error) {
	args := m.Called(ctx, filter)

	var board *models.Leaderboard
	if args.Get(0) != nil {
		board = args.Get(0).(*models.Leaderboard)
	}
	return board, args.Error(1)
}

func (m *Leaderboard) ListTeams(ctx context.Context) ([]models.Team, error) {
	args := m.Called(ctx)

	var teams []models.Team
	if args.Get(0) != nil {
		teams = args.Get(0).([]models.Team)
	}
	return teams, args.Error(1)
}

func (m *Leaderboard) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)

	var team *models.Team
	if args.Get(0) != nil {
		team = args.Get(0).(*models.Team)
	}
	return team, args.Error(1)
}

type Roster struct {
	mock.Mock
}

func (m *Roster) CreatePlayer(ctx context.Context, sess *auth.Session, input services.CreatePlayerInput) (*models.Player, error) {
	args := m.Called(ctx, sess, input)
	return player(args.Get(0)), args.Error(1)
}

func (m *Roster) UpdatePlayer(ctx context.Context, sess *auth.Session, abbreviation string, input services.UpdatePlayerInput) (*models.Player, error) {
	args := m.Called(ctx, sess, abbreviation, input)
	return player(args.Get(0)), args.Error(1)
}

func (m *Roster) DeletePlayer(ctx context.Context, sess *auth.Session, abbreviation string) error {
	args := m.Called(ctx, sess, abbreviation)
	return args.Error(0)
}

func (m *Roster) ImportPlayers(ctx context.Context, sess *auth.Session, r io.Reader) (*services.ImportResult, error) {
	args := m.Called(ctx, sess, r)

	var res *services.ImportResult
	if args.Get(0) != nil {
		res = args.Get(0).(*services.ImportResult)
	}
	return res, args.Error(1)
}

func (m *Roster) CreateTeam(ctx context.Context, sess *auth.Session, input services.CreateTeamInput) (*models.Team, error) {
	args := m.Called(ctx, sess, input)
	return team(args.Get(0)), args.Error(1)
}

func (m *Roster) RenameTeam(ctx context.Context, sess *auth.Session, teamID int, name string) (*models.Team, error) {
	args := m.Called(ctx, sess, teamID, name)
	return team(args.Get(0)), args.Error(1)
}

func (m *Roster) DeleteTeam(ctx context.Context, sess *auth.Session, teamID int) error {
	args := m.Called(ctx, sess, teamID)
	return args.Error(0)
}

func (m *Roster) AddTeamMember(ctx context.Context, sess *auth.Session, teamID int, abbreviation string) (*models.Team, error) {
	args := m.Called(ctx, sess, teamID, abbreviation)
	return team(args.Get(0)), args.Error(1)
}

func (m *Roster) RemoveTeamMember(ctx context.Context, sess *auth.Session, teamID int, abbreviation string) (*models.Team, error) {
	args := m.Called(ctx, sess, teamID, abbreviation)
	return team(args.Get(0)), args.Error(1)
}

func (m *Roster) ExportLeaderboard(ctx context.Context, sess *auth.Session) (*services.ExportResult, error) {
	args := m.Called(ctx, sess)

	var res *services.ExportResult
	if args.Get(0) != nil {
		res = args.Get(0).(*services.ExportResult)
	}
	return res, args.Error(1)
}

func player(v interface{}) *models.Player {
	if v == nil {
		return nil
	}
	return v.(*models.Player)
}

func team(v interface{}) *models.Team {
	if v == nil {
		return nil
	}
	return v.(*models.Team)
}
