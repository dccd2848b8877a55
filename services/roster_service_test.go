package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/ranked-hc/auth"
	"github.com/Dosada05/ranked-hc/hub"
	"github.com/Dosada05/ranked-hc/models"
	"github.com/Dosada05/ranked-hc/rating"
	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFlags map[string]string

func (m mapFlags) GetFlag(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
func (m mapFlags) SetFlag(key, value string) { m[key] = value }
func (m mapFlags) ClearFlag(key string)      { delete(m, key) }

type rosterFixture struct {
	store       *memStore
	service     RosterService
	board       LeaderboardService
	gate        *auth.Gate
	broadcaster *recordingBroadcaster
	uploader    *memUploader
	clock       *clock.Mock
}

func newRosterFixture(t *testing.T, withUploader bool) *rosterFixture {
	t.Helper()
	store := newMemStore()
	clk := clock.NewMock()
	gate := auth.NewGate(auth.GateConfig{
		Secret:     auth.NewPlainSecret("s3cret"),
		SigningKey: []byte("k"),
		Clock:      clk,
	})
	f := &rosterFixture{
		store:       store,
		gate:        gate,
		broadcaster: &recordingBroadcaster{},
		clock:       clk,
	}
	deps := RosterServiceDeps{
		PlayerRepo:  memPlayers{store},
		TeamRepo:    memTeams{store},
		Transactor:  memTransactor{store},
		Authorizer:  gate,
		Broadcaster: f.broadcaster,
		Clock:       clk,
	}
	if withUploader {
		f.uploader = &memUploader{}
		deps.Uploader = f.uploader
	}
	f.service = NewRosterService(deps)
	f.board = NewLeaderboardService(memPlayers{store}, memTeams{store}, nil)
	return f
}

func (f *rosterFixture) admin(t *testing.T) *auth.Session {
	t.Helper()
	flags := mapFlags{}
	sess := f.gate.Boot(flags)
	require.NoError(t, f.gate.Login(sess, flags, "s3cret"))
	return sess
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestRosterService_refusesWithoutLogin(t *testing.T) {
	f := newRosterFixture(t, true)
	f.store.addPlayer("A", 1000)
	teamID := f.store.addTeam("T", 1000, "A")
	before := f.store.snapshot()
	f.store.calls = 0

	ctx := context.Background()
	guest := f.gate.Boot(mapFlags{})

	calls := map[string]func(sess *auth.Session) error{
		"CreatePlayer": func(s *auth.Session) error {
			_, err := f.service.CreatePlayer(ctx, s, CreatePlayerInput{Abbreviation: "B"})
			return err
		},
		"UpdatePlayer": func(s *auth.Session) error {
			_, err := f.service.UpdatePlayer(ctx, s, "A", UpdatePlayerInput{Rating: intPtr(5000)})
			return err
		},
		"DeletePlayer": func(s *auth.Session) error { return f.service.DeletePlayer(ctx, s, "A") },
		"ImportPlayers": func(s *auth.Session) error {
			_, err := f.service.ImportPlayers(ctx, s, strings.NewReader("Abv,ELO\nA,9000\n"))
			return err
		},
		"CreateTeam": func(s *auth.Session) error {
			_, err := f.service.CreateTeam(ctx, s, CreateTeamInput{Name: "U", Roster: []string{"A"}})
			return err
		},
		"RenameTeam": func(s *auth.Session) error {
			_, err := f.service.RenameTeam(ctx, s, teamID, "V")
			return err
		},
		"DeleteTeam": func(s *auth.Session) error { return f.service.DeleteTeam(ctx, s, teamID) },
		"AddTeamMember": func(s *auth.Session) error {
			_, err := f.service.AddTeamMember(ctx, s, teamID, "A")
			return err
		},
		"RemoveTeamMember": func(s *auth.Session) error {
			_, err := f.service.RemoveTeamMember(ctx, s, teamID, "A")
			return err
		},
		"ExportLeaderboard": func(s *auth.Session) error {
			_, err := f.service.ExportLeaderboard(ctx, s)
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(guest), auth.ErrUnauthorized)
			assert.ErrorIs(t, call(nil), auth.ErrUnauthorized)
		})
	}

	assert.Equal(t, before, f.store.snapshot())
	assert.Zero(t, f.store.calls)
	assert.Zero(t, f.broadcaster.count())
	assert.Empty(t, f.uploader.objects)
}

func TestRosterService_refusesAfterLogout(t *testing.T) {
	f := newRosterFixture(t, false)
	flags := mapFlags{}
	sess := f.gate.Boot(flags)
	require.NoError(t, f.gate.Login(sess, flags, "s3cret"))
	f.gate.Logout(sess, flags)

	_, err := f.service.CreatePlayer(context.Background(), sess, CreatePlayerInput{Abbreviation: "A"})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.Empty(t, f.store.snapshot().players)
}

func TestRosterService_createPlayer(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)

	p, err := f.service.CreatePlayer(ctx, sess, CreatePlayerInput{Abbreviation: "  RK "})
	require.NoError(t, err)
	assert.Equal(t, "RK", p.Abbreviation)
	assert.Equal(t, rating.DefaultRating, p.Rating)

	_, err = f.service.CreatePlayer(ctx, sess, CreatePlayerInput{Abbreviation: "RK", Rating: intPtr(10)})
	assert.ErrorIs(t, err, ErrPlayerConflict)

	_, err = f.service.CreatePlayer(ctx, sess, CreatePlayerInput{Abbreviation: "   "})
	assert.ErrorIs(t, err, ErrAbbreviationRequired)

	assert.Equal(t, 1, f.broadcaster.count())
	msg := f.broadcaster.messages[0].(hub.Message)
	assert.Equal(t, hub.EventLeaderboardUpdated, msg.Type)
}

func TestRosterService_createTeam(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	f.store.addPlayer("B", 3000)

	team, err := f.service.CreateTeam(ctx, sess, CreateTeamInput{Name: " Strikers ", Roster: []string{"A", "B", "A", " "}})
	require.NoError(t, err)

	assert.Equal(t, "Strikers", team.Name)
	assert.Equal(t, []string{"A", "B"}, team.Roster)
	assert.Equal(t, 2000, team.Rating)
	assert.Equal(t, rating.RankNewbie, team.Rank())
}

func TestRosterService_createTeamValidation(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)

	_, err := f.service.CreateTeam(ctx, sess, CreateTeamInput{Name: "", Roster: []string{"A"}})
	assert.ErrorIs(t, err, ErrTeamNameRequired)

	_, err = f.service.CreateTeam(ctx, sess, CreateTeamInput{Name: "T", Roster: []string{" ", ""}})
	assert.ErrorIs(t, err, ErrTeamRosterRequired)

	_, err = f.service.CreateTeam(ctx, sess, CreateTeamInput{Name: "T", Roster: []string{"A", "ghost"}})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.ErrorContains(t, err, "ghost")

	// откат: команда с неизвестным игроком не сохранилась
	assert.Empty(t, f.store.snapshot().teams)

	_, err = f.service.CreateTeam(ctx, sess, CreateTeamInput{Name: "T", Roster: []string{"A"}})
	require.NoError(t, err)
	_, err = f.service.CreateTeam(ctx, sess, CreateTeamInput{Name: "T", Roster: []string{"A"}})
	assert.ErrorIs(t, err, ErrTeamNameConflict)
	assert.Equal(t, 1, f.broadcaster.count())
}

func TestRosterService_ratingChangeRecomputesTeams(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	f.store.addPlayer("B", 3000)
	one := f.store.addTeam("One", 2000, "A", "B")
	two := f.store.addTeam("Two", 1000, "A")

	_, err := f.service.UpdatePlayer(ctx, sess, "A", UpdatePlayerInput{Rating: intPtr(5000)})
	require.NoError(t, err)

	assert.Equal(t, 4000, f.store.team(one).Rating)
	assert.Equal(t, 5000, f.store.team(two).Rating)
}

func TestRosterService_renamePlayer(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	f.store.addPlayer("B", 1001)
	teamID := f.store.addTeam("T", 1000, "A", "B")

	p, err := f.service.UpdatePlayer(ctx, sess, "A", UpdatePlayerInput{Abbreviation: strPtr("AA")})
	require.NoError(t, err)
	assert.Equal(t, "AA", p.Abbreviation)
	assert.Equal(t, 1000, p.Rating)

	team := f.store.team(teamID)
	assert.Equal(t, []string{"AA", "B"}, team.Roster)
	assert.Equal(t, 1000, team.Rating)

	_, err = f.service.UpdatePlayer(ctx, sess, "AA", UpdatePlayerInput{Abbreviation: strPtr("B")})
	assert.ErrorIs(t, err, ErrPlayerConflict)

	_, err = f.service.UpdatePlayer(ctx, sess, "nobody", UpdatePlayerInput{Rating: intPtr(1)})
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = f.service.UpdatePlayer(ctx, sess, "AA", UpdatePlayerInput{Abbreviation: strPtr(" ")})
	assert.ErrorIs(t, err, ErrAbbreviationRequired)
}

func TestRosterService_deletePlayerCascades(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	f.store.addPlayer("B", 3000)
	solo := f.store.addTeam("Solo", 1000, "A")
	pair := f.store.addTeam("Pair", 2000, "A", "B")

	require.NoError(t, f.service.DeletePlayer(ctx, sess, "A"))

	assert.Empty(t, f.store.team(solo).Roster)
	assert.Equal(t, rating.EmptyTeamRating, f.store.team(solo).Rating)
	assert.Equal(t, []string{"B"}, f.store.team(pair).Roster)
	assert.Equal(t, 3000, f.store.team(pair).Rating)

	assert.ErrorIs(t, f.service.DeletePlayer(ctx, sess, "A"), ErrPlayerNotFound)
}

func TestRosterService_membership(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	f.store.addPlayer("B", 5000)
	teamID := f.store.addTeam("T", 1000, "A")

	team, err := f.service.AddTeamMember(ctx, sess, teamID, "B")
	require.NoError(t, err)
	assert.Equal(t, 3000, team.Rating)

	_, err = f.service.AddTeamMember(ctx, sess, teamID, "B")
	assert.ErrorIs(t, err, ErrTeamMemberConflict)
	_, err = f.service.AddTeamMember(ctx, sess, teamID, "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = f.service.AddTeamMember(ctx, sess, 999, "A")
	assert.ErrorIs(t, err, ErrTeamNotFound)

	team, err = f.service.RemoveTeamMember(ctx, sess, teamID, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, team.Roster)
	assert.Equal(t, 5000, team.Rating)

	_, err = f.service.RemoveTeamMember(ctx, sess, teamID, "A")
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)
}

func TestRosterService_renameAndDeleteTeam(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	teamID := f.store.addTeam("Old", 1000, "A")
	f.store.addTeam("Taken", 0)

	team, err := f.service.RenameTeam(ctx, sess, teamID, " New ")
	require.NoError(t, err)
	assert.Equal(t, "New", team.Name)

	_, err = f.service.RenameTeam(ctx, sess, teamID, "Taken")
	assert.ErrorIs(t, err, ErrTeamNameConflict)
	_, err = f.service.RenameTeam(ctx, sess, teamID, "")
	assert.ErrorIs(t, err, ErrTeamNameRequired)

	require.NoError(t, f.service.DeleteTeam(ctx, sess, teamID))
	_, err = f.board.GetTeam(ctx, teamID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.ErrorIs(t, f.service.DeleteTeam(ctx, sess, teamID), ErrTeamNotFound)

	// игрок остаётся после удаления команды
	assert.Contains(t, f.store.snapshot().players, "A")
}

func TestRosterService_importPlayers(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	teamID := f.store.addTeam("T", 1000, "A")

	res, err := f.service.ImportPlayers(ctx, sess, strings.NewReader("Sl,Abv,ELO,Rank\n1,A,7000,God\n2,B,,\n"))
	require.NoError(t, err)

	assert.Equal(t, &ImportResult{Imported: 2, TeamsRecomputed: 1}, res)
	assert.Equal(t, 7000, f.store.team(teamID).Rating)
	assert.Equal(t, rating.DefaultRating, f.store.snapshot().players["B"].Rating)

	_, err = f.service.ImportPlayers(ctx, sess, strings.NewReader("name\nx\n"))
	assert.ErrorIs(t, err, ErrInvalidImport)
}

func TestRosterService_exportLeaderboard(t *testing.T) {
	f := newRosterFixture(t, true)
	ctx := context.Background()
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	f.store.addPlayer("B", 9500)
	f.clock.Add(90 * time.Second)

	res, err := f.service.ExportLeaderboard(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, "exports/leaderboard-19700101T000130Z.csv", res.Key)
	assert.Equal(t, "https://cdn.example.com/"+res.Key, res.URL)
	assert.Equal(t, "Sl,Abv,ELO,Rank\n1,B,9500,Legend\n2,A,1000,Newbie\n", string(f.uploader.objects[res.Key]))

	disabled := newRosterFixture(t, false)
	_, err = disabled.service.ExportLeaderboard(ctx, disabled.admin(t))
	assert.ErrorIs(t, err, ErrExportsDisabled)
}

func TestLeaderboardService(t *testing.T) {
	f := newRosterFixture(t, false)
	ctx := context.Background()
	f.store.addPlayer("ZED", 999)
	f.store.addPlayer("RAK", 3000)
	f.store.addPlayer("ABE", 3000)
	f.store.addPlayer("MAX", 9000)
	f.store.addTeam("Low", 999, "ZED")
	f.store.addTeam("High", 6000, "RAK", "MAX")

	board, err := f.board.Leaderboard(ctx, models.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardEntry{
		{Sl: 1, Abbreviation: "MAX", Rating: 9000, Rank: rating.RankLegend},
		{Sl: 2, Abbreviation: "ABE", Rating: 3000, Rank: rating.RankPro},
		{Sl: 3, Abbreviation: "RAK", Rating: 3000, Rank: rating.RankPro},
		{Sl: 4, Abbreviation: "ZED", Rating: 999, Rank: rating.RankGetLost},
	}, board.Players)
	require.Len(t, board.Teams, 2)
	assert.Equal(t, "High", board.Teams[0].Name)

	pro := rating.RankPro
	board, err = f.board.Leaderboard(ctx, models.LeaderboardFilter{Rank: &pro})
	require.NoError(t, err)
	require.Len(t, board.Players, 2)
	assert.Equal(t, 2, board.Players[0].Sl)
	assert.Empty(t, board.Teams)

	board, err = f.board.Leaderboard(ctx, models.LeaderboardFilter{Search: "ra"})
	require.NoError(t, err)
	require.Len(t, board.Players, 1)
	assert.Equal(t, "RAK", board.Players[0].Abbreviation)
	assert.Equal(t, 3, board.Players[0].Sl)

	teams, err := f.board.ListTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, "High", teams[0].Name)
}

func TestRosterService_rejectsRatingOutsideIntegerRange(t *testing.T) {
	f := newRosterFixture(t, false)
	sess := f.admin(t)
	f.store.addPlayer("A", 1000)
	before := f.store.snapshot()

	tooHigh := int64(rating.MaxRating) + 1
	tooLow := int64(rating.MinRating) - 1

	_, err := f.service.CreatePlayer(context.Background(), sess, CreatePlayerInput{Abbreviation: "B", Rating: intPtr(int(tooHigh))})
	assert.ErrorIs(t, err, ErrRatingOutOfRange)

	_, err = f.service.UpdatePlayer(context.Background(), sess, "A", UpdatePlayerInput{Rating: intPtr(int(tooLow))})
	assert.ErrorIs(t, err, ErrRatingOutOfRange)

	assert.Equal(t, before, f.store.snapshot())
	assert.Empty(t, f.broadcaster.messages)

	// граница допустима
	p, err := f.service.CreatePlayer(context.Background(), sess, CreatePlayerInput{Abbreviation: "B", Rating: intPtr(rating.MaxRating)})
	require.NoError(t, err)
	assert.Equal(t, rating.MaxRating, p.Rating)
	assert.Equal(t, rating.RankLegend, p.Rank())
}
