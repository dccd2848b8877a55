package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/ranked-hc/models"
	"github.com/Dosada05/ranked-hc/rating"
	"github.com/Dosada05/ranked-hc/rostercsv"
	"github.com/Dosada05/ranked-hc/services"
)

const csvFilename = "hc_stats.csv"

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// teamResponse добавляет ранг, который не хранится в модели.
type teamResponse struct {
	models.Team
	Rank rating.Rank `json:"rank" swaggertype:"string" example:"Pro"`
}

type leaderboardResponse struct {
	Players []models.LeaderboardEntry `json:"players"`
	Teams   []teamResponse            `json:"teams"`
}

type teamListResponse struct {
	Teams []teamResponse `json:"teams"`
}

type teamEnvelope struct {
	Team teamResponse `json:"team"`
}

type rulesResponse struct {
	Ranks []rating.Tier `json:"ranks"`
	Rules []string      `json:"rules"`
}

func newTeamResponse(t models.Team) teamResponse {
	if t.Roster == nil {
		t.Roster = []string{}
	}
	return teamResponse{Team: t, Rank: t.Rank()}
}

func newTeamResponses(teams []models.Team) []teamResponse {
	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, newTeamResponse(t))
	}
	return out
}

type playerResponse struct {
	Abbreviation string      `json:"abbreviation"`
	Rating       int         `json:"rating"`
	Rank         rating.Rank `json:"rank" swaggertype:"string" example:"Pro"`
}

type playerEnvelope struct {
	Player playerResponse `json:"player"`
}

func newPlayerResponse(p models.Player) playerResponse {
	return playerResponse{Abbreviation: p.Abbreviation, Rating: p.Rating, Rank: p.Rank()}
}

// GetLeaderboard godoc
// @Summary Leaderboard
// @Description Players by rating with rank labels and teams. Optional substring search and rank filter.
// @Tags leaderboard
// @Produce json
// @Param q query string false "abbreviation or team name substring"
// @Param rank query string false "rank label, e.g. Pro"
// @Success 200 {object} leaderboardResponse
// @Failure 400 {object} errorEnvelope
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLeaderboardFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.Leaderboard(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := leaderboardResponse{
		Players: board.Players,
		Teams:   newTeamResponses(board.Teams),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DownloadCSV godoc
// @Summary Leaderboard as CSV
// @Tags leaderboard
// @Produce text/csv
// @Success 200 {string} string "Sl,Abv,ELO,Rank"
// @Router /leaderboard.csv [get]
func (h *LeaderboardHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLeaderboardFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.Leaderboard(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+csvFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := rostercsv.Write(w, board.Players); err != nil {
		// заголовки уже отправлены
		serverErrorLog(r, err)
	}
}

// ListTeams godoc
// @Summary Teams
// @Tags teams
// @Produce json
// @Success 200 {object} teamListResponse
// @Router /teams [get]
func (h *LeaderboardHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.leaderboardService.ListTeams(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamListResponse{Teams: newTeamResponses(teams)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeam godoc
// @Summary Team by id
// @Tags teams
// @Produce json
// @Param teamID path int true "team id"
// @Success 200 {object} teamEnvelope
// @Failure 404 {object} errorEnvelope
// @Router /teams/{teamID} [get]
func (h *LeaderboardHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.leaderboardService.GetTeam(r.Context(), teamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamEnvelope{Team: newTeamResponse(*team)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRules godoc
// @Summary Rank table and scoring rules
// @Tags leaderboard
// @Produce json
// @Success 200 {object} rulesResponse
// @Router /rules [get]
func (h *LeaderboardHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	response := rulesResponse{
		Ranks: rating.Ranks(),
		Rules: rating.Rules,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseLeaderboardFilter(r *http.Request) (models.LeaderboardFilter, error) {
	query := r.URL.Query()
	filter := models.LeaderboardFilter{Search: strings.TrimSpace(query.Get("q"))}
	if s := strings.TrimSpace(query.Get("rank")); s != "" {
		rank, err := rating.ParseRank(s)
		if err != nil {
			return filter, err
		}
		filter.Rank = &rank
	}
	return filter, nil
}
