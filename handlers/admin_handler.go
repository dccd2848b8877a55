package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/ranked-hc/services"
	"github.com/go-chi/chi/v5"
)

const maxImportBytes = 5 << 20

type AdminHandler struct {
	rosterService services.RosterService
}

func NewAdminHandler(rs services.RosterService) *AdminHandler {
	return &AdminHandler{rosterService: rs}
}

type createPlayerRequest struct {
	Abbreviation string `json:"abbreviation"`
	Rating       *int   `json:"rating"`
}

type updatePlayerRequest struct {
	Abbreviation *string `json:"abbreviation"`
	Rating       *int    `json:"rating"`
}

type createTeamRequest struct {
	Name   string   `json:"name"`
	Roster []string `json:"roster"`
}

type renameTeamRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	Abbreviation string `json:"abbreviation"`
}

// CreatePlayer godoc
// @Summary Create a player
// @Tags admin
// @Accept json
// @Produce json
// @Param input body createPlayerRequest true "player"
// @Success 201 {object} playerEnvelope
// @Failure 403 {object} errorEnvelope
// @Failure 409 {object} errorEnvelope
// @Router /admin/players [post]
func (h *AdminHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input createPlayerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, _ := sessionFromRequest(r)
	player, err := h.rosterService.CreatePlayer(r.Context(), sess, services.CreatePlayerInput{
		Abbreviation: input.Abbreviation,
		Rating:       input.Rating,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, playerEnvelope{Player: newPlayerResponse(*player)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdatePlayer godoc
// @Summary Rename a player and/or change the rating
// @Tags admin
// @Accept json
// @Produce json
// @Param abv path string true "abbreviation"
// @Param input body updatePlayerRequest true "changes"
// @Success 200 {object} playerEnvelope
// @Router /admin/players/{abv} [patch]
func (h *AdminHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var input updatePlayerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Abbreviation == nil && input.Rating == nil {
		badRequestResponse(w, r, errors.New("nothing to update"))
		return
	}

	sess, _ := sessionFromRequest(r)
	player, err := h.rosterService.UpdatePlayer(r.Context(), sess, chi.URLParam(r, "abv"), services.UpdatePlayerInput{
		Abbreviation: input.Abbreviation,
		Rating:       input.Rating,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, playerEnvelope{Player: newPlayerResponse(*player)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeletePlayer godoc
// @Summary Delete a player and remove them from every roster
// @Tags admin
// @Param abv path string true "abbreviation"
// @Success 204
// @Router /admin/players/{abv} [delete]
func (h *AdminHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromRequest(r)
	if err := h.rosterService.DeletePlayer(r.Context(), sess, chi.URLParam(r, "abv")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportPlayers godoc
// @Summary Upsert players from CSV (Abv/abbreviation, ELO/rating columns)
// @Tags admin
// @Accept text/csv
// @Produce json
// @Success 200 {object} services.ImportResult
// @Failure 422 {object} errorEnvelope
// @Router /admin/players/import [post]
func (h *AdminHandler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "text/csv") && !strings.HasPrefix(ct, "text/plain") {
		errorResponse(w, r, http.StatusUnsupportedMediaType, "expected text/csv body")
		return
	}

	sess, _ := sessionFromRequest(r)
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := h.rosterService.ImportPlayers(r.Context(), sess, body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTeam godoc
// @Summary Create a team with its initial roster
// @Tags admin
// @Accept json
// @Produce json
// @Param input body createTeamRequest true "team"
// @Success 201 {object} teamEnvelope
// @Failure 422 {object} errorEnvelope
// @Router /admin/teams [post]
func (h *AdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input createTeamRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, _ := sessionFromRequest(r)
	team, err := h.rosterService.CreateTeam(r.Context(), sess, services.CreateTeamInput{
		Name:   input.Name,
		Roster: input.Roster,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, teamEnvelope{Team: newTeamResponse(*team)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RenameTeam godoc
// @Summary Rename a team
// @Tags admin
// @Accept json
// @Produce json
// @Param teamID path int true "team id"
// @Param input body renameTeamRequest true "name"
// @Success 200 {object} teamEnvelope
// @Router /admin/teams/{teamID} [patch]
func (h *AdminHandler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input renameTeamRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, _ := sessionFromRequest(r)
	team, err := h.rosterService.RenameTeam(r.Context(), sess, teamID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamEnvelope{Team: newTeamResponse(*team)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeam godoc
// @Summary Delete a team
// @Tags admin
// @Param teamID path int true "team id"
// @Success 204
// @Router /admin/teams/{teamID} [delete]
func (h *AdminHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, _ := sessionFromRequest(r)
	if err := h.rosterService.DeleteTeam(r.Context(), sess, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTeamMember godoc
// @Summary Add a player to a roster
// @Tags admin
// @Accept json
// @Produce json
// @Param teamID path int true "team id"
// @Param input body addMemberRequest true "player"
// @Success 200 {object} teamEnvelope
// @Router /admin/teams/{teamID}/members [post]
func (h *AdminHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input addMemberRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, _ := sessionFromRequest(r)
	team, err := h.rosterService.AddTeamMember(r.Context(), sess, teamID, input.Abbreviation)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamEnvelope{Team: newTeamResponse(*team)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTeamMember godoc
// @Summary Remove a player from a roster
// @Tags admin
// @Produce json
// @Param teamID path int true "team id"
// @Param abv path string true "abbreviation"
// @Success 200 {object} teamEnvelope
// @Router /admin/teams/{teamID}/members/{abv} [delete]
func (h *AdminHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sess, _ := sessionFromRequest(r)
	team, err := h.rosterService.RemoveTeamMember(r.Context(), sess, teamID, chi.URLParam(r, "abv"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, teamEnvelope{Team: newTeamResponse(*team)}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportLeaderboard godoc
// @Summary Publish the leaderboard CSV to object storage
// @Tags admin
// @Produce json
// @Success 201 {object} services.ExportResult
// @Failure 503 {object} errorEnvelope
// @Router /admin/exports [post]
func (h *AdminHandler) ExportLeaderboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromRequest(r)
	result, err := h.rosterService.ExportLeaderboard(r.Context(), sess)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
