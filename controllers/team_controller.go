package controllers

import (
	"encoding/json"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// TeamController handles team assembly endpoints
type TeamController struct {
	TeamService *services.TeamService
}

// NewTeamController initializes the controller
func NewTeamController(service *services.TeamService) *TeamController {
	return &TeamController{TeamService: service}
}

// HandleGetTeam returns the user's team, if any
func (c *TeamController) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	team, err := c.TeamService.TeamFor(r.Context(), userID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}
	if team == nil {
		helpers.WriteJSONResponse(w, http.StatusNotFound, map[string]string{"error": "No team found"})
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, team)
}

// HandleInviteToTeam adds a matched user to the caller's forming team
func (c *TeamController) HandleInviteToTeam(w http.ResponseWriter, r *http.Request) {
	var request struct {
		OwnerID string `json:"ownerId"`
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	team, err := c.TeamService.InviteToTeam(r.Context(), request.OwnerID, request.MatchID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, team)
}

// HandleLockTeam makes the caller's team binding
func (c *TeamController) HandleLockTeam(w http.ResponseWriter, r *http.Request) {
	var request struct {
		OwnerID string `json:"ownerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	team, err := c.TeamService.LockTeam(r.Context(), request.OwnerID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, team)
}
