package controllers

import (
	"encoding/json"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles match record and suggestion endpoints
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController initializes the controller
func NewMatchController(service *services.MatchService) *MatchController {
	return &MatchController{MatchService: service}
}

// HandleListMatches returns the user's per-direction match views
func (c *MatchController) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	matches, err := c.MatchService.ListMatches(r.Context(), userID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, matches)
}

// HandleListSuggestions returns scored candidate profiles
func (c *MatchController) HandleListSuggestions(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	suggestions, err := c.MatchService.ListSuggestions(r.Context(), userID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, suggestions)
}

// HandleLockMatch commits the caller to a match
func (c *MatchController) HandleLockMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID  string `json:"userId"`
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	view, err := c.MatchService.LockMatch(r.Context(), request.UserID, request.MatchID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, view)
}

// HandleAdminCancelMatch cancels a match directly (admin only)
func (c *MatchController) HandleAdminCancelMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		AdminID string `json:"adminId"`
		MatchID string `json:"matchId"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if _, err := c.MatchService.Profiles.RequireAdmin(r.Context(), request.AdminID); err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	if err := c.MatchService.CancelMatch(r.Context(), request.AdminID, request.MatchID, request.Reason); err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Match cancelled"})
}
