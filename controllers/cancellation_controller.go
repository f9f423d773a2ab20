package controllers

import (
	"encoding/json"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/services"
)

// CancellationController handles the match cancellation workflow
type CancellationController struct {
	CancellationService *services.CancellationService
}

// NewCancellationController initializes the controller
func NewCancellationController(service *services.CancellationService) *CancellationController {
	return &CancellationController{CancellationService: service}
}

// HandleRequestCancellation opens a cancellation against a locked match
func (c *CancellationController) HandleRequestCancellation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID  string `json:"userId"`
		MatchID string `json:"matchId"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	cancellation, err := c.CancellationService.RequestCancellation(r.Context(), request.UserID, request.MatchID, request.Reason)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, cancellation)
}

// HandleRespondToCancellation records the recipient's consent
func (c *CancellationController) HandleRespondToCancellation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID         string `json:"userId"`
		CancellationID string `json:"cancellationId"`
		Decision       string `json:"decision"`
		Response       string `json:"response,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	cancellation, err := c.CancellationService.RespondToCancellation(r.Context(), request.UserID, request.CancellationID, request.Decision, request.Response)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, cancellation)
}

// HandleDecideCancellation is the admin adjudication
func (c *CancellationController) HandleDecideCancellation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		AdminID        string `json:"adminId"`
		CancellationID string `json:"cancellationId"`
		Decision       string `json:"decision"`
		Note           string `json:"note,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	cancellation, err := c.CancellationService.DecideCancellation(r.Context(), request.AdminID, request.CancellationID, request.Decision, request.Note)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, cancellation)
}
