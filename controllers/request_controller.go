package controllers

import (
	"encoding/json"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RequestController handles the match request ledger endpoints
type RequestController struct {
	RequestService *services.RequestService
}

// NewRequestController initializes the controller
func NewRequestController(service *services.RequestService) *RequestController {
	return &RequestController{RequestService: service}
}

// HandleCreateRequest opens a pending match request
func (c *RequestController) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RequesterID string `json:"requesterId"`
		RecipientID string `json:"recipientId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	created, err := c.RequestService.CreateRequest(r.Context(), request.RequesterID, request.RecipientID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusCreated, created)
}

// HandleRespondToRequest records the recipient's accept or decline
func (c *RequestController) HandleRespondToRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RecipientID string `json:"recipientId"`
		RequestID   string `json:"requestId"`
		Decision    string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	updated, err := c.RequestService.RespondToRequest(r.Context(), request.RecipientID, request.RequestID, request.Decision)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, updated)
}

// HandlePayForRequest initiates the caller's side of the match fee
func (c *RequestController) HandlePayForRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PayerID   string `json:"payerId"`
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	paymentURL, err := c.RequestService.PayForRequest(r.Context(), request.PayerID, request.RequestID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"paymentUrl": paymentURL})
}

// HandleListRequests partitions the user's requests by direction
func (c *RequestController) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	list, err := c.RequestService.ListRequests(r.Context(), userID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, list)
}
