package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/services"
)

// PaymentController handles payment initiation and the provider webhook
type PaymentController struct {
	PaymentService *services.PaymentService
}

// NewPaymentController initializes the controller
func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: service}
}

// HandleInitiatePayment starts an unlock/match_limit/verification/subscription payment
func (c *PaymentController) HandleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID  string `json:"userId"`
		Type    string `json:"type"`
		MatchID string `json:"matchId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	paymentURL, err := c.PaymentService.InitiatePayment(r.Context(), request.UserID, request.Type, request.MatchID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"paymentUrl": paymentURL})
}

// HandleWebhook reconciles a provider callback. The body is only used
// for the reference; the provider is re-verified before any effect.
func (c *PaymentController) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var callback struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&callback); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid webhook body"})
		return
	}
	if callback.Data.Reference == "" {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Missing transaction reference"})
		return
	}

	log.Printf("📥 Webhook received for reference %s (%s)", callback.Data.Reference, callback.Event)

	if err := c.PaymentService.ConfirmPayment(r.Context(), callback.Data.Reference); err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
