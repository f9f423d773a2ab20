package controllers

import (
	"encoding/json"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/services"
)

// VerificationController handles admin resolution of verification requests
type VerificationController struct {
	VerificationService *services.VerificationService
}

// NewVerificationController initializes the controller
func NewVerificationController(service *services.VerificationService) *VerificationController {
	return &VerificationController{VerificationService: service}
}

// HandleDecideVerification approves or rejects a pending verification
func (c *VerificationController) HandleDecideVerification(w http.ResponseWriter, r *http.Request) {
	var request struct {
		AdminID        string `json:"adminId"`
		VerificationID string `json:"verificationId"`
		Decision       string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	verification, err := c.VerificationService.Decide(r.Context(), request.AdminID, request.VerificationID, request.Decision)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, verification)
}
