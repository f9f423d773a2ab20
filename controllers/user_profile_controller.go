package controllers

import (
	"encoding/json"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/models"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles founder profile endpoints
type UserProfileController struct {
	ProfileService *services.UserProfileService
}

// NewUserProfileController initializes the controller
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{ProfileService: service}
}

// HandleSaveProfile creates or replaces the caller's profile
func (c *UserProfileController) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var request struct {
		CallerID string             `json:"callerId"`
		Profile  models.UserProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := c.ProfileService.SaveProfile(r.Context(), request.CallerID, &request.Profile); err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Profile saved successfully"})
}

// HandleGetProfile fetches a profile by user id
func (c *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := c.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, profile)
}
