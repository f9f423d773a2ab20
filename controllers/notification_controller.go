package controllers

import (
	"encoding/json"
	"net/http"

	"cofoundr_server/helpers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// NotificationController handles per-user notification endpoints
type NotificationController struct {
	NotificationService *services.NotificationService
}

// NewNotificationController initializes the controller
func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: service}
}

// HandleListNotifications returns a user's notifications
func (c *NotificationController) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	notifications, err := c.NotificationService.ListNotifications(r.Context(), userID)
	if err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, notifications)
}

// HandleMarkSeen flags a notification as seen
func (c *NotificationController) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		CreatedAt string `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := c.NotificationService.MarkSeen(r.Context(), request.UserID, request.CreatedAt); err != nil {
		helpers.WriteErrorResponse(w, err)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Notification marked as seen"})
}
