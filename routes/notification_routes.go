package routes

import (
	"cofoundr_server/controllers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up notification routes under /api/notifications
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService) {
	controller := controllers.NewNotificationController(notificationService)

	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()
	notificationRouter.HandleFunc("/seen", controller.HandleMarkSeen).Methods("POST")
	notificationRouter.HandleFunc("/{userId}", controller.HandleListNotifications).Methods("GET")
}
