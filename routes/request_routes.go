package routes

import (
	"cofoundr_server/controllers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RegisterRequestRoutes sets up routes for the match request ledger under /api/requests
func RegisterRequestRoutes(r *mux.Router, requestService *services.RequestService) {
	controller := controllers.NewRequestController(requestService)

	requestRouter := r.PathPrefix("/api/requests").Subrouter()
	requestRouter.HandleFunc("", controller.HandleCreateRequest).Methods("POST")
	requestRouter.HandleFunc("/respond", controller.HandleRespondToRequest).Methods("POST")
	requestRouter.HandleFunc("/pay", controller.HandlePayForRequest).Methods("POST")
	requestRouter.HandleFunc("/{userId}", controller.HandleListRequests).Methods("GET")
}
