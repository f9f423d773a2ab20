package routes

import (
	"cofoundr_server/controllers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RegisterCancellationRoutes sets up the mutual cancellation workflow under /api/cancellations
func RegisterCancellationRoutes(r *mux.Router, cancellationService *services.CancellationService) {
	controller := controllers.NewCancellationController(cancellationService)

	cancellationRouter := r.PathPrefix("/api/cancellations").Subrouter()
	cancellationRouter.HandleFunc("", controller.HandleRequestCancellation).Methods("POST")
	cancellationRouter.HandleFunc("/respond", controller.HandleRespondToCancellation).Methods("POST")
	cancellationRouter.HandleFunc("/decide", controller.HandleDecideCancellation).Methods("POST")
}
