package routes

import (
	"cofoundr_server/controllers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RegisterVerificationRoutes sets up admin review of verification requests under /api/verifications
func RegisterVerificationRoutes(r *mux.Router, verificationService *services.VerificationService) {
	controller := controllers.NewVerificationController(verificationService)

	verificationRouter := r.PathPrefix("/api/verifications").Subrouter()
	verificationRouter.HandleFunc("/decide", controller.HandleDecideVerification).Methods("POST")
}
