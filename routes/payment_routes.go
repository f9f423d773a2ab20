package routes

import (
	"cofoundr_server/controllers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RegisterPaymentRoutes sets up payment initiation and the provider webhook under /api/payments
func RegisterPaymentRoutes(r *mux.Router, paymentService *services.PaymentService) {
	controller := controllers.NewPaymentController(paymentService)

	paymentRouter := r.PathPrefix("/api/payments").Subrouter()
	paymentRouter.HandleFunc("", controller.HandleInitiatePayment).Methods("POST")
	paymentRouter.HandleFunc("/webhook", controller.HandleWebhook).Methods("POST")
}
