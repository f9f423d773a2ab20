package routes

import (
	"cofoundr_server/controllers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up match listing, suggestions, locking, and admin cancellation under /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.HandleFunc("/lock", controller.HandleLockMatch).Methods("POST")
	matchRouter.HandleFunc("/admin-cancel", controller.HandleAdminCancelMatch).Methods("POST")
	matchRouter.HandleFunc("/{userId}", controller.HandleListMatches).Methods("GET")
	matchRouter.HandleFunc("/{userId}/suggestions", controller.HandleListSuggestions).Methods("GET")
}
