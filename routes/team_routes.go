package routes

import (
	"cofoundr_server/controllers"
	"cofoundr_server/services"

	"github.com/gorilla/mux"
)

// RegisterTeamRoutes sets up team assembly routes under /api/teams
func RegisterTeamRoutes(r *mux.Router, teamService *services.TeamService) {
	controller := controllers.NewTeamController(teamService)

	teamRouter := r.PathPrefix("/api/teams").Subrouter()
	teamRouter.HandleFunc("/invite", controller.HandleInviteToTeam).Methods("POST")
	teamRouter.HandleFunc("/lock", controller.HandleLockTeam).Methods("POST")
	teamRouter.HandleFunc("/{userId}", controller.HandleGetTeam).Methods("GET")
}
