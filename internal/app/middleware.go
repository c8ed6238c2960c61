package app

import (
	"github.com/gorilla/mux"
	"github.com/potluck/potluck/internal/config"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	// Resolve the session cookie into the current user for downstream
	// services.
	r.Use(deps.AuthMiddleware.WithCurrentUser)
}
