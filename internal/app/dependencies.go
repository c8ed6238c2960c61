package app

import (
	"database/sql"

	"github.com/potluck/potluck/internal/auth"
	"github.com/potluck/potluck/internal/config"
	"github.com/potluck/potluck/internal/rest"
	"github.com/potluck/potluck/internal/utils"
	"github.com/potluck/potluck/pkg/attendee"
	"github.com/potluck/potluck/pkg/event"
	"github.com/potluck/potluck/pkg/meal"
	"github.com/potluck/potluck/pkg/todo"
	"github.com/potluck/potluck/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	Sessions       auth.SessionRepository
	GoogleAuth     *auth.GoogleAuth
	AuthHandler    *auth.Handler
	AuthMiddleware *auth.Middleware

	AttendeeRepo    attendee.Repository
	AttendeeService attendee.Service
	AttendeeHandler *attendee.Handler

	MealRepo    meal.Repository
	MealService meal.Service
	MealPlanner *meal.Planner
	MealHandler *meal.Handler

	TodoRepo    todo.Repository
	TodoService todo.Service
	TodoHandler *todo.Handler

	EventRepo    event.Repository
	EventService event.Service
	EventHandler *event.Handler

	HealthHandler *rest.HealthHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewService(user.NewRepository(db), cfg.Admin.Emails, deps.Clock)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.Sessions = auth.NewSessionRepository(db)
	deps.GoogleAuth = auth.NewGoogleAuth(deps.UserService, deps.Sessions, cfg)
	deps.AuthHandler = auth.NewHandler()
	deps.AuthMiddleware = auth.NewMiddleware(deps.UserService, deps.Sessions, cfg.Session.CookieName)

	deps.AttendeeRepo = attendee.NewRepository(db)
	deps.AttendeeService = attendee.NewService(deps.AttendeeRepo, deps.Clock)
	deps.AttendeeHandler = attendee.NewHandler(deps.AttendeeService)

	deps.MealRepo = meal.NewRepository(db)
	deps.MealService = meal.NewService(deps.MealRepo, deps.AttendeeService, deps.Clock)
	deps.MealPlanner = meal.NewPlanner(deps.MealService)
	deps.MealHandler = meal.NewHandler(deps.MealService)

	deps.TodoRepo = todo.NewRepository(db)
	deps.TodoService = todo.NewService(deps.TodoRepo, deps.AttendeeService, deps.Clock)
	deps.TodoHandler = todo.NewHandler(deps.TodoService)

	deps.EventRepo = event.NewRepository(db)
	deps.EventService = event.NewService(
		deps.EventRepo,
		user.Permissions{},
		deps.AttendeeService,
		deps.MealService,
		deps.TodoService,
		deps.MealPlanner,
		deps.Clock,
	)
	deps.EventHandler = event.NewHandler(deps.EventService)

	deps.HealthHandler = rest.NewHealthHandler(db)

	return deps
}
