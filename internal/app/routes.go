package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/potluck/potluck/internal/auth"
	"github.com/potluck/potluck/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Liveness
	r.HandleFunc("/health", deps.HealthHandler.Health).Methods("GET")

	// Authentication
	r.HandleFunc("/auth/google/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/auth/google/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/auth/logout", deps.GoogleAuth.Logout).Methods("POST")
	r.HandleFunc("/auth/me", deps.AuthHandler.Me).Methods("GET")

	// Calendar export is public so calendar clients can subscribe.
	r.HandleFunc("/events/{id}/calendar.ics", deps.EventHandler.ExportICS).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.RequireAuth)

	// User management
	api.HandleFunc("/admin/users", deps.UserHandler.ListUsers).Methods("GET")
	api.HandleFunc("/admin/users/{userId}", deps.UserHandler.UpdateUserPermissions).Methods("PUT")

	// Events
	api.HandleFunc("/events", deps.EventHandler.ListEvents).Methods("GET")
	api.HandleFunc("/events", deps.EventHandler.CreateEvent).Methods("POST")
	api.HandleFunc("/events/{id}", deps.EventHandler.GetEvent).Methods("GET")
	api.HandleFunc("/events/{id}", deps.EventHandler.UpdateEvent).Methods("PUT")
	api.HandleFunc("/events/{id}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Attendees
	api.HandleFunc("/events/{id}/attendees", deps.AttendeeHandler.ListAttendees).Methods("GET")
	api.HandleFunc("/events/{id}/attendees", deps.AttendeeHandler.AddAttendee).Methods("POST")
	api.HandleFunc("/events/{id}/attendees/{attendeeId}", deps.AttendeeHandler.UpdateAttendee).Methods("PUT")
	api.HandleFunc("/events/{id}/attendees/{attendeeId}", deps.AttendeeHandler.RemoveAttendee).Methods("DELETE")

	// Meals
	api.HandleFunc("/events/{id}/meals", deps.MealHandler.ListMeals).Methods("GET")
	api.HandleFunc("/events/{id}/meals", deps.MealHandler.CreateMeal).Methods("POST")
	api.HandleFunc("/events/{id}/meals/{mealId}", deps.MealHandler.UpdateMeal).Methods("PUT")
	api.HandleFunc("/events/{id}/meals/{mealId}", deps.MealHandler.DeleteMeal).Methods("DELETE")

	// Meal items
	api.HandleFunc("/events/{id}/meals/{mealId}/items", deps.MealHandler.AddMealItem).Methods("POST")
	api.HandleFunc("/events/{id}/meals/{mealId}/items/{itemId}", deps.MealHandler.UpdateMealItem).Methods("PUT")
	api.HandleFunc("/events/{id}/meals/{mealId}/items/{itemId}", deps.MealHandler.DeleteMealItem).Methods("DELETE")

	// Meal item signups
	api.HandleFunc("/events/{id}/meals/{mealId}/items/{itemId}/signup", deps.MealHandler.SignupForItem).Methods("POST")
	api.HandleFunc("/events/{id}/meals/{mealId}/items/{itemId}/signup", deps.MealHandler.RemoveSignup).Methods("DELETE")

	// Todos
	api.HandleFunc("/events/{id}/todos", deps.TodoHandler.ListTodos).Methods("GET")
	api.HandleFunc("/events/{id}/todos", deps.TodoHandler.AddTodo).Methods("POST")
	api.HandleFunc("/events/{id}/todos/{todoId}", deps.TodoHandler.UpdateTodo).Methods("PUT")
	api.HandleFunc("/events/{id}/todos/{todoId}", deps.TodoHandler.RemoveTodo).Methods("DELETE")

	// Avoid the SPA fallback swallowing unknown API paths.
	api.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
