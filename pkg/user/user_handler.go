package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/potluck/potluck/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Picture         string `json:"picture"`
	IsAdmin         bool   `json:"isAdmin"`
	CanCreateEvents bool   `json:"canCreateEvents"`
}

type UpdatePermissionsDTO struct {
	CanCreateEvents *bool `json:"canCreateEvents,omitempty"`
}

// Handler exposes the admin user-management surface.
type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{userService: userService}
}

// ListUsers returns all registered users. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing users")

	if !h.requireAdmin(w, r) {
		return
	}

	users, err := h.userService.ListAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, userToDTO(u))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateUserPermissions toggles the create-events grant. Admin only.
func (h *Handler) UpdateUserPermissions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !h.requireAdmin(w, r) {
		return
	}

	vars := mux.Vars(r)
	userId := vars["userId"]

	var dto UpdatePermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	updated, err := h.userService.UpdatePermissions(r.Context(), userId, dto.CanCreateEvents)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "User not found",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	actor, err := CurrentUser(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	if !actor.IsAdmin {
		w.WriteHeader(http.StatusForbidden)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Admin access required",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return false
	}
	return true
}

// ToDTO exposes the JSON shape for composed responses in other packages.
func ToDTO(u User) UserDTO {
	return userToDTO(u)
}

func userToDTO(u User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Picture:         u.Picture,
		IsAdmin:         u.IsAdmin,
		CanCreateEvents: u.CanCreateEvents,
	}
}
