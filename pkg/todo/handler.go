package todo

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/potluck/potluck/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	todos Service
}

type TodoDTO struct {
	ID                   string    `json:"id"`
	EventID              string    `json:"eventId"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Completed            bool      `json:"completed"`
	AssignedAttendeeID   *string   `json:"assignedAttendeeId"`
	AssignedAttendeeName *string   `json:"assignedAttendeeName"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type CreateTodoDTO struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	AssignedAttendeeID *string `json:"assignedAttendeeId,omitempty"`
}

type UpdateTodoDTO struct {
	Title              *string `json:"title,omitempty"`
	Description        *string `json:"description,omitempty"`
	Completed          *bool   `json:"completed,omitempty"`
	AssignedAttendeeID *string `json:"assignedAttendeeId,omitempty"`
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	eventId := mux.Vars(r)["id"]

	todos, err := h.todos.ListByEvent(r.Context(), eventId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TodoDTO, 0, len(todos))
	for _, t := range todos {
		dtos = append(dtos, todoToDTO(t))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) AddTodo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	eventId := mux.Vars(r)["id"]

	var dto CreateTodoDTO
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

	added, err := h.todos.Add(r.Context(), eventId, Draft{
		Title:              dto.Title,
		Description:        dto.Description,
		AssignedAttendeeID: dto.AssignedAttendeeID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	log.Tracef("Added todo %s to event %s", added.ID, eventId)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(todoToDTO(added)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	todoId := mux.Vars(r)["todoId"]

	var dto UpdateTodoDTO
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

	updated, err := h.todos.Update(r.Context(), todoId, Update{
		Title:              dto.Title,
		Description:        dto.Description,
		Completed:          dto.Completed,
		AssignedAttendeeID: dto.AssignedAttendeeID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(todoToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) RemoveTodo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["id"]
	todoId := vars["todoId"]

	if err := h.todos.Remove(r.Context(), eventId, todoId); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTodoNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrTodoDataInvalid):
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ToDTO exposes the JSON shape for composed responses in other packages.
func ToDTO(t Todo) TodoDTO {
	return todoToDTO(t)
}

func todoToDTO(t Todo) TodoDTO {
	return TodoDTO{
		ID:                   t.ID,
		EventID:              t.EventID,
		Title:                t.Title,
		Description:          t.Description,
		Completed:            t.Completed,
		AssignedAttendeeID:   t.AssignedAttendeeID,
		AssignedAttendeeName: t.AssignedAttendeeName,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}
