package attendee

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
	attendees Service
}

type AttendeeDTO struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateAttendeeDTO struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status Status `json:"status"`
}

type UpdateAttendeeDTO struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Status *Status `json:"status,omitempty"`
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	eventId := mux.Vars(r)["id"]

	attendees, err := h.attendees.ListByEvent(r.Context(), eventId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]AttendeeDTO, 0, len(attendees))
	for _, a := range attendees {
		dtos = append(dtos, attendeeToDTO(a))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) AddAttendee(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	eventId := mux.Vars(r)["id"]

	var dto CreateAttendeeDTO
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

	added, err := h.attendees.Add(r.Context(), eventId, Draft{
		Name:   dto.Name,
		Email:  dto.Email,
		Status: dto.Status,
	})
	if err != nil {
		if errors.Is(err, ErrAttendeeDataInvalid) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Tracef("Added attendee %s to event %s", added.ID, eventId)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(attendeeToDTO(added)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	attendeeId := mux.Vars(r)["attendeeId"]

	var dto UpdateAttendeeDTO
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

	updated, err := h.attendees.Update(r.Context(), attendeeId, Update{
		Name:   dto.Name,
		Email:  dto.Email,
		Status: dto.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAttendeeNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, ErrAttendeeDataInvalid):
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
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(attendeeToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) RemoveAttendee(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["id"]
	attendeeId := vars["attendeeId"]

	if err := h.attendees.Remove(r.Context(), eventId, attendeeId); err != nil {
		if errors.Is(err, ErrAttendeeNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToDTO exposes the JSON shape for composed responses in other packages.
func ToDTO(a Attendee) AttendeeDTO {
	return attendeeToDTO(a)
}

func attendeeToDTO(a Attendee) AttendeeDTO {
	return AttendeeDTO{
		ID:        a.ID,
		EventID:   a.EventID,
		Name:      a.Name,
		Email:     a.Email,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
