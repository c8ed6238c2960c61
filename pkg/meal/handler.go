package meal

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/potluck/potluck/internal/rest"
	"github.com/potluck/potluck/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	meals Service
}

type MealDTO struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	Date      *string   `json:"date"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MealItemDTO struct {
	ID                   string    `json:"id"`
	MealID               string    `json:"mealId"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	AssignedAttendeeID   *string   `json:"assignedAttendeeId"`
	AssignedAttendeeName *string   `json:"assignedAttendeeName"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type MealSignupDTO struct {
	ID         string    `json:"id"`
	MealItemID string    `json:"mealItemId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserEmail  string    `json:"userEmail"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MealItemWithSignupsDTO struct {
	MealItemDTO
	Signups []MealSignupDTO `json:"signups"`
}

type MealWithItemsDTO struct {
	MealDTO
	Items []MealItemWithSignupsDTO `json:"items"`
}

type CreateMealDTO struct {
	Name  string  `json:"name"`
	Type  Type    `json:"type"`
	Date  *string `json:"date,omitempty"`
	Notes string  `json:"notes"`
}

type UpdateMealDTO struct {
	Name  *string `json:"name,omitempty"`
	Type  *Type   `json:"type,omitempty"`
	Date  *string `json:"date,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

type CreateMealItemDTO struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	AssignedAttendeeID *string `json:"assignedAttendeeId,omitempty"`
}

type UpdateMealItemDTO struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	AssignedAttendeeID *string `json:"assignedAttendeeId,omitempty"`
}

type SignupDTO struct {
	Notes string `json:"notes"`
}

func NewHandler(s Service) *Handler {
	return &Handler{s}
}

func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	eventId := mux.Vars(r)["id"]

	meals, err := h.meals.ListWithItems(r.Context(), eventId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]MealWithItemsDTO, 0, len(meals))
	for _, m := range meals {
		dtos = append(dtos, mealWithItemsToDTO(m))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	eventId := mux.Vars(r)["id"]

	var dto CreateMealDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequestBody(w)
		return
	}

	created, err := h.meals.Create(r.Context(), eventId, Draft{
		Name:  dto.Name,
		Type:  dto.Type,
		Date:  dto.Date,
		Notes: dto.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	log.Tracef("Created meal %s for event %s", created.ID, eventId)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(mealToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	mealId := mux.Vars(r)["mealId"]

	var dto UpdateMealDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequestBody(w)
		return
	}

	updated, err := h.meals.Update(r.Context(), mealId, Update{
		Name:  dto.Name,
		Type:  dto.Type,
		Date:  dto.Date,
		Notes: dto.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(mealToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	eventId := vars["id"]
	mealId := vars["mealId"]

	if err := h.meals.Delete(r.Context(), eventId, mealId); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddMealItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	mealId := mux.Vars(r)["mealId"]

	var dto CreateMealItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequestBody(w)
		return
	}

	item, err := h.meals.AddItem(r.Context(), mealId, ItemDraft{
		Name:               dto.Name,
		Description:        dto.Description,
		AssignedAttendeeID: dto.AssignedAttendeeID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(itemToDTO(item)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateMealItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	itemId := mux.Vars(r)["itemId"]

	var dto UpdateMealItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequestBody(w)
		return
	}

	item, err := h.meals.UpdateItem(r.Context(), itemId, ItemUpdate{
		Name:               dto.Name,
		Description:        dto.Description,
		AssignedAttendeeID: dto.AssignedAttendeeID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(itemToDTO(item)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteMealItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mealId := vars["mealId"]
	itemId := vars["itemId"]

	if err := h.meals.DeleteItem(r.Context(), mealId, itemId); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SignupForItem(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	mealId := vars["mealId"]
	itemId := vars["itemId"]

	// The body is optional; a signup without notes may be an empty request.
	var dto SignupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequestBody(w)
		return
	}

	signup, err := h.meals.SignUp(r.Context(), mealId, itemId, dto.Notes)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(signupToDTO(signup)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) RemoveSignup(w http.ResponseWriter, r *http.Request) {
	itemId := mux.Vars(r)["itemId"]

	if err := h.meals.RemoveSignup(r.Context(), itemId); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMealNotFound), errors.Is(err, ErrMealItemNotFound), errors.Is(err, ErrSignupNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrMealDataInvalid), errors.Is(err, ErrAttendeeNotInEvent):
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
	case errors.Is(err, ErrAlreadySignedUp):
		w.WriteHeader(http.StatusConflict)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
	case errors.Is(err, user.ErrNoUser):
		w.WriteHeader(http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequestBody(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error: "Invalid request body format",
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func mealToDTO(m Meal) MealDTO {
	return MealDTO{
		ID:        m.ID,
		EventID:   m.EventID,
		Name:      m.Name,
		Type:      m.Type,
		Date:      m.Date,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func itemToDTO(item MealItem) MealItemDTO {
	return MealItemDTO{
		ID:                   item.ID,
		MealID:               item.MealID,
		Name:                 item.Name,
		Description:          item.Description,
		AssignedAttendeeID:   item.AssignedAttendeeID,
		AssignedAttendeeName: item.AssignedAttendeeName,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}

func signupToDTO(s MealSignup) MealSignupDTO {
	return MealSignupDTO{
		ID:         s.ID,
		MealItemID: s.MealItemID,
		UserID:     s.UserID,
		UserName:   s.UserName,
		UserEmail:  s.UserEmail,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
	}
}

// ToDTO exposes the JSON shape for composed responses in other packages.
func ToDTO(m MealWithItems) MealWithItemsDTO {
	return mealWithItemsToDTO(m)
}

func mealWithItemsToDTO(m MealWithItems) MealWithItemsDTO {
	items := make([]MealItemWithSignupsDTO, 0, len(m.Items))
	for _, item := range m.Items {
		signups := make([]MealSignupDTO, 0, len(item.Signups))
		for _, s := range item.Signups {
			signups = append(signups, signupToDTO(s))
		}
		items = append(items, MealItemWithSignupsDTO{
			MealItemDTO: itemToDTO(item.MealItem),
			Signups:     signups,
		})
	}
	return MealWithItemsDTO{
		MealDTO: mealToDTO(m.Meal),
		Items:   items,
	}
}
