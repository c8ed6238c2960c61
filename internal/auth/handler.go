package auth

import (
	"encoding/json"
	"net/http"

	"github.com/potluck/potluck/pkg/user"
)

// Handler serves the session introspection endpoint.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Me returns the logged-in user, or 401 when there is none.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	u, err := user.CurrentUser(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user.ToDTO(u)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
