package auth

import (
	"net/http"
	"time"

	"github.com/potluck/potluck/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Middleware resolves the session cookie into the current user and puts it
// on the request context.
type Middleware struct {
	userService user.Service
	sessions    SessionRepository
	cookieName  string
}

func NewMiddleware(userService user.Service, sessions SessionRepository, cookieName string) *Middleware {
	return &Middleware{userService: userService, sessions: sessions, cookieName: cookieName}
}

// WithCurrentUser attaches the logged-in user to the context when a valid
// session cookie is present. Requests without one pass through untouched;
// handlers that need a user reject them via user.CurrentUser.
func (m *Middleware) WithCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookie, err := r.Cookie(m.cookieName)
		if err == nil {
			session, err := m.sessions.Get(ctx, cookie.Value)
			if err == nil && session.ExpiresAt.After(time.Now()) {
				u, err := m.userService.GetByID(ctx, session.UserID)
				if err == nil {
					ctx = user.WithUser(ctx, u)
				} else {
					log.Debugf("session %s references unknown user: %v", session.ID, err)
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that carry no logged-in user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := user.CurrentUser(r.Context()); err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
