package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/potluck/potluck/internal/config"
	"github.com/potluck/potluck/internal/utils"
	"github.com/potluck/potluck/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGoogleAuth() *GoogleAuth {
	cfg := config.Application{
		Host: "http://localhost:8080",
		Google: config.Google{
			ClientId:     "test-client",
			ClientSecret: "test-secret",
		},
		Session: config.Session{CookieName: "potluck_session", TTLDays: 30},
	}
	userService := user.NewService(user.NewRepository(db), nil, &utils.SystemClock{})
	return NewGoogleAuth(userService, NewSessionRepository(db), cfg)
}

func stateCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			return c
		}
	}
	return nil
}

func TestGoogleAuth_OAuthLogin(t *testing.T) {
	// given
	g := setupGoogleAuth()
	req := httptest.NewRequest("GET", "/auth/google/login", nil)
	rec := httptest.NewRecorder()

	// when
	g.OAuthLogin(rec, req)

	// then the state in the consent URL round-trips through the cookie
	require.Equal(t, http.StatusFound, rec.Code)
	cookie := stateCookie(t, rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, cookie.Value, location.Query().Get("state"))
}

func TestGoogleAuth_OAuthCallback_RejectsBadState(t *testing.T) {
	t.Run("missing state cookie", func(t *testing.T) {
		g := setupGoogleAuth()
		req := httptest.NewRequest("GET", "/auth/google/callback?state=abc&code=code", nil)
		rec := httptest.NewRecorder()

		g.OAuthCallback(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/?login=failed", rec.Header().Get("Location"))
	})

	t.Run("state does not match the cookie", func(t *testing.T) {
		g := setupGoogleAuth()
		req := httptest.NewRequest("GET", "/auth/google/callback?state=abc&code=code", nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "other"})
		rec := httptest.NewRecorder()

		g.OAuthCallback(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/?login=failed", rec.Header().Get("Location"))
	})
}
