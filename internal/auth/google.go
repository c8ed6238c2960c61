package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/potluck/potluck/internal/config"
	"github.com/potluck/potluck/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleAuth signs users in with Google and turns a successful OAuth
// exchange into a login session cookie.
type GoogleAuth struct {
	userService user.Service
	sessions    SessionRepository
	oauthConfig *oauth2.Config
	cookieName  string
	cookieTTL   time.Duration
	secure      bool
}

func NewGoogleAuth(userService user.Service, sessions SessionRepository, cfg config.Application) *GoogleAuth {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.Host + "/auth/google/callback",
		Scopes:       []string{oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
	}

	return &GoogleAuth{
		userService: userService,
		sessions:    sessions,
		oauthConfig: oauthConfig,
		cookieName:  cfg.Session.CookieName,
		cookieTTL:   time.Duration(cfg.Session.TTLDays) * 24 * time.Hour,
		secure:      cfg.Session.Secure,
	}
}

// stateCookieName holds the OAuth state nonce between the login redirect
// and the callback.
const stateCookieName = "oauth_state"

func (g *GoogleAuth) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})

	u := g.oauthConfig.AuthCodeURL(state)
	log.Tracef("Redirecting to Google auth URL")
	http.Redirect(w, r, u, http.StatusFound)
}

func (g *GoogleAuth) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The state must round-trip through the cookie, or the callback was not
	// started by us.
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.FormValue("state") {
		log.Error("oauth callback state does not match the login state")
		http.Redirect(w, r, "/?login=failed", http.StatusFound)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})

	code := r.FormValue("code")

	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		http.Redirect(w, r, "/?login=failed", http.StatusFound)
		return
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		log.Errorf("unable to create userinfo service: %v", err)
		http.Redirect(w, r, "/?login=failed", http.StatusFound)
		return
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		log.Errorf("unable to fetch userinfo: %v", err)
		http.Redirect(w, r, "/?login=failed", http.StatusFound)
		return
	}

	u, err := g.userService.Upsert(ctx, info.Id, info.Email, info.Name, info.Picture)
	if err != nil {
		log.Errorf("unable to upsert user %s: %v", info.Email, err)
		http.Redirect(w, r, "/?login=failed", http.StatusFound)
		return
	}

	session, err := g.sessions.Create(ctx, u.ID, g.cookieTTL)
	if err != nil {
		log.Errorf("unable to create session for user %s: %v", u.ID, err)
		http.Redirect(w, r, "/?login=failed", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	log.Debugf("Signed in user %s", u.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (g *GoogleAuth) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(g.cookieName)
	if err == nil {
		if delErr := g.sessions.Delete(r.Context(), cookie.Value); delErr != nil {
			log.Errorf("could not delete session: %v", delErr)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
