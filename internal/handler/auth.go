package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"lawlow/internal/domain"
	"lawlow/internal/domain/services"
	"lawlow/internal/httputil"
)

const (
	stateCookie   = "oauth_state"
	refreshCookie = "refresh_token"
	authPath      = "/api/auth"
	stateTTL      = 10 * time.Minute
)

// CookieConfig controls the auth cookies
type CookieConfig struct {
	Secure     bool
	RefreshTTL time.Duration
}

// AuthHandler handles Google login and token refresh
type AuthHandler struct {
	auth      services.AuthService
	cookies   CookieConfig
	clientURL string
	logger    *slog.Logger
}

// NewAuthHandler creates a new auth handler. After login the browser is
// sent to clientURL with the access token in the query string.
func NewAuthHandler(auth services.AuthService, cookies CookieConfig, clientURL string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		cookies:   cookies,
		clientURL: clientURL,
		logger:    logger,
	}
}

// GoogleLogin redirects to the Google consent page
// GET /api/auth/google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	h.setCookie(w, stateCookie, state, stateTTL)
	http.Redirect(w, r, h.auth.LoginURL(state), http.StatusFound)
}

// GoogleCallback finishes the OAuth flow
// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != query.Get("state") {
		handleError(w, h.logger, &domain.ValidationError{Message: "invalid oauth state"})
		return
	}
	h.clearCookie(w, stateCookie)

	user, tokens, err := h.auth.Login(r.Context(), query.Get("code"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.setCookie(w, refreshCookie, tokens.RefreshToken, h.cookies.RefreshTTL)

	target, err := url.Parse(h.clientURL)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	q := target.Query()
	q.Set("accessToken", tokens.AccessToken)
	target.RawQuery = q.Encode()

	h.logger.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, target.String(), http.StatusFound)
}

// Refresh issues a new access token from the refresh cookie
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		handleError(w, h.logger, &domain.UnauthorizedError{Message: "refresh token missing"})
		return
	}

	tokens, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.clearCookie(w, refreshCookie)
		handleError(w, h.logger, err)
		return
	}
	if tokens.RefreshToken != "" {
		h.setCookie(w, refreshCookie, tokens.RefreshToken, h.cookies.RefreshTTL)
	}

	httputil.RespondJSON(w, http.StatusOK, tokens)
}

// Logout clears the refresh cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, refreshCookie)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user
// GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r)

	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     authPath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     authPath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
