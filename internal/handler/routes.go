package handler

import (
	"net/http"

	"lawlow/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Health   *HealthHandler
	Law      *LawHandler
	Bookmark *BookmarkHandler
	Summary  *SummaryHandler
	Auth     *AuthHandler
}

// RegisterRoutes mounts every API route (Go 1.22+ enhanced patterns).
// The auth middleware must wrap the mux so optional-auth routes see the user.
func RegisterRoutes(mux *http.ServeMux, h Handlers, summaryThrottle *middleware.Throttle) {
	mux.HandleFunc("GET /health", h.Health.Health)

	// Laws
	mux.HandleFunc("GET /api/laws/{type}", h.Law.List)
	mux.HandleFunc("GET /api/laws/{type}/bookmarks", middleware.RequireAuth(h.Bookmark.List)) // More specific than {id}
	mux.HandleFunc("GET /api/laws/{type}/{id}", h.Law.Get)

	// Summaries
	mux.HandleFunc("POST /api/laws/{type}/{id}/summary", summaryThrottle.Wrap(h.Summary.Summarize))
	mux.HandleFunc("POST /api/laws/{type}/{id}/summary/additional", summaryThrottle.Wrap(h.Summary.Additional))
	mux.HandleFunc("POST /api/laws/{type}/{id}/summary/stream", summaryThrottle.Wrap(h.Summary.Stream))

	// Bookmarks
	mux.HandleFunc("POST /api/laws/{type}/{id}/bookmark", middleware.RequireAuth(h.Bookmark.Create))
	mux.HandleFunc("DELETE /api/laws/{type}/{id}/bookmark", middleware.RequireAuth(h.Bookmark.Delete))

	// Auth
	mux.HandleFunc("GET /api/auth/google", h.Auth.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", h.Auth.GoogleCallback)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", middleware.RequireAuth(h.Auth.Logout))
	mux.HandleFunc("GET /api/users/me", middleware.RequireAuth(h.Auth.Me))
}
