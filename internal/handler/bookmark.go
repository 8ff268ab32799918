package handler

import (
	"log/slog"
	"net/http"

	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/services"
	"lawlow/internal/httputil"
)

// BookmarkHandler handles a user's saved laws. Every route sits behind
// middleware.RequireAuth.
type BookmarkHandler struct {
	bookmarks services.BookmarkService
	logger    *slog.Logger
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(bookmarks services.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// Create bookmarks a law
// POST /api/laws/{type}/{id}/bookmark
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r)
	lawType, id, err := parseLawPath(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	bookmark, err := h.bookmarks.Create(r.Context(), userID, lawType, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, bookmark)
}

// Delete removes a bookmark
// DELETE /api/laws/{type}/{id}/bookmark
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r)
	lawType, id, err := parseLawPath(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.bookmarks.Delete(r.Context(), userID, lawType, id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List pages through bookmarked laws, newest first
// GET /api/laws/{type}/bookmarks?page=&take=
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r)
	lawType, err := parseLawType(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	page, take, err := parsePage(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	result, err := h.bookmarks.ListBookmarkedLaws(r.Context(), userID, lawType, models.PageQuery{Page: page, Take: take})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
