package handler

import (
	"log/slog"
	"net/http"

	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/services"
	"lawlow/internal/httputil"
)

// LawHandler serves precedent and statute lookups
type LawHandler struct {
	laws      services.LawService
	bookmarks services.BookmarkService
	logger    *slog.Logger
}

// NewLawHandler creates a new law handler
func NewLawHandler(laws services.LawService, bookmarks services.BookmarkService, logger *slog.Logger) *LawHandler {
	return &LawHandler{
		laws:      laws,
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// List searches laws of one type
// GET /api/laws/{type}?q=&page=&take=
func (h *LawHandler) List(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.laws.GetLawList(r.Context(), lawType, models.ListQuery{
		Query: r.URL.Query().Get("q"),
		Page:  page,
		Take:  take,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.markBookmarked(r, lawType, result.List); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Get returns one law
// GET /api/laws/{type}/{id}
func (h *LawHandler) Get(w http.ResponseWriter, r *http.Request) {
	lawType, id, err := parseLawPath(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	detail, err := h.laws.GetLawDetail(r.Context(), lawType, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.markBookmarked(r, lawType, []models.Detail{detail}); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// markBookmarked only runs for signed-in callers; anonymous responses omit isBookmarked.
func (h *LawHandler) markBookmarked(r *http.Request, lawType models.LawType, details []models.Detail) error {
	userID, ok := httputil.GetUserID(r)
	if !ok {
		return nil
	}
	return h.bookmarks.MarkBookmarked(r.Context(), userID, lawType, details)
}
