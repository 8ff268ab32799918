package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/httputil"
)

// errorStatus maps domain errors to an HTTP status and a client-safe detail
func errorStatus(err error) (int, string) {
	var conflictErr *domain.ConflictError
	var internalErr *domain.InternalError

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.As(err, &conflictErr):
		return http.StatusConflict, conflictErr.Error()
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream service failed"
	case errors.As(err, &internalErr):
		return http.StatusInternalServerError, internalErr.Message
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Debug("request canceled by client")
		return
	}

	status, detail := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	httputil.RespondError(w, status, detail)
}

// parseLawType reads the {type} path segment
func parseLawType(r *http.Request) (models.LawType, error) {
	return models.ParseLawType(r.PathValue("type"))
}

// parseLawPath reads the {type} and {id} path segments
func parseLawPath(r *http.Request) (models.LawType, string, error) {
	lawType, err := parseLawType(r)
	if err != nil {
		return "", "", err
	}
	id := r.PathValue("id")
	if id == "" {
		return "", "", &domain.ValidationError{Message: "law id is required"}
	}
	return lawType, id, nil
}

// parsePage reads page and take with the list defaults
func parsePage(r *http.Request) (page, take int, err error) {
	page, err = httputil.QueryInt(r, "page", models.DefaultPage)
	if err != nil {
		return 0, 0, &domain.ValidationError{Message: err.Error()}
	}
	take, err = httputil.QueryInt(r, "take", models.DefaultTake)
	if err != nil {
		return 0, 0, &domain.ValidationError{Message: err.Error()}
	}
	return page, take, nil
}
