package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"lawlow/internal/domain"
	models "lawlow/internal/domain/models/law"
	"lawlow/internal/domain/services"
	"lawlow/internal/handler/sse"
	"lawlow/internal/httputil"
)

// SummaryHandler serves AI summaries of laws
type SummaryHandler struct {
	summaries services.SummaryService
	sseConfig *sse.Config
	logger    *slog.Logger
}

// NewSummaryHandler creates a new summary handler. A nil sseConfig uses sse.DefaultConfig.
func NewSummaryHandler(summaries services.SummaryService, sseConfig *sse.Config, logger *slog.Logger) *SummaryHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &SummaryHandler{
		summaries: summaries,
		sseConfig: sseConfig,
		logger:    logger,
	}
}

// Summarize returns a summary, with title and keywords on the first request
// POST /api/laws/{type}/{id}/summary
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	lawType, id, req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.summaries.Summarize(r.Context(), lawType, id, req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Additional returns only the easy title and keywords
// POST /api/laws/{type}/{id}/summary/additional
func (h *SummaryHandler) Additional(w http.ResponseWriter, r *http.Request) {
	lawType, id, err := parseLawPath(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	resp, err := h.summaries.TitleAndKeywords(r.Context(), lawType, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// Stream sends summary chunks as SSE data events and ends with a "done"
// event. Failures after the stream opened are sent as an "error" event
// carrying the problem status and detail.
// POST /api/laws/{type}/{id}/summary/stream
func (h *SummaryHandler) Stream(w http.ResponseWriter, r *http.Request) {
	lawType, id, req, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	keepAlive.Start(writer, h.logger)
	defer keepAlive.Stop()

	h.logger.Debug("summary stream opened", "type", lawType, "id", id)

	err = h.summaries.SummarizeStream(r.Context(), lawType, id, req, writer.WriteData)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		status, detail := errorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("summary stream failed", "type", lawType, "id", id, "error", err)
		}
		payload, _ := json.Marshal(httputil.ProblemDetail{
			Type:   "about:blank",
			Title:  http.StatusText(status),
			Status: status,
			Detail: detail,
		})
		_ = writer.WriteEvent("error", string(payload))
		return
	}

	if err := writer.WriteEvent("done", ""); err != nil {
		h.logger.Debug("summary stream closed before done", "error", err)
	}
}

func (h *SummaryHandler) parseRequest(w http.ResponseWriter, r *http.Request) (models.LawType, string, models.SummaryRequest, bool) {
	var req models.SummaryRequest

	lawType, id, err := parseLawPath(r)
	if err != nil {
		handleError(w, h.logger, err)
		return "", "", req, false
	}

	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, &domain.ValidationError{Message: err.Error()})
		return "", "", req, false
	}

	return lawType, id, req, true
}
