package handlers

import (
	"net/http"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/review"
)

// ProgressHandler reports total and remaining record counts.
type ProgressHandler struct {
	service review.Service
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(service review.Service) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// ServeHTTP handles GET requests for batch progress.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	progress, err := h.service.Progress(ctx)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to fetch progress")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ProgressResponse{
		Total:     progress.Total,
		Remaining: progress.Remaining,
	})
}
