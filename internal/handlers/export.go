package handlers

import (
	"fmt"
	"net/http"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/review"
)

// ExportHandler streams the updated batch as a CSV download.
type ExportHandler struct {
	service review.Service
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(service review.Service) *ExportHandler {
	return &ExportHandler{service: service}
}

// ServeHTTP handles GET requests for the batch export.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	filename := h.service.ExportFilename()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.ExportCSV(ctx, w); err != nil {
		// Headers are already out; all that is left is to log.
		logger.ErrorContext(ctx, "failed to export batch", "error", err)
	}
}
