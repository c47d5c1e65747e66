package handlers

import (
	"net/http"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/review"
)

// NextHandler returns the record the operator should review now.
type NextHandler struct {
	service review.Service
}

// NewNextHandler creates a new NextHandler.
func NewNextHandler(service review.Service) *NextHandler {
	return &NextHandler{service: service}
}

// ServeHTTP handles GET requests for the next pending record.
func (h *NextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	item, err := h.service.Next(ctx)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to fetch next record")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toItemResponse(item))
}
