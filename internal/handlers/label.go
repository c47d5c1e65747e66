package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/review"
)

// LabelHandler applies an operator label to a record.
type LabelHandler struct {
	service review.Service
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(service review.Service) *LabelHandler {
	return &LabelHandler{service: service}
}

// LabelRequest represents the HTTP request payload for labeling a record.
type LabelRequest struct {
	Label string `json:"label"`
}

// ServeHTTP handles POST requests that label a record. The response carries
// the next item so the UI can advance without a second round trip.
func (h *LabelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	recordID := chi.URLParam(r, "recordID")
	if recordID == "" {
		writeError(ctx, w, http.StatusBadRequest, "Record id is required")
		return
	}

	var req LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Label == "" {
		writeError(ctx, w, http.StatusBadRequest, "Label is required")
		return
	}

	item, err := h.service.Label(ctx, recordID, req.Label)
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to label record")
		return
	}

	writeJSON(ctx, w, http.StatusOK, toItemResponse(item))
}
