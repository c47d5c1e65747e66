package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/decisions"
	"lexlabel/internal/review"
	"lexlabel/internal/storage"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProgressResponse mirrors review.Progress for the HTTP layer.
type ProgressResponse struct {
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// RecordResponse mirrors storage.ReviewRecord for the HTTP layer.
type RecordResponse struct {
	ID           string `json:"id"`
	DecisionID   string `json:"decision_id"`
	DecisionNum  string `json:"decision_num"`
	DecisionDate string `json:"decision_date"`
	PredArticle  string `json:"pred_article"`
	ArticleText  string `json:"article_text"`
	ChunkText    string `json:"chunk_text"`
	Implicit     string `json:"implicit,omitempty"`
	NeedsReview  bool   `json:"needs_review,omitempty"`
}

// ItemResponse mirrors review.Item for the HTTP layer.
type ItemResponse struct {
	Done     bool             `json:"done"`
	Record   *RecordResponse  `json:"record,omitempty"`
	Progress ProgressResponse `json:"progress"`
}

func toItemResponse(item review.Item) ItemResponse {
	resp := ItemResponse{
		Done: item.Done,
		Progress: ProgressResponse{
			Total:     item.Progress.Total,
			Remaining: item.Progress.Remaining,
		},
	}
	if item.Record != nil {
		resp.Record = toRecordResponse(item.Record)
	}
	return resp
}

func toRecordResponse(rec *storage.ReviewRecord) *RecordResponse {
	num, date := decisions.SplitID(rec.DecisionID)
	return &RecordResponse{
		ID:           rec.ID,
		DecisionID:   rec.DecisionID,
		DecisionNum:  num,
		DecisionDate: date,
		PredArticle:  rec.PredArticle,
		ArticleText:  rec.ArticleText,
		ChunkText:    rec.ChunkText,
		Implicit:     rec.Implicit,
		NeedsReview:  rec.NeedsReview,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, ErrorResponse{Error: message})
}

// writeServiceError maps review-service errors to HTTP status codes.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validation *review.ValidationError
	switch {
	case errors.As(err, &validation):
		logger.WarnContext(ctx, "invalid request", "error", err)
		writeError(ctx, w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, review.ErrInvalidInput):
		logger.WarnContext(ctx, "invalid request", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, storage.ErrNotFound):
		logger.WarnContext(ctx, "record not found", "error", err)
		writeError(ctx, w, http.StatusNotFound, "Record not found")
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, defaultMsg)
	}
}
