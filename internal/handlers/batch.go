package handlers

import (
	"io"
	"mime"
	"net/http"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/review"
)

// maxUploadBytes bounds uploaded batch files (32 MiB, far beyond any
// realistic annotation batch).
const maxUploadBytes = 32 << 20

// BatchHandler handles HTTP requests for importing an annotation batch.
type BatchHandler struct {
	service review.Service
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(service review.Service) *BatchHandler {
	return &BatchHandler{service: service}
}

// ImportResponse represents the HTTP response payload for a batch import.
type ImportResponse struct {
	BatchID   int    `json:"batch_id"`
	Filename  string `json:"filename"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
	Reused    bool   `json:"reused"`
}

// ServeHTTP accepts an annotation batch as either a multipart form with a
// "file" field or a raw CSV body.
func (h *BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, filename, err := uploadPayload(r)
	if err != nil {
		logger.WarnContext(ctx, "invalid upload", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid upload")
		return
	}
	defer func() {
		_ = body.Close()
	}()

	summary, err := h.service.ImportCSV(ctx, filename, io.LimitReader(body, maxUploadBytes))
	if err != nil {
		writeServiceError(ctx, w, err, "Failed to import batch")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ImportResponse{
		BatchID:   summary.BatchID,
		Filename:  summary.Filename,
		Total:     summary.Total,
		Remaining: summary.Remaining,
		Reused:    summary.Reused,
	})
}

// uploadPayload extracts the uploaded file and its name from the request.
func uploadPayload(r *http.Request) (io.ReadCloser, string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		return file, header.Filename, nil
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "upload.csv"
	}
	return r.Body, filename, nil
}
