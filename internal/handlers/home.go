package handlers

import (
	_ "embed"
	"net/http"

	"lexlabel/internal/contextutil"
)

//go:embed home.html
var homePage []byte

// HomeHandler serves the single-page review UI.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// ServeHTTP serves the embedded review page.
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(homePage); err != nil {
		logger.ErrorContext(ctx, "failed to write home page", "error", err)
	}
}
