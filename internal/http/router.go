package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lexlabel/internal/decisions"
	"lexlabel/internal/handlers"
	"lexlabel/internal/review"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Review    review.Service
	Decisions *decisions.Index
	DB        *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Decisions)
	batchHandler := handlers.NewBatchHandler(deps.Review)
	nextHandler := handlers.NewNextHandler(deps.Review)
	labelHandler := handlers.NewLabelHandler(deps.Review)
	progressHandler := handlers.NewProgressHandler(deps.Review)
	exportHandler := handlers.NewExportHandler(deps.Review)
	decisionHandler := handlers.NewDecisionHandler(deps.Review, deps.Decisions)
	guideHandler, err := handlers.NewGuideHandler()
	if err != nil {
		return nil, err
	}
	homeHandler := handlers.NewHomeHandler()

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/batch", batchHandler)
		r.Method(http.MethodGet, "/records/next", nextHandler)
		r.Method(http.MethodPost, "/records/{recordID}/label", labelHandler)
		r.Method(http.MethodGet, "/progress", progressHandler)
		r.Method(http.MethodGet, "/export", exportHandler)
	})

	// HTML pages
	r.Method(http.MethodGet, "/records/{recordID}/decision", decisionHandler)
	r.Method(http.MethodGet, "/guide", guideHandler)
	r.Method(http.MethodGet, "/", homeHandler)

	return r, nil
}
