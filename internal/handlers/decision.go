package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lexlabel/internal/contextutil"
	"lexlabel/internal/decisions"
	"lexlabel/internal/highlight"
	"lexlabel/internal/review"
	"lexlabel/internal/storage"
)

// decisionPlaceholder stands in for the full text when the decision file is
// missing or unreadable. The page still renders so the operator can label
// from the chunk alone.
const decisionPlaceholder = "Decision text could not be found."

// DecisionHandler serves the full decision text as an HTML page with the
// reviewed chunk highlighted and scrolled into view.
type DecisionHandler struct {
	service  review.Service
	index    *decisions.Index
	template *template.Template
}

// decisionPageData holds template data for rendered decision pages.
type decisionPageData struct {
	Title        string
	DecisionNum  string
	DecisionDate string
	PredArticle  string
	ChunkText    string
	Matched      bool
	Content      template.HTML
	MarkID       string
}

// NewDecisionHandler creates a new handler for serving decision pages.
func NewDecisionHandler(service review.Service, index *decisions.Index) *DecisionHandler {
	tmpl := template.Must(template.New("decision").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    header {
      margin-bottom: 2rem;
      border-bottom: 1px solid rgba(148, 163, 184, 0.2);
      padding-bottom: 1.5rem;
    }
    h1 {
      margin-top: 0;
      color: #fff;
      font-size: 1.6rem;
    }
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
      box-shadow: 0 15px 35px rgba(2, 6, 23, 0.8);
    }
    mark {
      color: #050b18;
      padding: 1px 2px;
      border-radius: 3px;
    }
    .meta {
      color: #94a3b8;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
    .banner {
      background: rgba(248, 113, 113, 0.12);
      border: 1px solid rgba(248, 113, 113, 0.5);
      border-radius: 10px;
      color: #fca5a5;
      padding: 0.75rem 1rem;
      margin-bottom: 1.5rem;
    }
    .chunk {
      background: rgba(99, 102, 241, 0.12);
      border-left: 4px solid rgba(96, 165, 250, 0.6);
      border-radius: 6px;
      color: #c7d2fe;
      padding: 0.75rem 1rem;
      margin-top: 1rem;
    }
    @media (max-width: 640px) {
      body {
        padding: 1rem;
      }
      article {
        padding: 1.25rem;
      }
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Decision {{.DecisionNum}}{{if .DecisionDate}} &middot; {{.DecisionDate}}{{end}}{{if .PredArticle}} &middot; Predicted article: {{.PredArticle}}{{end}}</p>
    {{if not .Matched}}<div class="banner">The passage below could not be located in the decision text. Review it against the full text manually.</div>{{end}}
    <div class="chunk">{{.ChunkText}}</div>
  </header>
  <article>{{.Content}}</article>
  <script>
    (function () {
      var el = document.getElementById('{{.MarkID}}');
      if (el) {
        el.scrollIntoView({ block: 'center' });
      }
    })();
  </script>
</body>
</html>`))

	return &DecisionHandler{
		service:  service,
		index:    index,
		template: tmpl,
	}
}

// ServeHTTP renders the decision behind a record with its chunk highlighted.
func (h *DecisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	recordID := chi.URLParam(r, "recordID")
	if recordID == "" {
		http.Error(w, "record id is required", http.StatusBadRequest)
		return
	}

	rec, err := h.service.Record(ctx, recordID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to load record", "record_id", recordID, "error", err)
		http.Error(w, "failed to load record", http.StatusInternalServerError)
		return
	}

	fullText, err := h.index.Resolve(ctx, rec.DecisionID)
	if err != nil {
		if errors.Is(err, decisions.ErrNotFound) {
			logger.WarnContext(ctx, "decision file missing", "decision_id", rec.DecisionID)
		} else {
			logger.ErrorContext(ctx, "failed to resolve decision", "decision_id", rec.DecisionID, "error", err)
		}
		fullText = decisionPlaceholder
	}

	content := highlight.Render(fullText, rec.ChunkText)
	num, date := decisions.SplitID(rec.DecisionID)

	pageData := decisionPageData{
		Title:        "Decision " + num,
		DecisionNum:  num,
		DecisionDate: date,
		PredArticle:  rec.PredArticle,
		ChunkText:    rec.ChunkText,
		Matched:      highlight.Contains(content),
		Content:      content,
		MarkID:       highlight.MarkID,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, pageData); err != nil {
		logger.ErrorContext(ctx, "failed to execute decision template", "record_id", recordID, "error", err)
	}
}
