package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"lexlabel/internal/contextutil"
)

//go:embed guide.md
var guideMarkdown []byte

// GuideHandler serves the annotation guide as a rendered HTML page.
type GuideHandler struct {
	page []byte
}

// guidePageData holds template data for the rendered guide page.
type guidePageData struct {
	Content template.HTML
}

// NewGuideHandler renders the embedded guide once and serves the result.
func NewGuideHandler() (*GuideHandler, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			ghhtml.WithUnsafe(),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	var body bytes.Buffer
	if err := md.Convert(guideMarkdown, &body); err != nil {
		return nil, err
	}

	tmpl := template.Must(template.New("guide").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Annotation guide</title>
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
    article {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 2rem;
      box-shadow: 0 15px 35px rgba(2, 6, 23, 0.8);
    }
    article h1, article h2, article h3 {
      color: #c7d2fe;
    }
    article h1 {
      margin-top: 0;
    }
    table {
      border-collapse: collapse;
      width: 100%;
    }
    th, td {
      border: 1px solid rgba(148, 163, 184, 0.3);
      padding: 0.5rem 0.75rem;
      text-align: left;
    }
    code {
      background: rgba(99, 102, 241, 0.18);
      padding: 2px 5px;
      border-radius: 6px;
    }
    a {
      color: #60a5fa;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
  </style>
</head>
<body>
  <article>{{.Content}}</article>
  <p><a href="/">&larr; Back to review</a></p>
</body>
</html>`))

	var page bytes.Buffer
	if err := tmpl.Execute(&page, guidePageData{Content: template.HTML(body.String())}); err != nil {
		return nil, err
	}

	return &GuideHandler{page: page.Bytes()}, nil
}

// ServeHTTP serves the pre-rendered guide page.
func (h *GuideHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(h.page); err != nil {
		logger.ErrorContext(ctx, "failed to write guide page", "error", err)
	}
}
