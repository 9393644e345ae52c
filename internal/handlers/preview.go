package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/service"
)

// PreviewHandler renders an entry's exported markdown file as HTML.
type PreviewHandler struct {
	svc      *service.NoteService
	parser   goldmark.Markdown
	template *template.Template
}

// previewPageData holds template data for rendered entry pages.
type previewPageData struct {
	Title   string
	Tags    string
	Content template.HTML
}

// NewPreviewHandler creates a handler for previewing exported entries.
func NewPreviewHandler(svc *service.NoteService) *PreviewHandler {
	tmpl := template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 720px;
      line-height: 1.7;
    }
    .meta {
      color: #64748b;
      font-size: 0.95rem;
      margin-top: 0.5rem;
    }
    blockquote {
      border-left: 4px solid #cbd5e1;
      padding-left: 1rem;
      margin-left: 0;
      color: #475569;
    }
    a {
      color: #2563eb;
      text-decoration: none;
    }
    a:hover {
      text-decoration: underline;
    }
  </style>
</head>
<body>
  <header>
    <p class="meta">{{.Tags}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &PreviewHandler{
		svc: svc,
		parser: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// ServeHTTP handles GET /api/inbox/{id}/preview.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	entry, err := h.svc.GetEntry(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		handleServiceError(w, ctx, err, "Failed to load entry")
		return
	}
	if entry.Destination == "" {
		http.Error(w, "entry has no exported file", http.StatusNotFound)
		return
	}

	data, err := os.ReadFile(entry.Destination)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "exported file not found", http.StatusNotFound)
			return
		}
		logger.ErrorContext(ctx, "failed to read exported file", "path", entry.Destination, "error", err)
		http.Error(w, "failed to read exported file", http.StatusInternalServerError)
		return
	}

	var rendered bytes.Buffer
	if err := h.parser.Convert(data, &rendered); err != nil {
		logger.ErrorContext(ctx, "failed to render markdown", "entry_id", entry.ID, "error", err)
		http.Error(w, "failed to render entry", http.StatusInternalServerError)
		return
	}

	title := entry.Summary
	if title == "" {
		title = entry.Content
	}
	page := previewPageData{
		Title:   title,
		Tags:    entry.Tags,
		Content: template.HTML(rendered.String()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, page); err != nil {
		logger.ErrorContext(ctx, "failed to execute template", "error", err)
	}
}
