// Package http wires the handlers into a chi router.
package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"digitalbrain/internal/handlers"
	"digitalbrain/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Notes *service.NoteService
	DB    *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	noteHandler := handlers.NewNoteHandler(deps.Notes)
	inboxHandler := handlers.NewInboxHandler(deps.Notes)
	groupsHandler := handlers.NewGroupsHandler(deps.Notes)
	remindersHandler := handlers.NewRemindersHandler(deps.Notes)
	previewHandler := handlers.NewPreviewHandler(deps.Notes)

	r.Route("/api", func(r chi.Router) {
		r.Post("/note", noteHandler.Submit)
		r.Post("/batch-save", noteHandler.BatchSave)

		r.Route("/inbox", func(r chi.Router) {
			r.Post("/", inboxHandler.Create)
			r.Get("/", inboxHandler.List)
			r.Get("/{id}", inboxHandler.Get)
			r.Patch("/{id}", inboxHandler.Update)
			r.Delete("/{id}", inboxHandler.Discard)
			r.Post("/{id}/process", inboxHandler.Process)
			r.Post("/{id}/classify", inboxHandler.Classify)
			r.Method(http.MethodGet, "/{id}/preview", previewHandler)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", groupsHandler.List)
			r.Delete("/{group}", groupsHandler.Delete)
			r.Post("/{group}/rename", groupsHandler.Rename)
			r.Delete("/{group}/subgroups/{subgroup}", groupsHandler.DeleteSubgroup)
			r.Post("/{group}/subgroups/{subgroup}/rename", groupsHandler.RenameSubgroup)
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/", remindersHandler.List)
			r.Delete("/{id}", remindersHandler.Delete)
		})

		r.Method(http.MethodGet, "/search", handlers.NewSearchHandler(deps.Notes))
		r.Method(http.MethodGet, "/summaries", handlers.NewSummariesHandler(deps.Notes))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB))
	})

	return r
}
