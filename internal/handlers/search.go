package handlers

import (
	"net/http"
	"strconv"

	"digitalbrain/internal/service"
)

// SearchHandler answers entry search queries.
type SearchHandler struct {
	svc *service.NoteService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.NoteService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// ServeHTTP handles GET /api/search?q=...&limit=...
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.Search(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		handleServiceError(w, ctx, err, "Search failed")
		return
	}
	writeJSON(w, http.StatusOK, entriesOut(entries))
}
