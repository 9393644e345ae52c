package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/service"
)

// InboxHandler handles the pending entry lifecycle.
type InboxHandler struct {
	svc *service.NoteService
}

// NewInboxHandler creates a new InboxHandler.
func NewInboxHandler(svc *service.NoteService) *InboxHandler {
	return &InboxHandler{svc: svc}
}

// CreateRequest is the direct entry creation payload.
type CreateRequest struct {
	Content string `json:"content"`
	Origin  string `json:"origin"`
}

// Create handles POST /api/inbox.
func (h *InboxHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.svc.CreateEntry(ctx, req.Content, req.Origin)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create entry")
		return
	}
	writeJSON(w, http.StatusCreated, entryOut(entry))
}

// List handles GET /api/inbox.
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.svc.ListInbox(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list inbox")
		return
	}
	writeJSON(w, http.StatusOK, entriesOut(entries))
}

// Get handles GET /api/inbox/{id}.
func (h *InboxHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entry, err := h.svc.GetEntry(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load entry")
		return
	}
	writeJSON(w, http.StatusOK, entryOut(entry))
}

// UpdateRequest carries partial entry updates. Absent fields are left
// untouched.
type UpdateRequest struct {
	Content *string `json:"content"`
	Summary *string `json:"summary"`
	Tags    *string `json:"tags"`
	Status  *string `json:"status"`
}

// Update handles PATCH /api/inbox/{id}.
func (h *InboxHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.svc.UpdateEntry(ctx, chi.URLParam(r, "id"), service.EntryUpdate{
		Content: req.Content,
		Summary: req.Summary,
		Tags:    req.Tags,
		Status:  req.Status,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update entry")
		return
	}
	writeJSON(w, http.StatusOK, entryOut(entry))
}

// Process handles POST /api/inbox/{id}/process. It exports the entry
// with its curated summary and tags.
func (h *InboxHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	entry, err := h.svc.ProcessEntry(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process entry")
		return
	}
	logger.InfoContext(ctx, "inbox entry processed", "entry_id", id, "destination", entry.Destination)
	writeJSON(w, http.StatusOK, entryOut(entry))
}

// Classify handles POST /api/inbox/{id}/classify. It previews the
// provider's judgment without touching the store.
func (h *InboxHandler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results, err := h.svc.ClassifyEntry(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("lang"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to classify entry")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Discard handles DELETE /api/inbox/{id}.
func (h *InboxHandler) Discard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entry, err := h.svc.DiscardEntry(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to discard entry")
		return
	}
	writeJSON(w, http.StatusOK, entryOut(entry))
}
