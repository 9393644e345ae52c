package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/service"
)

// NoteHandler handles note submission and batch imports.
type NoteHandler struct {
	svc *service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// NoteRequest is the note submission payload.
type NoteRequest struct {
	Text   string `json:"text"`
	Origin string `json:"origin"`
	Lang   string `json:"lang"`
}

// OutcomeOut is the wire form of one reconciliation outcome.
type OutcomeOut struct {
	Action       string     `json:"action"`
	Entry        *EntryOut  `json:"entry,omitempty"`
	Group        string     `json:"group,omitempty"`
	Subgroup     string     `json:"subgroup,omitempty"`
	Idea         string     `json:"idea,omitempty"`
	AISkipped    bool       `json:"ai_skipped,omitempty"`
	DeletedCount int        `json:"deleted_count,omitempty"`
	RemindAt     *time.Time `json:"remind_at,omitempty"`
}

// NoteResponse is the note submission response.
type NoteResponse struct {
	Results []OutcomeOut `json:"results"`
}

// Submit handles POST /api/note.
func (h *NoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcomes, err := h.svc.SubmitNote(ctx, req.Text, req.Origin, req.Lang)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process note")
		return
	}

	results := make([]OutcomeOut, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, OutcomeOut{
			Action:       o.Action,
			Entry:        entryOut(o.Entry),
			Group:        o.Group,
			Subgroup:     o.Subgroup,
			Idea:         o.Idea,
			AISkipped:    o.AISkipped,
			DeletedCount: o.DeletedCount,
			RemindAt:     o.RemindAt,
		})
	}
	writeJSON(w, http.StatusOK, NoteResponse{Results: results})
}

// BatchRequest is the pre-classified import payload.
type BatchRequest struct {
	Origin string `json:"origin"`
	Items  []struct {
		Idea     string `json:"idea"`
		Group    string `json:"group"`
		Subgroup string `json:"subgroup"`
	} `json:"items"`
}

// BatchResponse reports how many items were stored.
type BatchResponse struct {
	Saved int `json:"saved"`
}

// BatchSave handles POST /api/batch-save.
func (h *NoteHandler) BatchSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]service.BatchItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.BatchItem{Idea: it.Idea, Group: it.Group, Subgroup: it.Subgroup})
	}

	saved, err := h.svc.BatchSave(ctx, items, req.Origin)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to save batch")
		return
	}
	writeJSON(w, http.StatusOK, BatchResponse{Saved: saved})
}
