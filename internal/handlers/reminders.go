package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"digitalbrain/internal/service"
	"digitalbrain/internal/storage"
)

// RemindersHandler exposes scheduled reminders.
type RemindersHandler struct {
	svc *service.NoteService
}

// NewRemindersHandler creates a new RemindersHandler.
func NewRemindersHandler(svc *service.NoteService) *RemindersHandler {
	return &RemindersHandler{svc: svc}
}

// ReminderOut is the wire form of a reminder.
type ReminderOut struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	FireAt    time.Time `json:"fire_at"`
	Sent      bool      `json:"sent"`
	EntryID   string    `json:"entry_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func remindersOut(reminders []storage.Reminder) []ReminderOut {
	out := make([]ReminderOut, 0, len(reminders))
	for _, rem := range reminders {
		out = append(out, ReminderOut{
			ID:        rem.ID,
			Message:   rem.Message,
			FireAt:    rem.FireAt,
			Sent:      rem.Sent,
			EntryID:   rem.EntryID,
			CreatedAt: rem.CreatedAt,
		})
	}
	return out
}

// List handles GET /api/reminders. The optional sent query parameter
// filters by delivery state.
func (h *RemindersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var sent *bool
	switch r.URL.Query().Get("sent") {
	case "true":
		v := true
		sent = &v
	case "false":
		v := false
		sent = &v
	}

	reminders, err := h.svc.ListReminders(ctx, sent)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list reminders")
		return
	}
	writeJSON(w, http.StatusOK, remindersOut(reminders))
}

// Delete handles DELETE /api/reminders/{id}.
func (h *RemindersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.svc.DeleteReminder(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete reminder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
