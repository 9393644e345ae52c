package handlers

import (
	"net/http"
	"time"

	"digitalbrain/internal/service"
	"digitalbrain/internal/storage"
)

// SummariesHandler exposes generated group summaries.
type SummariesHandler struct {
	svc *service.NoteService
}

// NewSummariesHandler creates a new SummariesHandler.
func NewSummariesHandler(svc *service.NoteService) *SummariesHandler {
	return &SummariesHandler{svc: svc}
}

// SummaryOut is the wire form of a group summary.
type SummaryOut struct {
	Group     string    `json:"group"`
	Subgroup  string    `json:"subgroup,omitempty"`
	Summary   string    `json:"summary"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServeHTTP handles GET /api/summaries.
func (h *SummariesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := h.svc.ListSummaries(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list summaries")
		return
	}

	out := make([]SummaryOut, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryOut(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func summaryOut(s storage.GroupSummary) SummaryOut {
	return SummaryOut{
		Group:     s.Group,
		Subgroup:  s.Subgroup,
		Summary:   s.Summary,
		UpdatedAt: s.UpdatedAt,
	}
}
