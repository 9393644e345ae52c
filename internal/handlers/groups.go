package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"digitalbrain/internal/service"
)

// GroupsHandler exposes the taxonomy and its maintenance operations.
type GroupsHandler struct {
	svc *service.NoteService
}

// NewGroupsHandler creates a new GroupsHandler.
func NewGroupsHandler(svc *service.NoteService) *GroupsHandler {
	return &GroupsHandler{svc: svc}
}

// List handles GET /api/groups.
func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groups, err := h.svc.BuildTaxonomy(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list groups")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// CountResponse reports how many entries an operation touched.
type CountResponse struct {
	Count int `json:"count"`
}

// Delete handles DELETE /api/groups/{group}.
func (h *GroupsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deleted, err := h.svc.DeleteGroup(ctx, chi.URLParam(r, "group"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to delete group")
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: deleted})
}

// RenameRequest carries the new name for a rename operation.
type RenameRequest struct {
	NewName string `json:"new_name"`
}

// Rename handles POST /api/groups/{group}/rename.
func (h *GroupsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	renamed, err := h.svc.RenameGroup(ctx, chi.URLParam(r, "group"), req.NewName)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to rename group")
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: renamed})
}

// DeleteSubgroup handles DELETE /api/groups/{group}/subgroups/{subgroup}.
func (h *GroupsHandler) DeleteSubgroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deleted, err := h.svc.DeleteSubgroup(ctx, chi.URLParam(r, "group"), chi.URLParam(r, "subgroup"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to delete subgroup")
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: deleted})
}

// RenameSubgroup handles POST /api/groups/{group}/subgroups/{subgroup}/rename.
func (h *GroupsHandler) RenameSubgroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	renamed, err := h.svc.RenameSubgroup(ctx, chi.URLParam(r, "group"), chi.URLParam(r, "subgroup"), req.NewName)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to rename subgroup")
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: renamed})
}
