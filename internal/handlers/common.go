// Package handlers exposes the note engine over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/service"
	"digitalbrain/internal/storage"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EntryOut is the wire form of a stored entry.
type EntryOut struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Summary     string     `json:"summary,omitempty"`
	Tags        string     `json:"tags,omitempty"`
	Type        string     `json:"type"`
	Origin      string     `json:"origin"`
	Status      string     `json:"status"`
	SourceURL   string     `json:"source_url,omitempty"`
	Destination string     `json:"destination,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func entryOut(e *storage.Entry) *EntryOut {
	if e == nil {
		return nil
	}
	return &EntryOut{
		ID:          e.ID,
		Content:     e.Content,
		Summary:     e.Summary,
		Tags:        e.Tags,
		Type:        e.Type,
		Origin:      e.Origin,
		Status:      e.Status,
		SourceURL:   e.SourceURL,
		Destination: e.Destination,
		CreatedAt:   e.CreatedAt,
		ProcessedAt: e.ProcessedAt,
	}
}

func entriesOut(entries []storage.Entry) []EntryOut {
	out := make([]EntryOut, 0, len(entries))
	for i := range entries {
		out = append(out, *entryOut(&entries[i]))
	}
	return out
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// handleServiceError maps service layer errors onto HTTP status codes.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if errors.Is(err, service.ErrAlreadyExists) {
		writeError(w, http.StatusConflict, "Entry already exists")
		return
	}
	if errors.Is(err, service.ErrAlreadyProcessed) {
		writeError(w, http.StatusConflict, "Entry already processed")
		return
	}
	if errors.Is(err, service.ErrAIUnavailable) {
		writeError(w, http.StatusBadGateway, "AI service unavailable")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}
