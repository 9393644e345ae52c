package service

import (
	"context"
	"strings"

	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/storage"
)

const defaultSearchLimit = 10

// Search finds entries matching the query. With a semantic index
// configured it searches by embedding similarity and falls back to a
// substring scan when the index is unavailable or empty.
func (s *NoteService) Search(ctx context.Context, query string, limit int) ([]storage.Entry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "q", Message: "cannot be empty"}
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if s.index != nil {
		ids, err := s.index.Query(ctx, query, limit)
		if err != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "semantic search failed, falling back to substring scan", "error", err)
		} else if len(ids) > 0 {
			entries := make([]storage.Entry, 0, len(ids))
			for _, id := range ids {
				entry, err := s.entries.GetByID(ctx, id)
				if err != nil {
					// Index lag: the row may be gone already.
					continue
				}
				entries = append(entries, *entry)
			}
			return entries, nil
		}
	}

	entries, err := s.entries.SearchLike(ctx, query)
	if err != nil {
		return nil, WrapError(err, "search failed")
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// ListSummaries returns all stored group summaries.
func (s *NoteService) ListSummaries(ctx context.Context) ([]storage.GroupSummary, error) {
	return s.summaries.List(ctx)
}
