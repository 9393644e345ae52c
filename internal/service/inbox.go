package service

import (
	"context"
	"errors"
	"strings"

	"digitalbrain/internal/ai"
	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/storage"
	"digitalbrain/internal/temporal"
)

// CreateEntry stores a note directly, without classification. Content
// collisions surface as ErrAlreadyExists.
func (s *NoteService) CreateEntry(ctx context.Context, content, origin string) (*storage.Entry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ValidationError{Field: "content", Message: "cannot be empty"}
	}
	if origin == "" {
		origin = "manual"
	}

	entry := &storage.Entry{
		Content:   content,
		Origin:    origin,
		Type:      ClassifyContent(content),
		SourceURL: FirstURL(content),
	}
	err := s.entries.Insert(ctx, entry)
	if errors.Is(err, storage.ErrDuplicateContent) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, WrapError(err, "failed to create entry")
	}
	return entry, nil
}

// ListInbox returns pending entries awaiting processing.
func (s *NoteService) ListInbox(ctx context.Context) ([]storage.Entry, error) {
	return s.entries.ListByStatus(ctx, storage.StatusPending)
}

// GetEntry fetches a single entry by ID.
func (s *NoteService) GetEntry(ctx context.Context, id string) (*storage.Entry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return entry, err
}

// UpdateEntry applies a partial update to an entry. Nil fields in the
// update are left untouched.
func (s *NoteService) UpdateEntry(ctx context.Context, id string, update EntryUpdate) (*storage.Entry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			return nil, &ValidationError{Field: "content", Message: "cannot be empty"}
		}
		entry.Content = *update.Content
	}
	if update.Summary != nil {
		entry.Summary = *update.Summary
	}
	if update.Tags != nil {
		entry.Tags = *update.Tags
	}
	if update.Status != nil {
		switch *update.Status {
		case storage.StatusPending, storage.StatusProcessed, storage.StatusDiscarded:
			entry.Status = *update.Status
		default:
			return nil, &ValidationError{Field: "status", Message: "unknown status"}
		}
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, WrapError(err, "failed to update entry")
	}
	return entry, nil
}

// ProcessEntry exports a curated inbox entry as-is and marks it
// processed. Summary and tags are whatever ClassifyEntry stored and
// the user adjusted; processing does not consult the provider.
func (s *NoteService) ProcessEntry(ctx context.Context, id string) (*storage.Entry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status == storage.StatusProcessed {
		return nil, ErrAlreadyProcessed
	}

	dest, err := s.exporter.Export(ctx, entry)
	if err != nil {
		return nil, WrapError(err, "failed to export entry")
	}

	processedAt := s.now().UTC()
	entry.Destination = dest
	entry.Status = storage.StatusProcessed
	entry.ProcessedAt = &processedAt
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, WrapError(err, "failed to mark entry processed")
	}

	s.indexEntry(ctx, entry)

	if group, subgroup := storage.SplitTags(entry.Tags); group != "" {
		if err := s.maybeAutoSummarize(ctx, group, subgroup); err != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "auto-summarize failed", "group", group, "error", err)
		}
	}
	return entry, nil
}

// DiscardEntry soft-removes an entry from the inbox.
func (s *NoteService) DiscardEntry(ctx context.Context, id string) (*storage.Entry, error) {
	status := storage.StatusDiscarded
	return s.UpdateEntry(ctx, id, EntryUpdate{Status: &status})
}

// ClassifyEntry asks the provider about a pending entry and stores the
// first add judgment's summary and tags on the entry, so the user can
// curate them before processing. Unlike SubmitNote it fails hard when
// the provider is down.
func (s *NoteService) ClassifyEntry(ctx context.Context, id, lang string) ([]ai.Result, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = "es"
	}

	taxonomy, err := s.BuildTaxonomy(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to build taxonomy snapshot")
	}

	results, err := s.ai.Classify(ctx, entry.Content, taxonomy, lang)
	if errors.Is(err, ai.ErrUnavailable) {
		return nil, ErrAIUnavailable
	}
	if err != nil {
		return nil, WrapError(err, "classification failed")
	}

	for _, r := range results {
		if !r.MakesSense || r.Action == ai.ActionDelete || r.Action == ai.ActionRemind {
			continue
		}
		entry.Summary = temporal.FixTimeColons(r.Idea)
		entry.Tags = storage.JoinTags(r.Group, r.Subgroup)
		if err := s.entries.Update(ctx, entry); err != nil {
			return nil, WrapError(err, "failed to store classification")
		}
		break
	}
	return results, nil
}
