package service

import (
	"context"
	"errors"
	"strings"

	"digitalbrain/internal/fuzzy"
	"digitalbrain/internal/storage"
)

// BatchSave stores pre-classified ideas directly, skipping the
// provider. Used by document imports where the grouping is already
// known. Duplicates and blank ideas are skipped, not errors; the
// return value counts the entries actually stored.
func (s *NoteService) BatchSave(ctx context.Context, items []BatchItem, origin string) (int, error) {
	if origin == "" {
		origin = "import"
	}

	saved := 0
	touched := make(map[[2]string]bool)
	for _, item := range items {
		idea := strings.TrimSpace(item.Idea)
		if idea == "" {
			continue
		}
		tags := storage.JoinTags(item.Group, item.Subgroup)

		// Same dedup guard as single adds: a fuzzily-equivalent idea
		// under the same tag path is skipped, not re-imported.
		existing, err := s.entries.ListByStatusAndTags(ctx, storage.StatusProcessed, tags)
		if err != nil {
			return saved, WrapError(err, "failed to query duplicates")
		}
		duplicate := false
		for _, dup := range existing {
			if fuzzy.Similar(dup.Summary, idea) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		entry := &storage.Entry{
			Content: idea,
			Origin:  origin,
			Type:    ClassifyContent(idea),
			Summary: idea,
			Tags:    tags,
		}
		err = s.entries.Insert(ctx, entry)
		if errors.Is(err, storage.ErrDuplicateContent) {
			continue
		}
		if err != nil {
			return saved, WrapError(err, "failed to save batch item")
		}

		s.exportEntry(ctx, entry)
		saved++
		if item.Group != "" {
			touched[[2]string{item.Group, item.Subgroup}] = true
		}
	}

	for key := range touched {
		if err := s.maybeAutoSummarize(ctx, key[0], key[1]); err != nil {
			// Same policy as single adds: summaries are best-effort.
			continue
		}
	}
	return saved, nil
}
