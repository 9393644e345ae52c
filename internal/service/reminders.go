package service

import (
	"context"
	"errors"

	"digitalbrain/internal/contextutil"
	"digitalbrain/internal/storage"
)

// ListReminders returns reminders, optionally filtered by sent state.
func (s *NoteService) ListReminders(ctx context.Context, sent *bool) ([]storage.Reminder, error) {
	return s.reminders.List(ctx, sent)
}

// DeleteReminder removes a reminder and, when it links to an entry,
// the entry as well. Deleting an unknown reminder is a no-op.
func (s *NoteService) DeleteReminder(ctx context.Context, id string) error {
	rem, err := s.reminders.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return WrapError(err, "failed to load reminder")
	}

	if err := s.reminders.Delete(ctx, id); err != nil {
		return WrapError(err, "failed to delete reminder")
	}

	if rem.EntryID != "" {
		if err := s.entries.Delete(ctx, rem.EntryID); err != nil {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to delete linked entry", "entry_id", rem.EntryID, "error", err)
		} else {
			s.removeFromIndex(ctx, []string{rem.EntryID})
		}
	}
	return nil
}
